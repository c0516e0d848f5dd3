package portfolio

import (
	"fmt"
	"sort"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/risk"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/size"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/apexquant/apexbt/log"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Setup creates a portfolio manager instance and validates its settings
func Setup(settings Settings, sh size.Handler, rh risk.Handler) (*Portfolio, error) {
	if sh == nil {
		return nil, errSizeManagerUnset
	}
	if rh == nil {
		return nil, errRiskManagerUnset
	}
	if settings.InitialCash.LessThanOrEqual(decimal.Zero) {
		return nil, errInitialCashUnset
	}
	if settings.MarginRequirement.IsNegative() || settings.MarginRequirement.GreaterThanOrEqual(one) {
		return nil, errInvalidMarginReq
	}
	if settings.ShortAllowance.IsNegative() {
		return nil, errNegativeAllowance
	}
	return &Portfolio{
		settings:    settings,
		sizeManager: sh,
		riskManager: rh,
		cash:        settings.InitialCash,
		positions:   make(map[string]*Position),
		lastPrices:  make(map[string]decimal.Decimal),
		log:         log.New("portfolio"),
	}, nil
}

// Reset returns the portfolio to its initial state
func (p *Portfolio) Reset() {
	p.cash = p.settings.InitialCash
	p.realized = decimal.Zero
	p.positions = make(map[string]*Position)
	p.lastPrices = make(map[string]decimal.Decimal)
	p.equityLog = nil
	p.fillLog = nil
	p.liquidations = 0
}

// OnSignal turns a strategy intention into an order request, or refuses it.
// A refusal returns a nil order with no error, the reasons are pre-trade
// policy, not faults: zero volume trigger bar, insufficient cash for a buy,
// shorting beyond allowance, or the risk manager's gate
func (p *Portfolio) OnSignal(s signal.Event, bar kline.Event) (order.Event, error) {
	if s == nil || bar == nil {
		return nil, common.ErrNilArguments
	}
	if sig, ok := s.(*signal.Signal); ok {
		if err := sig.Validate(); err != nil {
			return nil, err
		}
	}
	if bar.GetVolume() == 0 {
		p.log.Debug().Str("symbol", s.GetSymbol()).Time("time", s.GetTime()).
			Msg("signal refused, zero volume bar")
		return nil, nil
	}

	marks := p.marksWith(bar)
	equity := p.equityAt(marks)
	closePrice := bar.GetClosePrice()

	var side common.Side
	var qty decimal.Decimal
	var closing bool
	pos, held := p.positions[s.GetSymbol()]
	openQty := decimal.Zero
	if held {
		openQty = pos.Quantity()
	}

	switch s.GetDirection() {
	case common.Exit:
		if openQty.IsZero() {
			return nil, nil
		}
		side = opposite(pos.Side)
		qty = openQty
		closing = true
	case common.Long:
		if !openQty.IsZero() && pos.Side == common.Sell {
			// close the open short before any new exposure
			side, qty, closing = common.Buy, openQty, true
			break
		}
		sized, err := p.sizeManager.SizeOrder(s, bar, equity, p.cash)
		if err != nil {
			return nil, err
		}
		if sized.LessThanOrEqual(decimal.Zero) {
			return nil, nil
		}
		if sized.Mul(closePrice).GreaterThan(p.cash) {
			p.log.Debug().Str("symbol", s.GetSymbol()).Str("quantity", sized.String()).
				Msg("buy refused, insufficient cash")
			return nil, nil
		}
		side, qty = common.Buy, sized
	case common.Short:
		if !openQty.IsZero() && pos.Side == common.Buy {
			side, qty, closing = common.Sell, openQty, true
			break
		}
		sized, err := p.sizeManager.SizeOrder(s, bar, equity, p.cash)
		if err != nil {
			return nil, err
		}
		if sized.LessThanOrEqual(decimal.Zero) {
			return nil, nil
		}
		if !p.marginEnabled() {
			shortNotional := p.shortNotional(marks).Add(sized.Mul(closePrice))
			if shortNotional.GreaterThan(p.settings.ShortAllowance) {
				p.log.Debug().Str("symbol", s.GetSymbol()).Str("notional", shortNotional.String()).
					Msg("short refused, beyond allowance without margin")
				return nil, nil
			}
		}
		side, qty = common.Sell, sized
	default:
		return nil, fmt.Errorf("%w, received '%v'", signal.ErrInvalidDirection, s.GetDirection())
	}

	// orders which only reduce exposure never go through the risk gate
	if !closing {
		err := p.riskManager.EvaluateOrder(side, qty.Mul(closePrice), equity, p.openNotional(marks))
		if err != nil {
			p.log.Debug().Str("symbol", s.GetSymbol()).Err(err).Msg("order refused by risk manager")
			return nil, nil
		}
	}

	o := &order.Order{
		Base: &event.Base{
			Offset:   s.GetOffset(),
			Symbol:   s.GetSymbol(),
			Time:     s.GetTime(),
			Interval: s.GetInterval(),
			Reason:   s.GetReason(),
		},
		Side:      side,
		OrderType: common.Market,
		Quantity:  qty,
	}
	return o, nil
}

// OnFill is the only place monetary state changes. Closing fills consume
// lots front-first, realized PnL per lot is the signed price difference
// times quantity minus that lot's proportional entry and exit friction.
// A fill which would over-close is rejected with no state change
func (p *Portfolio) OnFill(f fill.Event) error {
	if f == nil {
		return common.ErrNilEvent
	}
	if f.GetSide() != common.Buy && f.GetSide() != common.Sell {
		return fmt.Errorf("%w, received '%v'", common.ErrInvalidSide, f.GetSide())
	}
	if f.GetQuantity().LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w, received %v", order.ErrNonPositiveQuantity, f.GetQuantity())
	}

	symbol := f.GetSymbol()
	pos, held := p.positions[symbol]
	closing := held && !pos.Quantity().IsZero() && pos.Side == opposite(f.GetSide())
	if closing {
		if f.GetQuantity().GreaterThan(pos.Quantity()) {
			return fmt.Errorf("%w, %v of %v %v held, fill for %v",
				ErrOverClose, pos.Quantity(), pos.Side, symbol, f.GetQuantity())
		}
		p.closeLots(pos, f)
		if len(pos.lots) == 0 {
			delete(p.positions, symbol)
		}
	} else {
		p.openLot(f)
	}

	// commission is the only cash-side friction, slippage and spread are
	// already embedded in the fill price
	notional := f.GetPrice().Mul(f.GetQuantity())
	if f.GetSide() == common.Buy {
		p.cash = p.cash.Sub(notional).Sub(f.GetCommission())
	} else {
		p.cash = p.cash.Add(notional).Sub(f.GetCommission())
	}

	p.fillLog = append(p.fillLog, f)
	return p.reconcile(f)
}

// closeLots consumes FIFO lots for a closing fill. The caller has already
// verified the fill cannot over-close
func (p *Portfolio) closeLots(pos *Position, f fill.Event) {
	remaining := f.GetQuantity()
	exitFrictionLeft := f.GetCommission()
	for remaining.IsPositive() {
		l := &pos.lots[0]
		closeQty := decimal.Min(l.quantity, remaining)

		var entryShare decimal.Decimal
		if closeQty.Equal(l.quantity) {
			entryShare = l.friction
		} else {
			entryShare = l.friction.Mul(closeQty).Div(l.quantity)
		}
		var exitShare decimal.Decimal
		if closeQty.Equal(remaining) {
			// last lot takes the remainder so shares sum exactly
			exitShare = exitFrictionLeft
		} else {
			exitShare = f.GetCommission().Mul(closeQty).Div(f.GetQuantity())
		}

		var gross decimal.Decimal
		if pos.Side == common.Buy {
			gross = f.GetPrice().Sub(l.entryPrice).Mul(closeQty)
		} else {
			gross = l.entryPrice.Sub(f.GetPrice()).Mul(closeQty)
		}
		p.realized = p.realized.Add(gross).Sub(entryShare).Sub(exitShare)

		l.quantity = l.quantity.Sub(closeQty)
		l.friction = l.friction.Sub(entryShare)
		remaining = remaining.Sub(closeQty)
		exitFrictionLeft = exitFrictionLeft.Sub(exitShare)
		if l.quantity.IsZero() {
			pos.lots = pos.lots[1:]
		}
	}
}

// openLot appends a new FIFO lot, capitalizing the entry commission
func (p *Portfolio) openLot(f fill.Event) {
	pos, held := p.positions[f.GetSymbol()]
	if !held || pos.Quantity().IsZero() {
		pos = &Position{Symbol: f.GetSymbol(), Side: f.GetSide()}
		p.positions[f.GetSymbol()] = pos
	}
	pos.lots = append(pos.lots, lot{
		entryPrice: f.GetPrice(),
		quantity:   f.GetQuantity(),
		friction:   f.GetCommission(),
	})
}

// reconcile asserts the central accounting identity after every fill:
// cash + position book value == initial equity + realized PnL. Book value
// marks each lot at its entry price with capitalized friction, making the
// identity exact regardless of market movement
func (p *Portfolio) reconcile(f fill.Event) error {
	book := decimal.Zero
	for _, pos := range p.positions {
		for i := range pos.lots {
			l := pos.lots[i]
			notional := l.entryPrice.Mul(l.quantity)
			if pos.Side == common.Buy {
				book = book.Add(notional).Add(l.friction)
			} else {
				book = book.Sub(notional).Add(l.friction)
			}
		}
	}
	lhs := p.cash.Add(book)
	rhs := p.settings.InitialCash.Add(p.realized)
	if !lhs.Equal(rhs) {
		return fmt.Errorf("%w after fill at %v: cash+book %v != initial+realized %v",
			ErrReconciliation, f.GetTime(), lhs, rhs)
	}
	return nil
}

// UpdateHoldings marks every open position to the bar's close, enforces the
// margin requirement and appends one equity log entry. Called once per bar
// after the bar's event cascade has fully drained
func (p *Portfolio) UpdateHoldings(bar kline.Event) error {
	if bar == nil {
		return common.ErrNilEvent
	}
	p.lastPrices[bar.GetSymbol()] = bar.GetClosePrice()

	if p.marginEnabled() {
		if err := p.checkMargin(bar); err != nil {
			return err
		}
	}

	positionValue := p.positionValue(p.lastPrices)
	p.equityLog = append(p.equityLog, EquityEntry{
		Time:          bar.GetTime(),
		Offset:        bar.GetOffset(),
		Cash:          p.cash,
		PositionValue: positionValue,
		Equity:        p.cash.Add(positionValue),
	})
	return nil
}

// checkMargin forces a full liquidation when post-mark equity falls below
// aggregate position notional times the margin requirement. A margin breach
// is a defined state transition, not an error
func (p *Portfolio) checkMargin(bar kline.Event) error {
	notional := p.openNotional(p.lastPrices)
	if notional.IsZero() {
		return nil
	}
	equity := p.equityAt(p.lastPrices)
	if equity.GreaterThanOrEqual(notional.Mul(p.settings.MarginRequirement)) {
		return nil
	}
	p.log.Warn().
		Str("equity", equity.String()).
		Str("notional", notional.String()).
		Time("time", bar.GetTime()).
		Msg("margin breached, forcing liquidation")
	return p.forceLiquidateAll(bar)
}

// forceLiquidateAll closes every open position at its last mark, same bar,
// no slippage or spread, commission optional. Symbols close in lexical
// order for determinism. Fills are flagged so downstream analytics can
// attribute them separately from strategy closes
func (p *Portfolio) forceLiquidateAll(bar kline.Event) error {
	symbols := make([]string, 0, len(p.positions))
	for symbol := range p.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		pos := p.positions[symbol]
		qty := pos.Quantity()
		if qty.IsZero() {
			continue
		}
		price, ok := p.lastPrices[symbol]
		if !ok {
			price = pos.lots[0].entryPrice
		}
		commission := decimal.Zero
		if p.settings.LiquidationCommission {
			commission = p.settings.CommissionPerTrade.
				Add(p.settings.CommissionPerUnit.Mul(qty))
		}
		f := &fill.Fill{
			Base: &event.Base{
				Offset:   bar.GetOffset(),
				Symbol:   symbol,
				Time:     bar.GetTime(),
				Interval: bar.GetInterval(),
				Reason:   "forced liquidation on margin breach",
			},
			Side:       opposite(pos.Side),
			Quantity:   qty,
			Price:      price,
			Commission: commission,
			Slippage:   decimal.Zero,
			SpreadCost: decimal.Zero,
			Liquidated: true,
		}
		if err := p.OnFill(f); err != nil {
			return err
		}
		p.liquidations++
	}
	return nil
}

// Cash returns the current cash balance
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// RealizedPnL returns the accumulated realized profit and loss
func (p *Portfolio) RealizedPnL() decimal.Decimal {
	return p.realized
}

// Equity returns cash plus position value at the last known marks
func (p *Portfolio) Equity() decimal.Decimal {
	return p.equityAt(p.lastPrices)
}

// EquityLog returns a copy of the append-only equity log
func (p *Portfolio) EquityLog() []EquityEntry {
	out := make([]EquityEntry, len(p.equityLog))
	copy(out, p.equityLog)
	return out
}

// FillLog returns a copy of the append-only fill log
func (p *Portfolio) FillLog() []fill.Event {
	out := make([]fill.Event, len(p.fillLog))
	copy(out, p.fillLog)
	return out
}

// PositionQuantity returns the side and open quantity for a symbol
func (p *Portfolio) PositionQuantity(symbol string) (common.Side, decimal.Decimal) {
	pos, ok := p.positions[symbol]
	if !ok {
		return "", decimal.Zero
	}
	return pos.Side, pos.Quantity()
}

// LiquidationCount returns how many positions were force-closed
func (p *Portfolio) LiquidationCount() int64 {
	return p.liquidations
}

// Quantity returns the total open quantity across the position's lots
func (pos *Position) Quantity() decimal.Decimal {
	total := decimal.Zero
	for i := range pos.lots {
		total = total.Add(pos.lots[i].quantity)
	}
	return total
}

// AverageEntryPrice returns the quantity-weighted entry price of the open lots
func (pos *Position) AverageEntryPrice() decimal.Decimal {
	qty := pos.Quantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	weighted := decimal.Zero
	for i := range pos.lots {
		weighted = weighted.Add(pos.lots[i].entryPrice.Mul(pos.lots[i].quantity))
	}
	return weighted.Div(qty)
}

func (p *Portfolio) marginEnabled() bool {
	return p.settings.MarginRequirement.IsPositive()
}

// marksWith returns the last known marks with the given bar's close applied
func (p *Portfolio) marksWith(bar kline.Event) map[string]decimal.Decimal {
	marks := make(map[string]decimal.Decimal, len(p.lastPrices)+1)
	for symbol, price := range p.lastPrices {
		marks[symbol] = price
	}
	marks[bar.GetSymbol()] = bar.GetClosePrice()
	return marks
}

// positionValue sums signed market value: long +mark*qty, short -mark*qty
func (p *Portfolio) positionValue(marks map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for symbol, pos := range p.positions {
		qty := pos.Quantity()
		if qty.IsZero() {
			continue
		}
		mark, ok := marks[symbol]
		if !ok {
			mark = pos.lots[0].entryPrice
		}
		value := mark.Mul(qty)
		if pos.Side == common.Buy {
			total = total.Add(value)
		} else {
			total = total.Sub(value)
		}
	}
	return total
}

// openNotional sums the absolute exposure of every open position
func (p *Portfolio) openNotional(marks map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for symbol, pos := range p.positions {
		qty := pos.Quantity()
		if qty.IsZero() {
			continue
		}
		mark, ok := marks[symbol]
		if !ok {
			mark = pos.lots[0].entryPrice
		}
		total = total.Add(mark.Mul(qty))
	}
	return total
}

// shortNotional sums exposure on the short side only
func (p *Portfolio) shortNotional(marks map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for symbol, pos := range p.positions {
		if pos.Side != common.Sell {
			continue
		}
		qty := pos.Quantity()
		if qty.IsZero() {
			continue
		}
		mark, ok := marks[symbol]
		if !ok {
			mark = pos.lots[0].entryPrice
		}
		total = total.Add(mark.Mul(qty))
	}
	return total
}

func (p *Portfolio) equityAt(marks map[string]decimal.Decimal) decimal.Decimal {
	return p.cash.Add(p.positionValue(marks))
}

func opposite(s common.Side) common.Side {
	if s == common.Buy {
		return common.Sell
	}
	return common.Buy
}
