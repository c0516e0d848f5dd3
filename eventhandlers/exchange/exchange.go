package exchange

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/apexquant/apexbt/log"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// New validates settings and returns an execution engine instance
func New(settings Settings) (*Exchange, error) {
	if settings.SlippagePercent.IsNegative() ||
		settings.SpreadPercent.IsNegative() ||
		settings.CommissionPerTrade.IsNegative() ||
		settings.CommissionPerUnit.IsNegative() {
		return nil, errNegativeSetting
	}
	return &Exchange{
		settings: settings,
		log:      log.New("exchange"),
	}, nil
}

// Reset returns the exchange to initial settings, dropping pending orders
func (e *Exchange) Reset() {
	e.pending = nil
}

// OnOrder validates an order event and holds it for execution against
// subsequent bars. An order is never evaluated against the bar which
// produced its signal, that is the execution side half of the causality
// guarantee
func (e *Exchange) OnOrder(o order.Event) error {
	if o == nil {
		return common.ErrNilEvent
	}
	ord, ok := o.(*order.Order)
	if !ok {
		return fmt.Errorf("unexpected order event %T", o)
	}
	if err := ord.Validate(); err != nil {
		return err
	}
	if o.GetID() == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		o.SetID(id.String())
	}
	for i := range e.pending {
		if e.pending[i].order.GetID() == o.GetID() {
			return fmt.Errorf("%w: %v", ErrDuplicateOrderID, o.GetID())
		}
	}
	e.pending = append(e.pending, pendingOrder{order: o, submitted: o.GetTime()})
	e.log.Debug().
		Str("order", o.GetID()).
		Str("side", string(o.GetSide())).
		Str("type", string(o.GetOrderType())).
		Msg("order held pending")
	return nil
}

// OnData evaluates every pending order against the new bar, in submission
// order, and returns the resulting fills. Orders whose condition is not met
// roll forward unchanged. Zero volume bars fill nothing
func (e *Exchange) OnData(bar kline.Event) ([]fill.Event, error) {
	if bar == nil {
		return nil, common.ErrNilEvent
	}
	if bar.GetVolume() == 0 {
		return nil, nil
	}
	var fills []fill.Event
	remaining := e.pending[:0]
	for i := range e.pending {
		if e.pending[i].order.GetSymbol() != bar.GetSymbol() {
			remaining = append(remaining, e.pending[i])
			continue
		}
		f, err := e.tryFill(e.pending[i].order, bar)
		if err != nil {
			return nil, err
		}
		if f == nil {
			remaining = append(remaining, e.pending[i])
			continue
		}
		fills = append(fills, f)
	}
	e.pending = remaining
	return fills, nil
}

// PendingOrders returns a copy of the orders currently held
func (e *Exchange) PendingOrders() []order.Event {
	out := make([]order.Event, len(e.pending))
	for i := range e.pending {
		out[i] = e.pending[i].order
	}
	return out
}

// CancelOrder removes a pending order by id. There is no expiry policy in
// the engine itself, cancellation is an external policy decision
func (e *Exchange) CancelOrder(id string) bool {
	for i := range e.pending {
		if e.pending[i].order.GetID() != id {
			continue
		}
		e.pending = append(e.pending[:i], e.pending[i+1:]...)
		return true
	}
	return false
}

// tryFill determines whether the bar satisfies the order's fill condition
// and at what base price. A nil fill means the order stays held
func (e *Exchange) tryFill(o order.Event, bar kline.Event) (*fill.Fill, error) {
	var base decimal.Decimal
	switch o.GetOrderType() {
	case common.Market:
		base = bar.GetOpenPrice()
	case common.Limit:
		if o.GetSide() == common.Buy && bar.GetLowPrice().LessThanOrEqual(o.GetPrice()) {
			base = o.GetPrice()
		} else if o.GetSide() == common.Sell && bar.GetHighPrice().GreaterThanOrEqual(o.GetPrice()) {
			base = o.GetPrice()
		}
	case common.Stop:
		base = stopBasePrice(o, bar)
	}
	if base.IsZero() {
		return nil, nil
	}
	return e.fillAt(o, bar, base)
}

// stopBasePrice applies the gap-through rule: when the bar opens beyond the
// stop the fill price is the open, never a price which was not reachable
func stopBasePrice(o order.Event, bar kline.Event) decimal.Decimal {
	switch o.GetSide() {
	case common.Sell:
		if bar.GetOpenPrice().LessThanOrEqual(o.GetPrice()) {
			return bar.GetOpenPrice()
		}
		if bar.GetLowPrice().LessThanOrEqual(o.GetPrice()) {
			return o.GetPrice()
		}
	case common.Buy:
		if bar.GetOpenPrice().GreaterThanOrEqual(o.GetPrice()) {
			return bar.GetOpenPrice()
		}
		if bar.GetHighPrice().GreaterThanOrEqual(o.GetPrice()) {
			return o.GetPrice()
		}
	}
	return decimal.Zero
}

// fillAt applies slippage and half-spread adverse to the trade direction,
// quantizes once to tick precision and itemizes each friction component
func (e *Exchange) fillAt(o order.Event, bar kline.Event, base decimal.Decimal) (*fill.Fill, error) {
	slip := base.Mul(e.settings.SlippagePercent)
	halfSpread := base.Mul(e.settings.SpreadPercent).Div(two)

	var price decimal.Decimal
	switch o.GetSide() {
	case common.Buy:
		price = base.Add(slip).Add(halfSpread)
	case common.Sell:
		price = base.Sub(slip).Sub(halfSpread)
	}
	// quantized once, after all additive adjustments, half up
	price = price.Round(e.settings.TickDecimalPlaces)
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w, order %v at %v", ErrNonPositiveFillPrice, o.GetID(), bar.GetTime())
	}
	qty := o.GetQuantity()
	commission := e.settings.CommissionPerTrade.Add(e.settings.CommissionPerUnit.Mul(qty))

	f := &fill.Fill{
		Base:       barBase(bar),
		OrderID:    o.GetID(),
		Side:       o.GetSide(),
		Quantity:   qty,
		Price:      price,
		Commission: commission,
		Slippage:   slip.Mul(qty),
		SpreadCost: halfSpread.Mul(qty),
	}
	e.log.Debug().
		Str("order", o.GetID()).
		Str("side", string(f.Side)).
		Str("price", price.String()).
		Str("quantity", qty.String()).
		Time("time", bar.GetTime()).
		Msg("order filled")
	return f, nil
}

func barBase(bar kline.Event) *event.Base {
	return &event.Base{
		Offset:   bar.GetOffset(),
		Symbol:   bar.GetSymbol(),
		Time:     bar.GetTime(),
		Interval: bar.GetInterval(),
	}
}
