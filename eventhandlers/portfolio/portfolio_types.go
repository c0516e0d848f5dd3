package portfolio

import (
	"errors"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/risk"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/size"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrOverClose occurs when a fill would close more quantity than the
	// position holds. The fill is rejected outright, never clamped
	ErrOverClose = errors.New("fill would over-close position")
	// ErrReconciliation occurs when cash plus position book value no longer
	// equals initial equity plus realized PnL. The run's state can no
	// longer be trusted
	ErrReconciliation = errors.New("accounting reconciliation failed")

	errSizeManagerUnset   = errors.New("size manager unset")
	errRiskManagerUnset   = errors.New("risk manager unset")
	errInitialCashUnset   = errors.New("initial cash must be positive")
	errInvalidMarginReq   = errors.New("margin requirement must be within [0, 1)")
	errNegativeAllowance  = errors.New("short allowance cannot be negative")
)

// Settings holds the portfolio parameters for one simulation run. Immutable
// once the portfolio is created
type Settings struct {
	InitialCash decimal.Decimal
	// MarginRequirement is the minimum equity as a fraction of aggregate
	// position notional. Zero disables margin monitoring and shorting is
	// then bounded by ShortAllowance only
	MarginRequirement decimal.Decimal
	// ShortAllowance caps aggregate short notional when margin is disabled.
	// Zero forbids shorting without margin
	ShortAllowance decimal.Decimal
	// LiquidationCommission charges commission on forced closeouts. Forced
	// closeouts never pay slippage or spread, they fill at the last mark
	// for determinism
	LiquidationCommission bool
	CommissionPerTrade    decimal.Decimal
	CommissionPerUnit     decimal.Decimal
}

// lot is one FIFO parcel of an open position. friction is the capitalized
// share of entry commission still to be charged against realized PnL
type lot struct {
	entryPrice decimal.Decimal
	quantity   decimal.Decimal
	friction   decimal.Decimal
}

// Position tracks the open lots for one symbol. Opening lots are appended
// at the back, closing consumes from the front
type Position struct {
	Symbol string
	Side   common.Side
	lots   []lot
}

// EquityEntry is one row of the append-only equity log, one per bar consumed
type EquityEntry struct {
	Time          time.Time
	Offset        int64
	Cash          decimal.Decimal
	PositionValue decimal.Decimal
	Equity        decimal.Decimal
}

// Portfolio is the single source of truth for cash, positions and equity,
// and the only component permitted to mutate monetary state
type Portfolio struct {
	settings    Settings
	sizeManager size.Handler
	riskManager risk.Handler

	cash         decimal.Decimal
	realized     decimal.Decimal
	positions    map[string]*Position
	lastPrices   map[string]decimal.Decimal
	equityLog    []EquityEntry
	fillLog      []fill.Event
	liquidations int64
	log          zerolog.Logger
}

// Handler contains all functionality expected from the portfolio manager
type Handler interface {
	OnSignal(signal.Event, kline.Event) (order.Event, error)
	OnFill(fill.Event) error
	UpdateHoldings(kline.Event) error
	Cash() decimal.Decimal
	RealizedPnL() decimal.Decimal
	Equity() decimal.Decimal
	EquityLog() []EquityEntry
	FillLog() []fill.Event
	PositionQuantity(symbol string) (common.Side, decimal.Decimal)
	LiquidationCount() int64
	Reset()
}
