package exchange

import (
	"errors"
	"time"

	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveFillPrice occurs when friction adjustments and tick
	// quantization produce a fill price at or below zero. The order is not
	// coerced and the error is fatal to the run
	ErrNonPositiveFillPrice = errors.New("computed fill price is not positive")
	// ErrDuplicateOrderID occurs when an order is submitted twice
	ErrDuplicateOrderID = errors.New("order id already pending")
	errNegativeSetting  = errors.New("exchange friction settings cannot be negative")
)

// Settings holds the friction and precision parameters for one simulation
// run. Immutable once the exchange is created
type Settings struct {
	// SlippagePercent is applied to the base price, adverse to the trade
	// direction, expressed as a fraction e.g. 0.0001 for one basis point
	SlippagePercent decimal.Decimal
	// SpreadPercent is the full bid/ask spread as a fraction of price,
	// the trader pays half of it on each fill
	SpreadPercent      decimal.Decimal
	CommissionPerTrade decimal.Decimal
	CommissionPerUnit  decimal.Decimal
	// TickDecimalPlaces quantizes fill prices to the instrument class's
	// tick precision, e.g. 2 for equities, 5 for currency pairs
	TickDecimalPlaces int32
}

// pendingOrder is an order awaiting a bar which satisfies its fill condition
type pendingOrder struct {
	order     order.Event
	submitted time.Time
}

// Exchange is the simulated execution engine. It consumes order events,
// holds them pending and fills them against subsequent bars only
type Exchange struct {
	settings Settings
	pending  []pendingOrder
	log      zerolog.Logger
}

// ExecutionHandler interface details what is expected of the execution
// engine in order to be used by the dispatch loop
type ExecutionHandler interface {
	OnOrder(order.Event) error
	OnData(kline.Event) ([]fill.Event, error)
	PendingOrders() []order.Event
	CancelOrder(id string) bool
	Reset()
}
