package common

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order or fill
type Side string

// OrderType describes how an order is to be executed
type OrderType string

// Direction is the intention expressed by a strategy signal
type Direction string

const (
	// Buy side
	Buy Side = "BUY"
	// Sell side
	Sell Side = "SELL"

	// Market orders fill at the next bar's open
	Market OrderType = "MARKET"
	// Limit orders fill when the bar range reaches the limit price
	Limit OrderType = "LIMIT"
	// Stop orders fill when the bar range reaches the stop price
	Stop OrderType = "STOP"

	// Long signals an intention to open or hold a long position
	Long Direction = "LONG"
	// Short signals an intention to open or hold a short position
	Short Direction = "SHORT"
	// Exit signals an intention to close the current position
	Exit Direction = "EXIT"
)

var (
	// ErrNilArguments is a common error response to highlight that nils were
	// passed in when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is a common error for whenever a nil event occurs when it
	// shouldn't have
	ErrNilEvent = errors.New("nil event received")
	// ErrInvalidSide occurs when a side is neither buy nor sell
	ErrInvalidSide = errors.New("invalid side")
)

// Event interface implements required GetTime() & GetSymbol() returns,
// shared by every event which flows through the event queue
type Event interface {
	GetOffset() int64
	SetOffset(int64)
	GetTime() time.Time
	GetSymbol() string
	GetInterval() Interval
	GetReason() string
	AppendReason(string)
}

// DataEvent interface is used to handle market bar data
type DataEvent interface {
	Event
	GetOpenPrice() decimal.Decimal
	GetHighPrice() decimal.Decimal
	GetLowPrice() decimal.Decimal
	GetClosePrice() decimal.Decimal
	GetVolume() int64
}

// Directioner dictates the side of an order
type Directioner interface {
	SetSide(side Side)
	GetSide() Side
}
