package signal

import (
	"errors"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDirection occurs when a signal is created with a direction
	// other than long, short or exit
	ErrInvalidDirection = errors.New("signal direction must be long, short or exit")
	// ErrInvalidStrength occurs when conviction strength is outside [0, 1]
	ErrInvalidStrength = errors.New("signal strength must be between 0 and 1")
)

// Signal contains a directional intention for a symbol produced by strategy
// logic. It carries conviction strength but no sizing
type Signal struct {
	*event.Base
	Direction common.Direction
	Strength  decimal.Decimal
	// ClosePrice is the close of the bar the signal was generated from,
	// carried for sizing context only
	ClosePrice decimal.Decimal
}

// Event handler is used for getting trade signal details
type Event interface {
	common.Event
	GetDirection() common.Direction
	GetStrength() decimal.Decimal
	GetClosePrice() decimal.Decimal
	IsSignal() bool
}
