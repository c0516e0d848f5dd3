package signal

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

// IsSignal returns whether the event is a signal type
func (s *Signal) IsSignal() bool {
	return true
}

// GetDirection returns the direction
func (s *Signal) GetDirection() common.Direction {
	return s.Direction
}

// GetStrength returns the conviction strength of the signal
func (s *Signal) GetStrength() decimal.Decimal {
	return s.Strength
}

// GetClosePrice returns the close price of the bar the signal came from
func (s *Signal) GetClosePrice() decimal.Decimal {
	return s.ClosePrice
}

// Validate ensures the signal's direction and strength are within bounds
func (s *Signal) Validate() error {
	switch s.Direction {
	case common.Long, common.Short, common.Exit:
	default:
		return fmt.Errorf("%w, received '%v'", ErrInvalidDirection, s.Direction)
	}
	if s.Strength.IsNegative() || s.Strength.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w, received %v", ErrInvalidStrength, s.Strength)
	}
	return nil
}
