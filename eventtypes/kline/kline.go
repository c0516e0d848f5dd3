package kline

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GetOpenPrice returns the opening price of a kline
func (k *Kline) GetOpenPrice() decimal.Decimal {
	return k.Open
}

// GetHighPrice returns the high price of a kline
func (k *Kline) GetHighPrice() decimal.Decimal {
	return k.High
}

// GetLowPrice returns the low price of a kline
func (k *Kline) GetLowPrice() decimal.Decimal {
	return k.Low
}

// GetClosePrice returns the closing price of a kline
func (k *Kline) GetClosePrice() decimal.Decimal {
	return k.Close
}

// GetVolume returns the volume of a kline
func (k *Kline) GetVolume() int64 {
	return k.Volume
}

// IsKline is a function to help distinguish a kline event from the
// signal, order and fill events which share the same base
func (k *Kline) IsKline() bool {
	return true
}

// Validate ensures the bar is internally consistent before it is allowed
// to drive the engine
func (k *Kline) Validate() error {
	if k.Volume < 0 {
		return fmt.Errorf("%w, received %v", ErrNegativeVolume, k.Volume)
	}
	if k.Open.LessThanOrEqual(decimal.Zero) ||
		k.High.LessThanOrEqual(decimal.Zero) ||
		k.Low.LessThanOrEqual(decimal.Zero) ||
		k.Close.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositivePrice
	}
	if k.High.LessThan(k.Open) ||
		k.High.LessThan(k.Close) ||
		k.High.LessThan(k.Low) ||
		k.Low.GreaterThan(k.Open) ||
		k.Low.GreaterThan(k.Close) {
		return fmt.Errorf("%w at %v for %v", ErrInvalidBarRange, k.Time, k.Symbol)
	}
	return nil
}
