package kline

import (
	"errors"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBarRange occurs when high/low do not bound open and close
	ErrInvalidBarRange = errors.New("bar high and low do not bound open and close")
	// ErrNegativeVolume occurs when a bar is created with volume below zero
	ErrNegativeVolume = errors.New("bar volume cannot be negative")
	// ErrNonPositivePrice occurs when a bar contains a price at or below zero
	ErrNonPositivePrice = errors.New("bar prices must be positive")
)

// Kline holds one OHLCV observation for one symbol at one timestamp.
// It is the market bar event which drives all downstream processing
type Kline struct {
	*event.Base
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Event is a market bar data event
type Event interface {
	common.DataEvent
	IsKline() bool
}
