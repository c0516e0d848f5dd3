package size

import (
	"errors"

	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoEquity occurs when sizing is requested against zero or negative
	// equity
	ErrNoEquity       = errors.New("cannot size order, no equity available")
	errBadSizerConfig = errors.New("invalid sizer configuration")
)

// Handler determines the quantity of a prospective order. It is pluggable,
// the portfolio's order generation delegates here rather than hardcoding a
// sizing formula
type Handler interface {
	SizeOrder(s signal.Event, bar kline.Event, equity, cash decimal.Decimal) (decimal.Decimal, error)
}

// FixedFractional risks a fixed fraction of equity per position, scaled by
// signal conviction strength
type FixedFractional struct {
	// Fraction of equity allocated at full conviction, e.g. 0.10
	Fraction decimal.Decimal
	// QuantityDecimalPlaces truncates the sized quantity, 0 for whole units
	QuantityDecimalPlaces int32
}

// RiskPerTrade sizes so a stop-out loses a fixed fraction of equity:
// quantity = equity * risk fraction / stop distance
type RiskPerTrade struct {
	// RiskFraction of equity lost if the stop is hit, e.g. 0.01
	RiskFraction decimal.Decimal
	// StopDistancePercent expresses the stop distance as a fraction of the
	// entry price
	StopDistancePercent   decimal.Decimal
	QuantityDecimalPlaces int32
}
