package size

import (
	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// SizeOrder returns quantity = equity * fraction * strength / close,
// truncated to the configured precision. A zero quantity is a valid result
// and leads to the order being refused by the portfolio
func (f *FixedFractional) SizeOrder(s signal.Event, bar kline.Event, equity, _ decimal.Decimal) (decimal.Decimal, error) {
	if s == nil || bar == nil {
		return decimal.Zero, common.ErrNilArguments
	}
	if f.Fraction.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errBadSizerConfig
	}
	if equity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrNoEquity
	}
	closePrice := bar.GetClosePrice()
	if closePrice.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	qty := equity.Mul(f.Fraction).Mul(s.GetStrength()).Div(closePrice)
	return qty.Truncate(f.QuantityDecimalPlaces), nil
}

// SizeOrder returns quantity = equity * risk fraction / (close * stop
// distance percent), truncated to the configured precision
func (r *RiskPerTrade) SizeOrder(s signal.Event, bar kline.Event, equity, _ decimal.Decimal) (decimal.Decimal, error) {
	if s == nil || bar == nil {
		return decimal.Zero, common.ErrNilArguments
	}
	if r.RiskFraction.LessThanOrEqual(decimal.Zero) || r.StopDistancePercent.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errBadSizerConfig
	}
	if equity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrNoEquity
	}
	stopDistance := bar.GetClosePrice().Mul(r.StopDistancePercent)
	if stopDistance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	qty := equity.Mul(r.RiskFraction).Div(stopDistance)
	return qty.Truncate(r.QuantityDecimalPlaces), nil
}
