package risk

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

// EvaluateOrder assesses a prospective order against the heat and drawdown
// limits. The peak equity watermark advances as equity grows
func (r *Risk) EvaluateOrder(_ common.Side, orderNotional, equity, openNotional decimal.Decimal) error {
	if equity.GreaterThan(r.peakEquity) {
		r.peakEquity = equity
	}
	if r.MaxDrawdownPercent.IsPositive() && r.peakEquity.IsPositive() {
		drawdown := r.peakEquity.Sub(equity).Div(r.peakEquity)
		if drawdown.GreaterThan(r.MaxDrawdownPercent) {
			return fmt.Errorf("%w, drawdown %v exceeds %v",
				ErrDrawdownGate, drawdown, r.MaxDrawdownPercent)
		}
	}
	if r.MaxPortfolioHeat.IsPositive() && equity.IsPositive() {
		heat := openNotional.Add(orderNotional).Div(equity)
		if heat.GreaterThan(r.MaxPortfolioHeat) {
			return fmt.Errorf("%w, heat %v exceeds %v",
				ErrHeatExceeded, heat, r.MaxPortfolioHeat)
		}
	}
	return nil
}
