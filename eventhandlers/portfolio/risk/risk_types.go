package risk

import (
	"errors"

	"github.com/apexquant/apexbt/common"
	"github.com/shopspring/decimal"
)

var (
	// ErrHeatExceeded occurs when an order would push aggregate open
	// notional past the configured portfolio heat limit
	ErrHeatExceeded = errors.New("order would exceed maximum portfolio heat")
	// ErrDrawdownGate occurs when trading is suspended because equity has
	// fallen too far from its peak
	ErrDrawdownGate = errors.New("trading gated by drawdown limit")
)

// Handler decides whether a prospective order may proceed given current
// portfolio exposure. A returned error refuses the order, it is not fatal
// to the run
type Handler interface {
	EvaluateOrder(side common.Side, orderNotional, equity, openNotional decimal.Decimal) error
}

// Risk gates orders on total open exposure and drawdown from peak equity.
// A zero value permits everything
type Risk struct {
	// MaxPortfolioHeat caps (open notional + order notional) / equity,
	// zero disables the check
	MaxPortfolioHeat decimal.Decimal
	// MaxDrawdownPercent suspends new entries when equity sits more than
	// this fraction below its peak, zero disables the check
	MaxDrawdownPercent decimal.Decimal

	peakEquity decimal.Decimal
}
