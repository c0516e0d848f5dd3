package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errReceivedNoData = errors.New("received no data")
)

// Swing describes the largest peak-to-trough equity decline of a run
type Swing struct {
	PeakTime        time.Time       `json:"peak-time"`
	Peak            decimal.Decimal `json:"peak"`
	TroughTime      time.Time       `json:"trough-time"`
	Trough          decimal.Decimal `json:"trough"`
	DrawdownPercent decimal.Decimal `json:"drawdown-percent"`
}

// Report holds all statistical information for one run, calculated from the
// equity and fill logs after the run completes
type Report struct {
	StrategyName       string          `json:"strategy-name"`
	StartDate          time.Time       `json:"start-date"`
	EndDate            time.Time       `json:"end-date"`
	InitialEquity      decimal.Decimal `json:"initial-equity"`
	FinalEquity        decimal.Decimal `json:"final-equity"`
	TotalReturnPercent decimal.Decimal `json:"total-return-percent"`
	MaxDrawdown        Swing           `json:"max-drawdown"`
	SharpeRatio        decimal.Decimal `json:"sharpe-ratio"`
	RiskFreeRate       decimal.Decimal `json:"risk-free-rate"`
	TotalBuyOrders     int64           `json:"total-buy-orders"`
	TotalSellOrders    int64           `json:"total-sell-orders"`
	TotalOrders        int64           `json:"total-orders"`
	Liquidations       int64           `json:"liquidations"`
	TotalCommission    decimal.Decimal `json:"total-commission"`
	TotalSlippage      decimal.Decimal `json:"total-slippage"`
	TotalSpreadCost    decimal.Decimal `json:"total-spread-cost"`
}
