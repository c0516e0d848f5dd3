package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errNoDataSettings       = errors.New("no data settings provided")
	errNoSymbol             = errors.New("data settings require a symbol")
	errNoCSVPath            = errors.New("csv data requires a path")
	errBadInterval          = errors.New("unrecognised candle interval")
	errNoStrategySettings   = errors.New("no strategy settings provided")
	errNoInitialCash        = errors.New("portfolio settings require positive initial cash")
	errBadSizer             = errors.New("unrecognised sizer name")
	errBadMarginRequirement = errors.New("margin requirement must be within [0, 1)")
	errNegativeFriction     = errors.New("exchange friction settings cannot be negative")
	errNoJournalPath        = errors.New("journal enabled without a database path")
)

// Config defines one full backtest run
type Config struct {
	Nickname   string             `json:"nickname"`
	Data       []DataSettings     `json:"data"`
	Strategy   StrategySettings   `json:"strategy"`
	Portfolio  PortfolioSettings  `json:"portfolio"`
	Exchange   ExchangeSettings   `json:"exchange"`
	Journal    JournalSettings    `json:"journal"`
	Statistics StatisticsSettings `json:"statistics"`
}

// DataSettings describes one symbol's bar source. Multiple entries are
// merged chronologically before the run
type DataSettings struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	CSVPath  string `json:"csv-path"`
	// SkipZeroVolume drops untradeable bars at load time rather than
	// carrying them into the run
	SkipZeroVolume bool `json:"skip-zero-volume"`
}

// StrategySettings names the strategy and its custom settings
type StrategySettings struct {
	Name           string         `json:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty"`
}

// SizeSettings selects and parameterises the position sizer
type SizeSettings struct {
	// Name is either fixed-fractional or risk-per-trade
	Name                  string          `json:"name"`
	Fraction              decimal.Decimal `json:"fraction"`
	RiskFraction          decimal.Decimal `json:"risk-fraction"`
	StopDistancePercent   decimal.Decimal `json:"stop-distance-percent"`
	QuantityDecimalPlaces int32           `json:"quantity-decimal-places"`
}

// RiskSettings parameterises the pre-trade risk gate. Zero values disable
// each check
type RiskSettings struct {
	MaxPortfolioHeat   decimal.Decimal `json:"max-portfolio-heat"`
	MaxDrawdownPercent decimal.Decimal `json:"max-drawdown-percent"`
}

// PortfolioSettings holds cash, margin and sizing parameters
type PortfolioSettings struct {
	InitialCash           decimal.Decimal `json:"initial-cash"`
	MarginRequirement     decimal.Decimal `json:"margin-requirement"`
	ShortAllowance        decimal.Decimal `json:"short-allowance"`
	LiquidationCommission bool            `json:"liquidation-commission"`
	Size                  SizeSettings    `json:"size"`
	Risk                  RiskSettings    `json:"risk"`
}

// ExchangeSettings holds the friction model parameters
type ExchangeSettings struct {
	SlippagePercent    decimal.Decimal `json:"slippage-percent"`
	SpreadPercent      decimal.Decimal `json:"spread-percent"`
	CommissionPerTrade decimal.Decimal `json:"commission-per-trade"`
	CommissionPerUnit  decimal.Decimal `json:"commission-per-unit"`
	TickDecimalPlaces  int32           `json:"tick-decimal-places"`
}

// JournalSettings controls trade persistence
type JournalSettings struct {
	Enabled      bool   `json:"enabled"`
	DatabasePath string `json:"database-path"`
}

// StatisticsSettings controls the end-of-run report
type StatisticsSettings struct {
	RiskFreeRate decimal.Decimal `json:"risk-free-rate"`
}
