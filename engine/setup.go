package engine

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/config"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/data/csv"
	"github.com/apexquant/apexbt/data/merge"
	"github.com/apexquant/apexbt/eventhandlers/exchange"
	"github.com/apexquant/apexbt/eventhandlers/portfolio"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/risk"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/size"
	"github.com/apexquant/apexbt/eventhandlers/strategies"
	"github.com/apexquant/apexbt/eventholder"
	"github.com/apexquant/apexbt/log"
	"github.com/gofrs/uuid"
)

// NewFromConfig assembles a fully isolated BackTest from a validated config.
// Every handler is freshly constructed, two runs built from the same config
// share no mutable state
func NewFromConfig(cfg *config.Config) (*BackTest, error) {
	if cfg == nil {
		return nil, errNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	dataHandler, err := setupData(cfg)
	if err != nil {
		return nil, err
	}

	strat, err := strategies.LoadStrategyByName(cfg.Strategy.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.Strategy.CustomSettings) > 0 {
		if err = strat.SetCustomSettings(cfg.Strategy.CustomSettings); err != nil {
			return nil, err
		}
	}

	exch, err := exchange.New(exchange.Settings{
		SlippagePercent:    cfg.Exchange.SlippagePercent,
		SpreadPercent:      cfg.Exchange.SpreadPercent,
		CommissionPerTrade: cfg.Exchange.CommissionPerTrade,
		CommissionPerUnit:  cfg.Exchange.CommissionPerUnit,
		TickDecimalPlaces:  cfg.Exchange.TickDecimalPlaces,
	})
	if err != nil {
		return nil, err
	}

	port, err := portfolio.Setup(portfolio.Settings{
		InitialCash:           cfg.Portfolio.InitialCash,
		MarginRequirement:     cfg.Portfolio.MarginRequirement,
		ShortAllowance:        cfg.Portfolio.ShortAllowance,
		LiquidationCommission: cfg.Portfolio.LiquidationCommission,
		CommissionPerTrade:    cfg.Exchange.CommissionPerTrade,
		CommissionPerUnit:     cfg.Exchange.CommissionPerUnit,
	}, setupSizer(cfg), &risk.Risk{
		MaxPortfolioHeat:   cfg.Portfolio.Risk.MaxPortfolioHeat,
		MaxDrawdownPercent: cfg.Portfolio.Risk.MaxDrawdownPercent,
	})
	if err != nil {
		return nil, err
	}

	return &BackTest{
		RunID:           runID.String(),
		Nickname:        cfg.Nickname,
		EventQueue:      &eventholder.Holder{},
		Data:            dataHandler,
		Strategy:        strat,
		Exchange:        exch,
		Portfolio:       port,
		initialCash:     cfg.Portfolio.InitialCash,
		journalSettings: cfg.Journal,
		statsSettings:   cfg.Statistics,
		log:             log.New("engine"),
	}, nil
}

// setupData loads each configured symbol into its own handler, merging
// multiple symbols into one chronological stream
func setupData(cfg *config.Config) (data.Handler, error) {
	handlers := make([]data.Handler, 0, len(cfg.Data))
	for i := range cfg.Data {
		interval, err := common.ParseInterval(cfg.Data[i].Interval)
		if err != nil {
			return nil, err
		}
		stream, err := csv.LoadBars(cfg.Data[i].CSVPath, cfg.Data[i].Symbol,
			interval, cfg.Data[i].SkipZeroVolume)
		if err != nil {
			return nil, fmt.Errorf("load bars for %v: %w", cfg.Data[i].Symbol, err)
		}
		handler, err := data.NewHandler(stream)
		if err != nil {
			return nil, fmt.Errorf("load stream for %v: %w", cfg.Data[i].Symbol, err)
		}
		handlers = append(handlers, handler)
	}
	if len(handlers) == 1 {
		return handlers[0], nil
	}
	return merge.NewHandler(handlers...)
}

func setupSizer(cfg *config.Config) size.Handler {
	switch cfg.Portfolio.Size.Name {
	case config.SizerRiskPerTrade:
		return &size.RiskPerTrade{
			RiskFraction:          cfg.Portfolio.Size.RiskFraction,
			StopDistancePercent:   cfg.Portfolio.Size.StopDistancePercent,
			QuantityDecimalPlaces: cfg.Portfolio.Size.QuantityDecimalPlaces,
		}
	default:
		return &size.FixedFractional{
			Fraction:              cfg.Portfolio.Size.Fraction,
			QuantityDecimalPlaces: cfg.Portfolio.Size.QuantityDecimalPlaces,
		}
	}
}
