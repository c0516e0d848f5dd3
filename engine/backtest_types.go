package engine

import (
	"errors"

	"github.com/apexquant/apexbt/config"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventhandlers/exchange"
	"github.com/apexquant/apexbt/eventhandlers/portfolio"
	"github.com/apexquant/apexbt/eventhandlers/strategies"
	"github.com/apexquant/apexbt/eventholder"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	errNilConfig      = errors.New("nil config received")
	errMissingHandler = errors.New("backtest is missing a required handler")
	errAlreadyRun     = errors.New("backtest has already been run")
	errNotYetRun      = errors.New("backtest has not been run")
	errNoSweepConfigs = errors.New("no configs provided to sweep")
	errUnhandledEvent = errors.New("event type has no owner in the dispatch loop")
)

// BackTest is one fully isolated simulation run. Nothing in here is shared
// with any other run, concurrent sweeps rely on that
type BackTest struct {
	RunID    string
	Nickname string

	EventQueue eventholder.EventHolder
	Data       data.Handler
	Strategy   strategies.Handler
	Exchange   exchange.ExecutionHandler
	Portfolio  portfolio.Handler

	initialCash     decimal.Decimal
	journalSettings config.JournalSettings
	statsSettings   config.StatisticsSettings

	currentBar kline.Event
	hasRun     bool
	log        zerolog.Logger
}
