// Package engine owns the dispatch loop. One bar enters the queue, the
// resulting event cascade drains in strict FIFO order, the portfolio marks
// to market, then the next bar is pulled. There is exactly one loop and one
// goroutine per run
package engine

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/order"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/apexquant/apexbt/journal"
	"github.com/apexquant/apexbt/statistics"
)

// Run executes the backtest to data exhaustion. Any error is fatal to the
// run, the loop never continues past corrupted state
func (bt *BackTest) Run() error {
	if err := bt.validate(); err != nil {
		return err
	}
	if bt.hasRun {
		return errAlreadyRun
	}
	bt.hasRun = true
	bt.log.Info().Str("run", bt.RunID).Str("strategy", bt.Strategy.Name()).Msg("run starting")

	for ev := bt.EventQueue.NextEvent(); ; ev = bt.EventQueue.NextEvent() {
		if ev == nil {
			// the cascade for the current bar has fully drained, mark to
			// market before the next bar becomes visible
			if bt.currentBar != nil {
				if err := bt.Portfolio.UpdateHoldings(bt.currentBar); err != nil {
					return err
				}
				bt.currentBar = nil
			}
			bar, ok := bt.Data.Next()
			if !ok {
				break
			}
			if err := bt.EventQueue.AppendEvent(bar); err != nil {
				return err
			}
			continue
		}
		if err := bt.handleEvent(ev); err != nil {
			return err
		}
	}

	bt.log.Info().Str("run", bt.RunID).
		Str("equity", bt.Portfolio.Equity().String()).
		Msg("run complete")
	return nil
}

// handleEvent routes an event to its single owner
func (bt *BackTest) handleEvent(ev common.Event) error {
	switch ev := ev.(type) {
	case kline.Event:
		return bt.processBar(ev)
	case signal.Event:
		o, err := bt.Portfolio.OnSignal(ev, bt.currentBar)
		if err != nil {
			return err
		}
		if o != nil {
			return bt.EventQueue.AppendEvent(o)
		}
		return nil
	case order.Event:
		return bt.Exchange.OnOrder(ev)
	case fill.Event:
		return bt.Portfolio.OnFill(ev)
	default:
		return fmt.Errorf("%w: %T", errUnhandledEvent, ev)
	}
}

// processBar matches pending orders against the new bar first, so an order
// raised on the previous bar fills at this bar's prices, then asks the
// strategy for its opinion
func (bt *BackTest) processBar(bar kline.Event) error {
	bt.currentBar = bar
	fills, err := bt.Exchange.OnData(bar)
	if err != nil {
		return err
	}
	for i := range fills {
		if err = bt.EventQueue.AppendEvent(fills[i]); err != nil {
			return err
		}
	}
	sig, err := bt.Strategy.OnData(bt.Data)
	if err != nil {
		return err
	}
	if sig != nil {
		return bt.EventQueue.AppendEvent(sig)
	}
	return nil
}

// GenerateReport calculates the run's statistics and, when configured,
// persists the run's round-trip trades to the journal
func (bt *BackTest) GenerateReport() (*statistics.Report, error) {
	if !bt.hasRun {
		return nil, errNotYetRun
	}
	report, err := statistics.CalculateResults(
		bt.Strategy.Name(),
		bt.initialCash,
		bt.Portfolio.EquityLog(),
		bt.Portfolio.FillLog(),
		bt.statsSettings.RiskFreeRate,
	)
	if err != nil {
		return nil, err
	}
	if bt.journalSettings.Enabled {
		if err = bt.persistJournal(); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (bt *BackTest) persistJournal() error {
	store, err := journal.Open(bt.journalSettings.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	trades := journal.BuildTrades(bt.RunID, bt.Portfolio.FillLog())
	return store.InsertTrades(trades)
}

// Reset returns every component to its initial state so the run can be
// repeated
func (bt *BackTest) Reset() {
	bt.EventQueue.Reset()
	bt.Data.Reset()
	bt.Exchange.Reset()
	bt.Portfolio.Reset()
	bt.Strategy.SetDefaults()
	bt.currentBar = nil
	bt.hasRun = false
}

func (bt *BackTest) validate() error {
	if bt.EventQueue == nil || bt.Data == nil || bt.Strategy == nil ||
		bt.Exchange == nil || bt.Portfolio == nil {
		return errMissingHandler
	}
	return nil
}
