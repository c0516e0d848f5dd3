// Package smacross implements a simple moving average crossover strategy.
// A fast average crossing above the slow average opens a long position and
// a cross back below exits it
package smacross

import (
	"fmt"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventhandlers/strategies/base"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
)

const (
	// Name is the strategy name
	Name          = "smacross"
	fastPeriodKey = "fast-period"
	slowPeriodKey = "slow-period"
	description   = `A moving average crossover compares a short lookback average against a longer one. The strategy goes long when the fast average crosses above the slow average and exits when it crosses back below`
)

// Strategy is an implementation of the strategies Handler interface
type Strategy struct {
	base.Strategy
	fastPeriod decimal.Decimal
	slowPeriod decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnData handles a bar and returns a directional signal on a crossover,
// nil when the averages have not crossed or the lookback is not yet filled
func (s *Strategy) OnData(d data.Handler) (signal.Event, error) {
	if d == nil {
		return nil, common.ErrNilArguments
	}
	es, err := s.NewSignal(d)
	if err != nil {
		return nil, err
	}

	history := d.History()
	// one extra bar so the previous value of each average exists
	if int64(len(history)) <= s.slowPeriod.IntPart() {
		return nil, nil
	}

	closes := base.Closes(history)
	fast := indicators.SMA(closes, int(s.fastPeriod.IntPart()))
	slow := indicators.SMA(closes, int(s.slowPeriod.IntPart()))
	if len(fast) < 2 || len(slow) < 2 {
		return nil, nil
	}
	fastNow := decimal.NewFromFloat(fast[len(fast)-1])
	fastPrev := decimal.NewFromFloat(fast[len(fast)-2])
	slowNow := decimal.NewFromFloat(slow[len(slow)-1])
	slowPrev := decimal.NewFromFloat(slow[len(slow)-2])

	switch {
	case fastPrev.LessThanOrEqual(slowPrev) && fastNow.GreaterThan(slowNow):
		es.Direction = common.Long
		es.AppendReasonf("fast average %v crossed above slow average %v", fastNow, slowNow)
	case fastPrev.GreaterThanOrEqual(slowPrev) && fastNow.LessThan(slowNow):
		es.Direction = common.Exit
		es.AppendReasonf("fast average %v crossed below slow average %v", fastNow, slowNow)
	default:
		return nil, nil
	}
	return &es, nil
}

// SetCustomSettings allows a user to modify the average periods in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case fastPeriodKey:
			fastPeriod, ok := v.(float64)
			if !ok || fastPeriod <= 0 {
				return fmt.Errorf("%w provided fast-period value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.fastPeriod = decimal.NewFromFloat(fastPeriod)
		case slowPeriodKey:
			slowPeriod, ok := v.(float64)
			if !ok || slowPeriod <= 0 {
				return fmt.Errorf("%w provided slow-period value could not be parsed: %v", base.ErrInvalidCustomSettings, v)
			}
			s.slowPeriod = decimal.NewFromFloat(slowPeriod)
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.fastPeriod.GreaterThanOrEqual(s.slowPeriod) {
		return fmt.Errorf("%w fast-period %v must be below slow-period %v", base.ErrInvalidCustomSettings, s.fastPeriod, s.slowPeriod)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.fastPeriod = decimal.NewFromInt(10)
	s.slowPeriod = decimal.NewFromInt(30)
}
