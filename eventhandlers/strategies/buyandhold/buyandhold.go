// Package buyandhold implements the simplest possible strategy, one long
// entry on the first bar with a filled lookback and nothing afterwards.
// Useful as a benchmark and for exercising the event pipeline end to end
package buyandhold

import (
	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventhandlers/strategies/base"
	"github.com/apexquant/apexbt/eventtypes/signal"
)

// Name is the strategy name
const Name = "buyandhold"

// Strategy is an implementation of the strategies Handler interface
type Strategy struct {
	base.Strategy
	entered bool
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return "Buys once on the first bar and holds for the remainder of the run"
}

// OnData emits a single long signal on the first bar it sees
func (s *Strategy) OnData(d data.Handler) (signal.Event, error) {
	if d == nil {
		return nil, common.ErrNilArguments
	}
	if s.entered {
		return nil, nil
	}
	es, err := s.NewSignal(d)
	if err != nil {
		return nil, err
	}
	s.entered = true
	es.Direction = common.Long
	es.AppendReason("initial buy and hold entry")
	return &es, nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.entered = false
}
