package strategies

import (
	"errors"

	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventtypes/signal"
)

// ErrStrategyNotFound occurs when the requested strategy name matches no
// registered strategy
var ErrStrategyNotFound = errors.New("strategy not found")

// Handler defines what a strategy must implement to be driven by the engine.
// OnData is called once per consumed bar and may return a nil signal when the
// strategy has no opinion
type Handler interface {
	Name() string
	Description() string
	OnData(data.Handler) (signal.Event, error)
	SetCustomSettings(map[string]any) error
	SetDefaults()
}
