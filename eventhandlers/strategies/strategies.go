package strategies

import (
	"fmt"
	"strings"

	"github.com/apexquant/apexbt/eventhandlers/strategies/buyandhold"
	"github.com/apexquant/apexbt/eventhandlers/strategies/smacross"
)

// LoadStrategyByName returns a fresh instance of the named strategy with
// defaults applied. Matching is case insensitive
func LoadStrategyByName(name string) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if !strings.EqualFold(name, strats[i].Name()) {
			continue
		}
		strats[i].SetDefaults()
		return strats[i], nil
	}
	return nil, fmt.Errorf("%w '%v'", ErrStrategyNotFound, name)
}

// GetStrategies returns a new instance of every registered strategy
func GetStrategies() []Handler {
	return []Handler{
		new(buyandhold.Strategy),
		new(smacross.Strategy),
	}
}
