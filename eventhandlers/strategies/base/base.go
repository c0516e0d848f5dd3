package base

import (
	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/shopspring/decimal"
)

// NewSignal builds a signal seeded from the latest bar, full strength and
// no direction. The caller sets the direction or discards the signal
func (s *Strategy) NewSignal(d data.Handler) (signal.Signal, error) {
	if d == nil {
		return signal.Signal{}, common.ErrNilArguments
	}
	latest := d.Latest()
	if latest == nil {
		return signal.Signal{}, common.ErrNilEvent
	}
	return signal.Signal{
		Base: &event.Base{
			Offset:   latest.GetOffset(),
			Symbol:   latest.GetSymbol(),
			Time:     latest.GetTime(),
			Interval: latest.GetInterval(),
		},
		Strength:   decimal.NewFromInt(1),
		ClosePrice: latest.GetClosePrice(),
	}, nil
}

// SetCustomSettings rejects any custom setting by default
func (s *Strategy) SetCustomSettings(settings map[string]any) error {
	if len(settings) > 0 {
		return ErrCustomSettingsUnsupported
	}
	return nil
}

// Closes extracts close prices as floats for indicator calculations.
// Indicator output never feeds accounting, exactness is not required here
func Closes(bars []kline.Event) []float64 {
	resp := make([]float64, len(bars))
	for i := range bars {
		resp[i] = bars[i].GetClosePrice().InexactFloat64()
	}
	return resp
}
