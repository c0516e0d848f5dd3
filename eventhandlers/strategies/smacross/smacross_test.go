package smacross

import (
	"testing"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/data"
	"github.com/apexquant/apexbt/eventhandlers/strategies/base"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barStream(t *testing.T, closes ...float64) data.Handler {
	t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stream := make([]kline.Event, len(closes))
	for i := range closes {
		c := decimal.NewFromFloat(closes[i])
		stream[i] = &kline.Kline{
			Base: &event.Base{
				Symbol:   "AAPL",
				Time:     start.Add(time.Duration(i) * time.Hour),
				Interval: common.OneHour,
			},
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		}
	}
	h, err := data.NewHandler(stream)
	require.NoError(t, err)
	return h
}

func testStrategy(t *testing.T) *Strategy {
	t.Helper()
	s := &Strategy{}
	s.SetDefaults()
	err := s.SetCustomSettings(map[string]any{
		"fast-period": 2.0,
		"slow-period": 3.0,
	})
	require.NoError(t, err)
	return s
}

func TestName(t *testing.T) {
	t.Parallel()
	s := &Strategy{}
	assert.Equal(t, Name, s.Name())
	assert.NotEmpty(t, s.Description())
}

func TestOnDataNilHandler(t *testing.T) {
	t.Parallel()
	s := testStrategy(t)
	_, err := s.OnData(nil)
	assert.ErrorIs(t, err, common.ErrNilArguments)
}

func TestOnDataCrossUp(t *testing.T) {
	t.Parallel()
	s := testStrategy(t)
	// a downtrend keeps the fast average below the slow one, the jump to 14
	// pulls it across
	d := barStream(t, 10, 9, 8, 7, 14)

	var got []string
	for {
		if _, ok := d.Next(); !ok {
			break
		}
		sig, err := s.OnData(d)
		require.NoError(t, err)
		if sig != nil {
			got = append(got, string(sig.GetDirection()))
		}
	}
	require.Len(t, got, 1)
	assert.Equal(t, string(common.Long), got[0])
}

func TestOnDataCrossDown(t *testing.T) {
	t.Parallel()
	s := testStrategy(t)
	d := barStream(t, 10, 9, 8, 7, 14, 6, 5)

	var directions []common.Direction
	for {
		if _, ok := d.Next(); !ok {
			break
		}
		sig, err := s.OnData(d)
		require.NoError(t, err)
		if sig != nil {
			directions = append(directions, sig.GetDirection())
		}
	}
	require.Len(t, directions, 2)
	assert.Equal(t, common.Long, directions[0])
	assert.Equal(t, common.Exit, directions[1])
}

func TestOnDataWarmup(t *testing.T) {
	t.Parallel()
	s := testStrategy(t)
	d := barStream(t, 10, 9, 8)

	for {
		if _, ok := d.Next(); !ok {
			break
		}
		sig, err := s.OnData(d)
		require.NoError(t, err)
		// three bars never fill a slow period of three plus one
		assert.Nil(t, sig)
	}
}

func TestSetCustomSettings(t *testing.T) {
	t.Parallel()
	s := &Strategy{}
	s.SetDefaults()

	err := s.SetCustomSettings(map[string]any{"fast-period": "fast"})
	assert.ErrorIs(t, err, base.ErrInvalidCustomSettings)

	err = s.SetCustomSettings(map[string]any{"unknown-key": 1.0})
	assert.ErrorIs(t, err, base.ErrInvalidCustomSettings)

	// fast must stay below slow
	err = s.SetCustomSettings(map[string]any{"fast-period": 30.0, "slow-period": 10.0})
	assert.ErrorIs(t, err, base.ErrInvalidCustomSettings)

	err = s.SetCustomSettings(map[string]any{"fast-period": 5.0, "slow-period": 20.0})
	assert.NoError(t, err)
}
