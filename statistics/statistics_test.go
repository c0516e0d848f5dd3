package statistics

import (
	"testing"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/portfolio"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func equityEntries(values ...int64) []portfolio.EquityEntry {
	entries := make([]portfolio.EquityEntry, len(values))
	for i := range values {
		entries[i] = portfolio.EquityEntry{
			Time:   testTime.Add(time.Duration(i) * time.Hour),
			Offset: int64(i + 1),
			Equity: decimal.NewFromInt(values[i]),
		}
	}
	return entries
}

func TestCalculateResultsNoData(t *testing.T) {
	t.Parallel()
	_, err := CalculateResults("test", decimal.NewFromInt(1000), nil, nil, decimal.Zero)
	assert.ErrorIs(t, err, errReceivedNoData)
}

func TestCalculateResultsTotalReturn(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1050, 1100, 1200), nil, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "20", r.TotalReturnPercent.String())
	assert.Equal(t, "1200", r.FinalEquity.String())
	assert.Equal(t, testTime, r.StartDate)
	assert.Equal(t, testTime.Add(2*time.Hour), r.EndDate)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	t.Parallel()
	// peak 1200 then trough 900 is a 25% decline, worse than the opening dip
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(950, 1200, 1000, 900, 1100), nil, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "25", r.MaxDrawdown.DrawdownPercent.String())
	assert.Equal(t, "1200", r.MaxDrawdown.Peak.String())
	assert.Equal(t, "900", r.MaxDrawdown.Trough.String())
	assert.Equal(t, testTime.Add(time.Hour), r.MaxDrawdown.PeakTime)
	assert.Equal(t, testTime.Add(3*time.Hour), r.MaxDrawdown.TroughTime)
}

func TestCalculateMaxDrawdownMonotonicEquity(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1100, 1200, 1300), nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, r.MaxDrawdown.DrawdownPercent.IsZero())
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()
	// constant equity has zero variance so the ratio collapses to zero
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1000, 1000, 1000), nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, r.SharpeRatio.IsZero())

	r, err = CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1100, 1000, 1200, 1150), nil, decimal.Zero)
	require.NoError(t, err)
	assert.False(t, r.SharpeRatio.IsZero())
}

func TestFillTotals(t *testing.T) {
	t.Parallel()
	fills := []fill.Event{
		&fill.Fill{
			Base:       &event.Base{Symbol: "AAPL", Time: testTime},
			Side:       common.Buy,
			Quantity:   decimal.NewFromInt(10),
			Price:      decimal.NewFromInt(10),
			Commission: decimal.NewFromInt(1),
			Slippage:   decimal.NewFromFloat(0.5),
			SpreadCost: decimal.NewFromFloat(0.25),
		},
		&fill.Fill{
			Base:       &event.Base{Symbol: "AAPL", Time: testTime.Add(time.Hour)},
			Side:       common.Sell,
			Quantity:   decimal.NewFromInt(10),
			Price:      decimal.NewFromInt(11),
			Commission: decimal.NewFromInt(1),
			Liquidated: true,
		},
	}
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1000, 1010), fills, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, int64(2), r.TotalOrders)
	assert.Equal(t, int64(1), r.TotalBuyOrders)
	assert.Equal(t, int64(1), r.TotalSellOrders)
	assert.Equal(t, int64(1), r.Liquidations)
	assert.Equal(t, "2", r.TotalCommission.String())
	assert.Equal(t, "0.5", r.TotalSlippage.String())
	assert.Equal(t, "0.25", r.TotalSpreadCost.String())
}

func TestSerialise(t *testing.T) {
	t.Parallel()
	r, err := CalculateResults("test", decimal.NewFromInt(1000),
		equityEntries(1100), nil, decimal.Zero)
	require.NoError(t, err)
	out, err := r.Serialise()
	require.NoError(t, err)
	assert.Contains(t, out, `"strategy-name": "test"`)
}
