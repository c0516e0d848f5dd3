package portfolio

import (
	"testing"
	"time"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/risk"
	"github.com/apexquant/apexbt/eventhandlers/portfolio/size"
	"github.com/apexquant/apexbt/eventtypes/event"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/apexquant/apexbt/eventtypes/kline"
	"github.com/apexquant/apexbt/eventtypes/signal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestSettings() Settings {
	return Settings{InitialCash: decimal.NewFromInt(1000)}
}

func newTestPortfolio(t *testing.T, settings Settings) *Portfolio {
	t.Helper()
	p, err := Setup(settings,
		&size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)},
		&risk.Risk{})
	require.NoError(t, err)
	return p
}

func testBar(symbol string, offset int64, closePrice float64, volume int64) *kline.Kline {
	c := decimal.NewFromFloat(closePrice)
	return &kline.Kline{
		Base: &event.Base{
			Offset:   offset,
			Symbol:   symbol,
			Time:     testTime.Add(time.Duration(offset) * time.Hour),
			Interval: common.OneHour,
		},
		Open:   c,
		High:   c,
		Low:    c,
		Close:  c,
		Volume: volume,
	}
}

func testSignal(symbol string, offset int64, direction common.Direction, closePrice float64) *signal.Signal {
	return &signal.Signal{
		Base: &event.Base{
			Offset:   offset,
			Symbol:   symbol,
			Time:     testTime.Add(time.Duration(offset) * time.Hour),
			Interval: common.OneHour,
		},
		Direction:  direction,
		Strength:   decimal.NewFromInt(1),
		ClosePrice: decimal.NewFromFloat(closePrice),
	}
}

func testFill(symbol string, offset int64, side common.Side, qty, price, commission float64) *fill.Fill {
	return &fill.Fill{
		Base: &event.Base{
			Offset:   offset,
			Symbol:   symbol,
			Time:     testTime.Add(time.Duration(offset) * time.Hour),
			Interval: common.OneHour,
		},
		Side:       side,
		Quantity:   decimal.NewFromFloat(qty),
		Price:      decimal.NewFromFloat(price),
		Commission: decimal.NewFromFloat(commission),
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()
	sizer := &size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)}

	_, err := Setup(newTestSettings(), nil, &risk.Risk{})
	assert.ErrorIs(t, err, errSizeManagerUnset)

	_, err = Setup(newTestSettings(), sizer, nil)
	assert.ErrorIs(t, err, errRiskManagerUnset)

	_, err = Setup(Settings{}, sizer, &risk.Risk{})
	assert.ErrorIs(t, err, errInitialCashUnset)

	_, err = Setup(Settings{
		InitialCash:       decimal.NewFromInt(1000),
		MarginRequirement: decimal.NewFromInt(1),
	}, sizer, &risk.Risk{})
	assert.ErrorIs(t, err, errInvalidMarginReq)

	_, err = Setup(Settings{
		InitialCash:    decimal.NewFromInt(1000),
		ShortAllowance: decimal.NewFromInt(-1),
	}, sizer, &risk.Risk{})
	assert.ErrorIs(t, err, errNegativeAllowance)

	p, err := Setup(newTestSettings(), sizer, &risk.Risk{})
	require.NoError(t, err)
	assert.Equal(t, "1000", p.Cash().String())
	assert.Equal(t, "1000", p.Equity().String())
}

func TestRoundTripRealizedPnL(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, Settings{InitialCash: decimal.NewFromInt(10000)})

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 100, 50, 0)))
	require.NoError(t, p.OnFill(testFill("AAPL", 2, common.Sell, 100, 52, 0)))

	assert.Equal(t, "200", p.RealizedPnL().String())
	assert.Equal(t, "10200", p.Cash().String())
	assert.Equal(t, "10200", p.Equity().String())
	_, qty := p.PositionQuantity("AAPL")
	assert.True(t, qty.IsZero())
}

func TestFIFOPartialCloses(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 10, 10, 1)))
	require.NoError(t, p.OnFill(testFill("AAPL", 2, common.Buy, 10, 12, 1)))

	side, qty := p.PositionQuantity("AAPL")
	assert.Equal(t, common.Buy, side)
	assert.Equal(t, "20", qty.String())

	// closes all of the first lot and half of the second. The first lot
	// realizes (14-10)*10 minus its full entry commission and its share of
	// the exit commission; the second realizes (14-12)*5 minus halves
	require.NoError(t, p.OnFill(testFill("AAPL", 3, common.Sell, 15, 14, 1.5)))

	assert.Equal(t, "47", p.RealizedPnL().String())
	_, qty = p.PositionQuantity("AAPL")
	assert.Equal(t, "5", qty.String())
	assert.Equal(t, "12", p.positions["AAPL"].AverageEntryPrice().String())
	assert.Equal(t, "986.5", p.Cash().String())
}

func TestShortRoundTrip(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Sell, 10, 100, 0)))
	assert.Equal(t, "2000", p.Cash().String())

	require.NoError(t, p.OnFill(testFill("AAPL", 2, common.Buy, 10, 90, 0)))
	assert.Equal(t, "100", p.RealizedPnL().String())
	assert.Equal(t, "1100", p.Cash().String())
}

func TestOverCloseRejected(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 10, 10, 0)))
	cashBefore := p.Cash()
	realizedBefore := p.RealizedPnL()

	err := p.OnFill(testFill("AAPL", 2, common.Sell, 11, 12, 0))
	assert.ErrorIs(t, err, ErrOverClose)

	// rejection leaves every piece of state untouched
	assert.True(t, p.Cash().Equal(cashBefore))
	assert.True(t, p.RealizedPnL().Equal(realizedBefore))
	_, qty := p.PositionQuantity("AAPL")
	assert.Equal(t, "10", qty.String())
	assert.Len(t, p.FillLog(), 1)
}

func TestOnFillValidation(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	err := p.OnFill(nil)
	assert.ErrorIs(t, err, common.ErrNilEvent)

	f := testFill("AAPL", 1, common.Buy, 10, 10, 0)
	f.Side = "MALFORMED"
	err = p.OnFill(f)
	assert.ErrorIs(t, err, common.ErrInvalidSide)

	err = p.OnFill(testFill("AAPL", 1, common.Buy, 0, 10, 0))
	assert.Error(t, err)
}

func TestOnSignalOpensLong(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	o, err := p.OnSignal(testSignal("AAPL", 1, common.Long, 10), testBar("AAPL", 1, 10, 500))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, common.Buy, o.GetSide())
	assert.Equal(t, common.Market, o.GetOrderType())
	assert.Equal(t, "50", o.GetQuantity().String())
	assert.Equal(t, "AAPL", o.GetSymbol())
	assert.Equal(t, int64(1), o.GetOffset())
}

func TestOnSignalRefusals(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	// zero volume bar cannot trigger an order
	o, err := p.OnSignal(testSignal("AAPL", 1, common.Long, 10), testBar("AAPL", 1, 10, 0))
	require.NoError(t, err)
	assert.Nil(t, o)

	// exit with nothing held
	o, err = p.OnSignal(testSignal("AAPL", 1, common.Exit, 10), testBar("AAPL", 1, 10, 100))
	require.NoError(t, err)
	assert.Nil(t, o)

	// shorting is forbidden without margin or allowance
	o, err = p.OnSignal(testSignal("AAPL", 1, common.Short, 10), testBar("AAPL", 1, 10, 100))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestOnSignalInsufficientCash(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	// an open winning position grows equity past cash so a full-equity
	// sizer produces an order cash cannot fund
	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 50, 10, 0)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 1, 40, 100)))
	p.sizeManager = &size.FixedFractional{Fraction: decimal.NewFromInt(1)}

	o, err := p.OnSignal(testSignal("MSFT", 2, common.Long, 40), testBar("MSFT", 2, 40, 100))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestOnSignalShortWithinAllowance(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, Settings{
		InitialCash:    decimal.NewFromInt(1000),
		ShortAllowance: decimal.NewFromInt(600),
	})

	o, err := p.OnSignal(testSignal("AAPL", 1, common.Short, 10), testBar("AAPL", 1, 10, 100))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, common.Sell, o.GetSide())
	assert.Equal(t, "50", o.GetQuantity().String())
}

func TestOnSignalOppositeClosesPosition(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 10, 10, 0)))

	o, err := p.OnSignal(testSignal("AAPL", 2, common.Short, 11), testBar("AAPL", 2, 11, 100))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, common.Sell, o.GetSide())
	assert.Equal(t, "10", o.GetQuantity().String())

	o, err = p.OnSignal(testSignal("AAPL", 2, common.Exit, 11), testBar("AAPL", 2, 11, 100))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, common.Sell, o.GetSide())
	assert.Equal(t, "10", o.GetQuantity().String())
}

func TestOnSignalRiskRefusal(t *testing.T) {
	t.Parallel()
	p, err := Setup(newTestSettings(),
		&size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)},
		&risk.Risk{MaxPortfolioHeat: decimal.NewFromFloat(0.1)})
	require.NoError(t, err)

	o, err := p.OnSignal(testSignal("AAPL", 1, common.Long, 10), testBar("AAPL", 1, 10, 100))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestUpdateHoldingsEquityLog(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 10, 10, 0)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 1, 11, 100)))

	entries := p.EquityLog()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].Offset)
	assert.Equal(t, "900", entries[0].Cash.String())
	assert.Equal(t, "110", entries[0].PositionValue.String())
	assert.Equal(t, "1010", entries[0].Equity.String())
	assert.Equal(t, "1010", p.Equity().String())
}

func TestUpdateHoldingsShortMarkedNegative(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Sell, 10, 100, 0)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 1, 90, 100)))

	entries := p.EquityLog()
	require.Len(t, entries, 1)
	assert.Equal(t, "2000", entries[0].Cash.String())
	assert.Equal(t, "-900", entries[0].PositionValue.String())
	assert.Equal(t, "1100", entries[0].Equity.String())
}

func TestMarginBreachForcesLiquidation(t *testing.T) {
	t.Parallel()
	p, err := Setup(Settings{
		InitialCash:       decimal.NewFromInt(1000),
		MarginRequirement: decimal.NewFromFloat(0.5),
	}, &size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)}, &risk.Risk{})
	require.NoError(t, err)

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Sell, 10, 100, 0)))
	assert.Equal(t, "2000", p.Cash().String())

	// marking to 150 leaves equity 500 against required 750
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 2, 150, 100)))

	assert.Equal(t, int64(1), p.LiquidationCount())
	_, qty := p.PositionQuantity("AAPL")
	assert.True(t, qty.IsZero())
	assert.Equal(t, "-500", p.RealizedPnL().String())
	assert.Equal(t, "500", p.Cash().String())

	fills := p.FillLog()
	require.Len(t, fills, 2)
	last := fills[1]
	assert.True(t, last.IsLiquidated())
	assert.Equal(t, common.Buy, last.GetSide())
	assert.Equal(t, "150", last.GetPrice().String())
	assert.True(t, last.GetCommission().IsZero())
	assert.True(t, last.GetSlippage().IsZero())
	assert.True(t, last.GetSpreadCost().IsZero())

	// the bar's equity entry reflects the flattened book
	entries := p.EquityLog()
	require.Len(t, entries, 1)
	assert.Equal(t, "500", entries[0].Equity.String())
}

func TestLiquidationCommission(t *testing.T) {
	t.Parallel()
	p, err := Setup(Settings{
		InitialCash:           decimal.NewFromInt(1000),
		MarginRequirement:     decimal.NewFromFloat(0.5),
		LiquidationCommission: true,
		CommissionPerTrade:    decimal.NewFromInt(5),
	}, &size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)}, &risk.Risk{})
	require.NoError(t, err)

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Sell, 10, 100, 0)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 2, 150, 100)))

	fills := p.FillLog()
	require.Len(t, fills, 2)
	assert.Equal(t, "5", fills[1].GetCommission().String())
	assert.Equal(t, "-505", p.RealizedPnL().String())
}

func TestMarginHealthyNoLiquidation(t *testing.T) {
	t.Parallel()
	p, err := Setup(Settings{
		InitialCash:       decimal.NewFromInt(1000),
		MarginRequirement: decimal.NewFromFloat(0.5),
	}, &size.FixedFractional{Fraction: decimal.NewFromFloat(0.5)}, &risk.Risk{})
	require.NoError(t, err)

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Sell, 10, 100, 0)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 2, 110, 100)))

	assert.Equal(t, int64(0), p.LiquidationCount())
	_, qty := p.PositionQuantity("AAPL")
	assert.Equal(t, "10", qty.String())
}

func TestReset(t *testing.T) {
	t.Parallel()
	p := newTestPortfolio(t, newTestSettings())

	require.NoError(t, p.OnFill(testFill("AAPL", 1, common.Buy, 10, 10, 1)))
	require.NoError(t, p.UpdateHoldings(testBar("AAPL", 1, 11, 100)))
	p.Reset()

	assert.Equal(t, "1000", p.Cash().String())
	assert.True(t, p.RealizedPnL().IsZero())
	assert.Empty(t, p.EquityLog())
	assert.Empty(t, p.FillLog())
	_, qty := p.PositionQuantity("AAPL")
	assert.True(t, qty.IsZero())
}
