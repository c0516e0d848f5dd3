// Package statistics turns a completed run's equity and fill logs into
// summary performance figures. Everything here is analytics over finished
// state, nothing feeds back into accounting
package statistics

import (
	"encoding/json"
	"math"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/portfolio"
	"github.com/apexquant/apexbt/eventtypes/fill"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CalculateResults computes a full report from a run's equity and fill logs.
// The equity log must hold at least one entry
func CalculateResults(strategyName string, initialCash decimal.Decimal, entries []portfolio.EquityEntry, fills []fill.Event, riskFreeRate decimal.Decimal) (*Report, error) {
	if len(entries) == 0 {
		return nil, errReceivedNoData
	}
	r := &Report{
		StrategyName:  strategyName,
		StartDate:     entries[0].Time,
		EndDate:       entries[len(entries)-1].Time,
		InitialEquity: initialCash,
		FinalEquity:   entries[len(entries)-1].Equity,
		RiskFreeRate:  riskFreeRate,
	}
	if initialCash.IsPositive() {
		r.TotalReturnPercent = r.FinalEquity.Sub(initialCash).Div(initialCash).Mul(oneHundred)
	}
	r.MaxDrawdown = calculateMaxDrawdown(initialCash, entries)
	r.SharpeRatio = calculateSharpeRatio(initialCash, entries, riskFreeRate)

	for i := range fills {
		r.TotalOrders++
		switch fills[i].GetSide() {
		case common.Buy:
			r.TotalBuyOrders++
		case common.Sell:
			r.TotalSellOrders++
		}
		if fills[i].IsLiquidated() {
			r.Liquidations++
		}
		r.TotalCommission = r.TotalCommission.Add(fills[i].GetCommission())
		r.TotalSlippage = r.TotalSlippage.Add(fills[i].GetSlippage())
		r.TotalSpreadCost = r.TotalSpreadCost.Add(fills[i].GetSpreadCost())
	}
	return r, nil
}

// calculateMaxDrawdown finds the largest peak-to-trough decline across the
// equity log, starting from the initial cash as the first peak
func calculateMaxDrawdown(initialCash decimal.Decimal, entries []portfolio.EquityEntry) Swing {
	peak := initialCash
	peakTime := entries[0].Time
	var worst Swing
	for i := range entries {
		if entries[i].Equity.GreaterThan(peak) {
			peak = entries[i].Equity
			peakTime = entries[i].Time
			continue
		}
		if !peak.IsPositive() {
			continue
		}
		drawdown := peak.Sub(entries[i].Equity).Div(peak).Mul(oneHundred)
		if drawdown.GreaterThan(worst.DrawdownPercent) {
			worst = Swing{
				PeakTime:        peakTime,
				Peak:            peak,
				TroughTime:      entries[i].Time,
				Trough:          entries[i].Equity,
				DrawdownPercent: drawdown,
			}
		}
	}
	return worst
}

// calculateSharpeRatio returns (mean bar return - risk free rate) over the
// standard deviation of bar returns. Returns are float based, ratios are
// reporting figures rather than money
func calculateSharpeRatio(initialCash decimal.Decimal, entries []portfolio.EquityEntry, riskFreeRate decimal.Decimal) decimal.Decimal {
	returns := make([]float64, 0, len(entries))
	prev := initialCash
	for i := range entries {
		if prev.IsPositive() {
			returns = append(returns, entries[i].Equity.Sub(prev).Div(prev).InexactFloat64())
		}
		prev = entries[i].Equity
	}
	if len(returns) < 2 {
		return decimal.Zero
	}
	var sum float64
	for _, ret := range returns {
		sum += ret
	}
	mean := sum / float64(len(returns))
	var variance float64
	for _, ret := range returns {
		variance += (ret - mean) * (ret - mean)
	}
	stddev := math.Sqrt(variance / float64(len(returns)-1))
	if stddev == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat((mean - riskFreeRate.InexactFloat64()) / stddev)
}

// Serialise returns the report rendered as indented JSON
func (r *Report) Serialise() (string, error) {
	resp, err := json.MarshalIndent(r, "", " ")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}
