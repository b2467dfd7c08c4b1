package analyzer

import (
	"math"

	"github.com/shopspring/decimal"

	"OBVSentinel/internal/calculator"
	"OBVSentinel/internal/divergence"
	"OBVSentinel/internal/model"
	"OBVSentinel/internal/obv"
	"OBVSentinel/internal/strategy"
)

// trailDepth is how many bars of divergence history the screen inspects.
const trailDepth = 3

// buildReport derives the report metrics from an analyzed series of at
// least two bars.
func buildReport(ticker string, series model.OBVSeries, o Options, det *divergence.Detector, rules strategy.Rules) model.TickerResult {
	n := len(series)
	off := o.BarOffset()
	candles := series.Candles()
	closes := series.Closes()
	vols := series.Volumes()
	last := series[n-1]

	r := model.TickerResult{
		Ticker:          ticker,
		Status:          model.StatusOK,
		Interval:        o.Interval,
		SubInterval:     o.SubInterval,
		CurrentDeltaOBV: round(last.DeltaOBV, 2),
		CurrentNetOBV:   round(last.NetOBV, 2),
		DivergenceTrend: model.NoSignal,
		Divergence:      model.NoSignal,
		LastData:        &last,
		LocalTime:       model.LocalTime(last.Timestamp, o.ExchangeOffset()),
	}

	if prevClose := series[n-2].Close; prevClose != 0 {
		r.GapValue = round(last.Open/prevClose, 4)
	}
	if classic := obv.ClassicOBV(candles); len(classic) > 0 {
		r.ClassicOBV = round(classic[len(classic)-1], 2)
	}

	if n <= o.Period+off+1 {
		return r
	}

	r.LRS = round(calculator.AverageLRS(closes, o.Period, off, o.AvgCount(), true), 4)
	r.VolSpikeRatio = round(calculator.VolumeRatio(vols[n-1], calculator.MA(vols[:n-1], o.Period)), 4)
	r.AvgVol = round(calculator.VolumeRatio(calculator.MA(vols, 3), calculator.MA(vols[:n-3], 10)), 4)
	r.VolatilityRatio = round(calculator.VolatilityRatio(candles[:n-off], o.Period), 4)
	r.MinClose = round(calculator.MinClose(candles[:n-1], o.Period), 2)

	if stats, ok := calculator.ComputeNetOBVStats(series.NetOBVs(), o.Period); ok {
		r.AvgNetOBV = round(stats.ZScore, 4)
		r.StrengthNetOBV = round(stats.Strength, 4)
	}

	trail := det.Trail(candles, series.RSIs(), o.Lookback, trailDepth)
	r.DivergenceTrend = trail[0]
	if in, ok := strategy.InputFrom(series, trail); ok {
		v := strategy.Screen(in, rules)
		r.Divergence = v.Label
		r.Checks = v.Checks
	}
	return r
}

// round rounds half away from zero; non-finite values report as 0.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
