package calculator

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"OBVSentinel/internal/model"
)

// HighLow scans the most recent period candles and returns the high and low.
// ok is false when there are not enough candles.
func HighLow(candles []model.Candle, period int) (high, low float64, ok bool) {
	if period <= 0 || len(candles) < period {
		return 0, 0, false
	}
	n := len(candles)
	if period == 1 {
		return candles[n-1].High, candles[n-1].Low, true
	}
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}
	maxSeries := talib.Max(highs, period)
	minSeries := talib.Min(lows, period)
	return maxSeries[n-1], minSeries[n-1], true
}

// VolatilityRatio is max(high)/min(low) over the last period candles.
// Returns 1 ("no compression") when fewer than period candles are given or
// the low is 0. Exactly period candles form a complete window.
func VolatilityRatio(candles []model.Candle, period int) float64 {
	high, low, ok := HighLow(candles, period)
	if !ok || low == 0 || math.IsNaN(low) {
		return 1
	}
	return high / low
}

// RangePosition returns where current sits within [low, high]; 0 for a flat range.
func RangePosition(current, high, low float64) float64 {
	if high == low {
		return 0
	}
	return (current - low) / (high - low)
}
