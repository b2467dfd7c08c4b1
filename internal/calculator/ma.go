package calculator

import (
	"math"

	"OBVSentinel/internal/model"
)

// Average returns the mean of the finite values, 0 when there are none.
func Average(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MA computes the simple moving average of the last period values.
// Returns 0 if data is insufficient.
func MA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	return Average(values[len(values)-period:])
}

// VolumeRatio returns current/ma, 0 when the average is unusable.
func VolumeRatio(current, ma float64) float64 {
	if ma == 0 || math.IsNaN(ma) {
		return 0
	}
	return current / ma
}

// MaxClose returns the highest close of the last period candles, 0 when short.
func MaxClose(candles []model.Candle, period int) float64 {
	if period <= 0 || len(candles) < period {
		return 0
	}
	out := math.Inf(-1)
	for _, c := range candles[len(candles)-period:] {
		out = math.Max(out, c.Close)
	}
	return out
}

// MinClose returns the lowest close of the last period candles, 0 when short.
func MinClose(candles []model.Candle, period int) float64 {
	if period <= 0 || len(candles) < period {
		return 0
	}
	out := math.Inf(1)
	for _, c := range candles[len(candles)-period:] {
		out = math.Min(out, c.Close)
	}
	return out
}

func extractCloses(bars []model.Candle) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
