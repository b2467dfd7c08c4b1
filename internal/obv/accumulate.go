package obv

import (
	talib "github.com/markcheno/go-talib"

	"OBVSentinel/internal/model"
)

// Accumulate returns the running sum of deltas.
func Accumulate(deltas []float64) []float64 {
	out := make([]float64, len(deltas))
	var run float64
	for i, d := range deltas {
		run += d
		out[i] = run
	}
	return out
}

// Normalize shifts the series so its global minimum becomes zero. The shift
// depends on the whole history, so values are not stable across requests of
// different length.
func Normalize(values []float64) ([]float64, float64) {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, 0
	}
	gMin := values[0]
	for _, v := range values[1:] {
		if v < gMin {
			gMin = v
		}
	}
	for i, v := range values {
		out[i] = v - gMin
	}
	return out, gMin
}

// ClassicOBV is the close-to-close OBV of the main candles, reported next to
// the synchronized series for comparison.
func ClassicOBV(mains []model.Candle) []float64 {
	if len(mains) == 0 {
		return nil
	}
	closes := make([]float64, len(mains))
	volumes := make([]float64, len(mains))
	for i, c := range mains {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}
	return talib.Obv(closes, volumes)
}
