package calculator

import (
	"math"

	"OBVSentinel/internal/model"
)

// Rolling evaluates fn on every prefix bars[:i+1] for i >= period and
// returns the per-bar values, NaN before that.
func Rolling(bars []model.Candle, period int, fn func([]model.Candle, int) float64) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		if period <= 0 || i < period {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(bars[:i+1], period)
	}
	return out
}

// RollingRSI returns the RSI of period at every bar, NaN before bar period.
func RollingRSI(bars []model.Candle, period int) []float64 { return Rolling(bars, period, RSI) }

// RollingMFI returns the MFI of period at every bar, NaN before bar period.
func RollingMFI(bars []model.Candle, period int) []float64 { return Rolling(bars, period, MFI) }

// RollingADX returns the ADX of period at every bar, NaN before bar period.
func RollingADX(bars []model.Candle, period int) []float64 { return Rolling(bars, period, ADX) }

// Decorate attaches the rolling RSI, MFI and ADX of period to a copy of series.
func Decorate(series model.OBVSeries, period int) model.OBVSeries {
	candles := series.Candles()
	rsi := RollingRSI(candles, period)
	mfi := RollingMFI(candles, period)
	adx := RollingADX(candles, period)

	out := make(model.OBVSeries, len(series))
	for i, a := range series {
		a.RSI = ptr(rsi[i])
		a.MFI = ptr(mfi[i])
		a.ADX = ptr(adx[i])
		out[i] = a
	}
	return out
}

func ptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
