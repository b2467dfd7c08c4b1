package calculator

import "math"

// LRS returns the linear-regression slope of the last period closes as a
// percentage of their mean, fitting y = a + b*x over x = 1..period.
// Returns 0 when data is short, non-finite or degenerate.
func LRS(closes []float64, period int) float64 {
	if period < 2 || len(closes) < period {
		return 0
	}
	w := closes[len(closes)-period:]
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range w {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0
		}
		x := float64(i + 1)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	p := float64(period)
	denom := p*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (p*sumXY - sumX*sumY) / denom
	avg := sumY / p
	if avg == 0 {
		return 0
	}
	return slope / avg * 100
}

// AverageLRS averages LRS over count consecutive windows, the newest ending
// offset bars before the end of closes. With absolute set each window's LRS
// is taken in magnitude before averaging. Returns 0 when no window fits.
func AverageLRS(closes []float64, period, offset, count int, absolute bool) float64 {
	end := len(closes) - offset
	if period < 2 || count <= 0 || end < period {
		return 0
	}
	vals := make([]float64, 0, count)
	for t := end - 1; t >= end-count; t-- {
		start := t - period + 1
		if start < 0 {
			break
		}
		v := LRS(closes[start:t+1], period)
		if absolute {
			v = math.Abs(v)
		}
		vals = append(vals, v)
	}
	return Average(vals)
}
