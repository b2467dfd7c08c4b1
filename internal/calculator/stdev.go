package calculator

import "math"

// STDEV is the sample standard deviation (n-1) of the last period values,
// matching the spreadsheet STDEV. Returns 0 with fewer than two values.
func STDEV(values []float64, period int) float64 {
	if period <= 0 {
		return 0
	}
	w := values
	if len(w) > period {
		w = w[len(w)-period:]
	}
	n := len(w)
	if n < 2 {
		return 0
	}
	avg := 0.0
	for _, v := range w {
		avg += v
	}
	avg /= float64(n)
	ss := 0.0
	for _, v := range w {
		ss += (v - avg) * (v - avg)
	}
	return math.Sqrt(ss / float64(n-1))
}

// PopulationStdev divides by n; used for the net OBV z-score.
func PopulationStdev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := Average(values)
	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(n))
}
