package calculator

import "math"

// NetOBVStats compares the latest net OBV with the period values preceding it.
type NetOBVStats struct {
	Current  float64
	Mean     float64
	Stdev    float64
	ZScore   float64 // reported as avgNetOBV
	Strength float64 // position within the historical min/max
}

// ComputeNetOBVStats excludes the current (still forming) bar from the
// history window. ok is false when fewer than period+1 values exist.
func ComputeNetOBVStats(netOBV []float64, period int) (NetOBVStats, bool) {
	n := len(netOBV)
	if period <= 0 || n < period+1 {
		return NetOBVStats{}, false
	}
	hist := netOBV[n-period-1 : n-1]
	s := NetOBVStats{Current: netOBV[n-1]}
	s.Mean = Average(hist)
	s.Stdev = PopulationStdev(hist)
	if s.Stdev != 0 {
		s.ZScore = (s.Current - s.Mean) / s.Stdev
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range hist {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	s.Strength = RangePosition(s.Current, hi, lo)
	return s, true
}
