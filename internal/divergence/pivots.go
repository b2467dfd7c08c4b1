package divergence

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"OBVSentinel/internal/model"
)

// Params tunes pivot detection and classification.
type Params struct {
	Strength       int     // bars of confirmation on each side of a pivot
	MinATRMultiple float64 // required prominence, in ATRs
	MinGap         int     // minimum bar distance between accepted pivots
	ATRPeriod      int
	TolATRMultiple float64 // how close a low must hold to count as "equal"
}

// DefaultParams returns the tuning used by the screen.
func DefaultParams() Params {
	return Params{
		Strength:       2,
		MinATRMultiple: 0.5,
		MinGap:         3,
		ATRPeriod:      14,
		TolATRMultiple: 0.25,
	}
}

// ATR is the mean absolute close-to-close change over the last period changes.
// When fewer changes exist all of them are averaged.
func ATR(closes []float64, period int) float64 {
	if len(closes) < 2 {
		return 0
	}
	diffs := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diffs[i-1] = math.Abs(closes[i] - closes[i-1])
	}
	if period <= 0 || period > len(diffs) {
		period = len(diffs)
	}
	if period == 1 {
		return diffs[len(diffs)-1]
	}
	atr := talib.Sma(diffs, period)[len(diffs)-1]
	if !isFinite(atr) {
		return 0
	}
	return atr
}

// FindPivots returns the low (isHigh=false) or high pivots of window in
// index order. A pivot must be confirmed by p.Strength bars on each side,
// stand out from its neighbourhood by p.MinATRMultiple*atr, and lie at
// least p.MinGap bars from the previous pivot (the more extreme of two
// close pivots wins). The final bar is always appended as a provisional pivot.
func FindPivots(window []float64, isHigh bool, p Params, atr float64) []model.Pivot {
	n := len(window)
	if n == 0 {
		return nil
	}
	s := p.Strength
	if s < 1 {
		s = 1
	}
	minMove := p.MinATRMultiple * atr

	var out []model.Pivot
	for i := s; i < n-s; i++ {
		if !isPivot(window, i, s, isHigh) {
			continue
		}
		if prominence(window, i, s, isHigh) < minMove {
			continue
		}
		pv := model.Pivot{Index: i, Value: window[i]}
		if k := len(out) - 1; k >= 0 && i-out[k].Index < p.MinGap {
			if moreExtreme(pv.Value, out[k].Value, isHigh) {
				out[k] = pv
			}
			continue
		}
		out = append(out, pv)
	}

	last := n - 1
	if len(out) == 0 || out[len(out)-1].Index != last {
		if isFinite(window[last]) {
			out = append(out, model.Pivot{Index: last, Value: window[last]})
		}
	}
	return out
}

// isPivot checks strength bars each side. Equal values on the left are
// allowed so a flat bottom or top pivots on its last bar.
func isPivot(values []float64, idx, s int, isHigh bool) bool {
	center := values[idx]
	if !isFinite(center) {
		return false
	}
	for j := idx - s; j <= idx+s; j++ {
		if j == idx {
			continue
		}
		v := values[j]
		if !isFinite(v) {
			return false
		}
		if isHigh {
			if v > center || (j > idx && v == center) {
				return false
			}
			continue
		}
		if v < center || (j > idx && v == center) {
			return false
		}
	}
	return true
}

func prominence(values []float64, idx, s int, isHigh bool) float64 {
	center := values[idx]
	best := 0.0
	for j := idx - s; j <= idx+s; j++ {
		d := values[j] - center
		if isHigh {
			d = -d
		}
		best = math.Max(best, d)
	}
	return best
}

func moreExtreme(v, than float64, isHigh bool) bool {
	if isHigh {
		return v > than
	}
	return v < than
}

// AlignedValue absorbs a one-bar phase shift between price and indicator:
// it returns the min (low pivot) or max (high pivot) of indicator over
// idx-1..idx+1, ignoring NaN. NaN when nothing usable is in range.
func AlignedValue(indicator []float64, idx int, isHigh bool) float64 {
	out := math.NaN()
	for j := idx - 1; j <= idx+1; j++ {
		if j < 0 || j >= len(indicator) || !isFinite(indicator[j]) {
			continue
		}
		v := indicator[j]
		if math.IsNaN(out) || moreExtreme(v, out, isHigh) {
			out = v
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
