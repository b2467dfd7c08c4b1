// Package divergence classifies price swings against an oscillator.
package divergence

import (
	"fmt"
	"math"

	"OBVSentinel/internal/model"
)

// Report is the full outcome of one detection pass.
type Report struct {
	Signal string        `json:"signal"`
	ATR    float64       `json:"atr"`
	Lows   []model.Pivot `json:"lows"`
	Highs  []model.Pivot `json:"highs"`
}

// Detector runs pivot detection followed by pivot-pair classification.
type Detector struct {
	Params   Params
	classify func(lows, highs []model.Pivot, indicator []float64, tol float64) string
}

// NewDetector creates a detector with the given tuning.
func NewDetector(p Params) *Detector {
	return &Detector{Params: p, classify: Classify}
}

var defaultDetector = NewDetector(DefaultParams())

// Detect classifies candles against indicator with the default tuning.
func Detect(candles []model.Candle, indicator []float64, lookback int) string {
	return defaultDetector.Detect(candles, indicator, lookback)
}

// Detect always returns a classification. Internal failures surface as
// "ERROR: <reason>" instead of propagating.
func (d *Detector) Detect(candles []model.Candle, indicator []float64, lookback int) (signal string) {
	defer func() {
		if r := recover(); r != nil {
			signal = fmt.Sprintf("ERROR: %v", r)
		}
	}()
	return d.Inspect(candles, indicator, lookback).Signal
}

// Trail returns the classification at the latest bar and at each of the
// depth-1 bars before it, newest first.
func (d *Detector) Trail(candles []model.Candle, indicator []float64, lookback, depth int) []string {
	out := make([]string, 0, depth)
	for k := 0; k < depth; k++ {
		if k > len(candles) {
			out = append(out, model.NoSignal)
			continue
		}
		var ind []float64
		if len(indicator) >= k {
			ind = indicator[:len(indicator)-k]
		}
		out = append(out, d.Detect(candles[:len(candles)-k], ind, lookback))
	}
	return out
}

// Inspect runs detection over the trailing lookback bars. Pivot indexes in
// the report are relative to that window. Indicator values are right-aligned
// with candles. It may panic on malformed input; use Detect for the safe form.
func (d *Detector) Inspect(candles []model.Candle, indicator []float64, lookback int) Report {
	n := len(candles)
	if n == 0 {
		return Report{Signal: model.NoSignal}
	}
	ind := rightAlign(indicator, n)

	if lookback <= 0 || lookback > n {
		lookback = n
	}
	closes := make([]float64, lookback)
	for i, c := range candles[n-lookback:] {
		closes[i] = c.Close
	}
	ind = ind[n-lookback:]

	atr := ATR(closes, d.Params.ATRPeriod)
	r := Report{
		ATR:   atr,
		Lows:  FindPivots(closes, false, d.Params, atr),
		Highs: FindPivots(closes, true, d.Params, atr),
	}
	classify := d.classify
	if classify == nil {
		classify = Classify
	}
	r.Signal = classify(r.Lows, r.Highs, ind, d.Params.TolATRMultiple*atr)
	return r
}

// Classify compares the two most recent low pivots and high pivots (and the
// indicator aligned to them). Rules are tried in priority order.
func Classify(lows, highs []model.Pivot, indicator []float64, tol float64) string {
	var (
		l0, l1, l2    = nthFromEnd(lows, 2), nthFromEnd(lows, 1), nthFromEnd(lows, 0)
		h1, h2        = nthFromEnd(highs, 1), nthFromEnd(highs, 0)
		iL1, iL2      = aligned(indicator, l1, false), aligned(indicator, l2, false)
		iH1, iH2      = aligned(indicator, h1, true), aligned(indicator, h2, true)
		haveLows      = l1 != nil && l2 != nil
		haveHighs     = h1 != nil && h2 != nil
		lowsRising    = haveLows && l2.Value > l1.Value && iL2 > iL1
		highsRising   = haveHighs && h2.Value > h1.Value && iH2 > iH1
		bullishDiv    = haveLows && l2.Value <= l1.Value+tol && iL2 > iL1
		hiddenBullish = haveLows && l0 != nil && l0.Value < l1.Value && l2.Value >= l1.Value-tol && iL2 < iL1
	)

	switch {
	case bullishDiv:
		return model.BullishDivergence
	case hiddenBullish:
		return model.HiddenBullish
	case lowsRising || highsRising:
		return model.BullishContinuation
	case haveHighs && h2.Value > h1.Value && iH2 < iH1:
		return model.BearishDivergence
	case haveHighs && h2.Value < h1.Value && iH2 < iH1:
		return model.BearishContinuation
	}
	return model.NoSignal
}

func nthFromEnd(pivots []model.Pivot, k int) *model.Pivot {
	i := len(pivots) - 1 - k
	if i < 0 {
		return nil
	}
	return &pivots[i]
}

func aligned(indicator []float64, p *model.Pivot, isHigh bool) float64 {
	if p == nil {
		return math.NaN()
	}
	return AlignedValue(indicator, p.Index, isHigh)
}

// rightAlign returns indicator trimmed or NaN-padded at the front to length n.
func rightAlign(indicator []float64, n int) []float64 {
	if len(indicator) >= n {
		return indicator[len(indicator)-n:]
	}
	out := make([]float64, n)
	pad := n - len(indicator)
	for i := 0; i < pad; i++ {
		out[i] = math.NaN()
	}
	copy(out[pad:], indicator)
	return out
}
