package strategy

import "OBVSentinel/internal/model"

// Rules are the thresholds of the composite divergence screen.
type Rules struct {
	MinVolume float64
	RSIMax    float64
	MFIMin    float64
	ADXMin    float64
}

// DefaultRules returns the thresholds the screen was tuned with.
func DefaultRules() Rules {
	return Rules{MinVolume: 500000, RSIMax: 50, MFIMin: 50, ADXMin: 50}
}

// ScreenInput is the latest-bar view of an analyzed series.
type ScreenInput struct {
	Volume           float64
	RSI, PrevRSI     *float64
	MFI, ADX         *float64
	Delta, PrevDelta float64
	Trend            [3]string // divergence at the latest bar, one bar ago, two bars ago
}

// Verdict is the screen outcome with every rule listed.
type Verdict struct {
	Label  string        `json:"label"`
	Passed bool          `json:"passed"`
	Checks []model.Check `json:"checks"`
}

// InputFrom builds the screen input from the last two bars of series and the
// divergence trail (newest first). ok is false with fewer than two bars.
func InputFrom(series model.OBVSeries, trail []string) (ScreenInput, bool) {
	n := len(series)
	if n < 2 {
		return ScreenInput{}, false
	}
	cur, prev := series[n-1], series[n-2]
	in := ScreenInput{
		Volume:    cur.Volume,
		RSI:       cur.RSI,
		PrevRSI:   prev.RSI,
		MFI:       cur.MFI,
		ADX:       cur.ADX,
		Delta:     cur.DeltaOBV,
		PrevDelta: prev.DeltaOBV,
		Trend:     [3]string{model.NoSignal, model.NoSignal, model.NoSignal},
	}
	for i := 0; i < len(trail) && i < len(in.Trend); i++ {
		in.Trend[i] = trail[i]
	}
	return in, true
}

// Screen evaluates every rule; the ticker is flagged only when all pass.
func Screen(in ScreenInput, r Rules) Verdict {
	checks := []model.Check{
		checkVolume(in, r),
		checkRSI(in, r),
		checkMoneyFlow(in, r),
		checkAccumulation(in, r),
		checkFreshDivergence(in, r),
	}

	v := Verdict{Label: model.NoSignal, Passed: true, Checks: checks}
	for _, c := range checks {
		if !c.Passed {
			v.Passed = false
			break
		}
	}
	if v.Passed {
		v.Label = model.ScreenedBullish
	}
	return v
}
