package strategy

import (
	"fmt"
	"strings"

	"OBVSentinel/internal/model"
)

// checkVolume requires the latest bar to trade above the liquidity floor.
func checkVolume(in ScreenInput, r Rules) model.Check {
	return model.Check{
		Name:   "volume",
		Passed: in.Volume > r.MinVolume,
		Detail: fmt.Sprintf("vol=%.0f min=%.0f", in.Volume, r.MinVolume),
	}
}

// checkRSI requires RSI below the ceiling on the latest or the previous bar.
func checkRSI(in ScreenInput, r Rules) model.Check {
	passed := below(in.RSI, r.RSIMax) || below(in.PrevRSI, r.RSIMax)
	return model.Check{
		Name:   "rsi",
		Passed: passed,
		Detail: fmt.Sprintf("rsi=%s prev=%s max=%.0f", show(in.RSI), show(in.PrevRSI), r.RSIMax),
	}
}

// checkMoneyFlow accepts either strong money flow or a strong trend.
func checkMoneyFlow(in ScreenInput, r Rules) model.Check {
	passed := above(in.MFI, r.MFIMin) || above(in.ADX, r.ADXMin)
	return model.Check{
		Name:   "mfi_adx",
		Passed: passed,
		Detail: fmt.Sprintf("mfi=%s adx=%s", show(in.MFI), show(in.ADX)),
	}
}

// checkAccumulation requires two consecutive bars of positive delta OBV.
func checkAccumulation(in ScreenInput, _ Rules) model.Check {
	return model.Check{
		Name:   "delta_obv",
		Passed: in.Delta > 0 && in.PrevDelta > 0,
		Detail: fmt.Sprintf("delta=%.2f prev=%.2f", in.Delta, in.PrevDelta),
	}
}

// checkFreshDivergence fires on a bullish divergence at the latest bar that
// was not already reported on both of the two previous bars.
func checkFreshDivergence(in ScreenInput, _ Rules) model.Check {
	now := in.Trend[0] == model.BullishDivergence
	stale := in.Trend[1] == model.BullishDivergence && in.Trend[2] == model.BullishDivergence
	return model.Check{
		Name:   "divergence",
		Passed: now && !stale,
		Detail: strings.Join(in.Trend[:], " | "),
	}
}

func below(v *float64, limit float64) bool { return v != nil && *v < limit }
func above(v *float64, limit float64) bool { return v != nil && *v > limit }

func show(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}
