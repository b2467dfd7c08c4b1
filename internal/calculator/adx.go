package calculator

import (
	"math"

	"OBVSentinel/internal/model"
)

// DI holds the directional indicators of one window.
type DI struct {
	Plus  float64 `json:"plusDI"`
	Minus float64 `json:"minusDI"`
	DX    float64 `json:"dx"`
}

// DirectionalIndex sums true range and directional movement over the
// trailing period bars and derives +DI, -DI and DX. The zero value is
// returned when history is short or the true range is zero.
func DirectionalIndex(bars []model.Candle, period int) DI {
	n := len(bars)
	if period <= 0 || n < period+1 {
		return DI{}
	}

	var sumTR, sumPlus, sumMinus float64
	for i := n - period; i < n; i++ {
		cur, prev := bars[i], bars[i-1]
		tr := math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
		up := cur.High - prev.High
		down := prev.Low - cur.Low
		if up > down && up > 0 {
			sumPlus += up
		}
		if down > up && down > 0 {
			sumMinus += down
		}
		sumTR += tr
	}
	if sumTR == 0 {
		return DI{}
	}

	d := DI{Plus: 100 * sumPlus / sumTR, Minus: 100 * sumMinus / sumTR}
	if d.Plus+d.Minus != 0 {
		d.DX = 100 * math.Abs(d.Plus-d.Minus) / (d.Plus + d.Minus)
	}
	return d
}

// ADX returns the single-window DX under the ADX name; no Wilder smoothing
// of DX across windows is applied.
func ADX(bars []model.Candle, period int) float64 {
	return DirectionalIndex(bars, period).DX
}
