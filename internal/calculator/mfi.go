package calculator

import "OBVSentinel/internal/model"

// MFI computes the Money Flow Index over the trailing period bars using the
// typical price (H+L+C)/3. Needs period+1 bars, otherwise returns the neutral 50.
func MFI(bars []model.Candle, period int) float64 {
	n := len(bars)
	if period <= 0 || n < period+1 {
		return 50.0
	}

	var posFlow, negFlow float64
	prevTP := typicalPrice(bars[n-period-1])
	for _, b := range bars[n-period:] {
		tp := typicalPrice(b)
		flow := tp * b.Volume
		switch {
		case tp > prevTP:
			posFlow += flow
		case tp < prevTP:
			negFlow += flow
		}
		prevTP = tp
	}

	if negFlow == 0 {
		return 100.0
	}
	ratio := posFlow / negFlow
	return 100.0 - 100.0/(1.0+ratio)
}

func typicalPrice(b model.Candle) float64 {
	return (b.High + b.Low + b.Close) / 3.0
}
