// Package obv builds the volume-synchronized On-Balance-Volume series from a
// main candle series and the finer sub candles covering the same span.
package obv

import (
	"math"

	"OBVSentinel/internal/model"
	"OBVSentinel/internal/timeframe"
)

// BucketResult is the synchronization outcome of one main bucket.
type BucketResult struct {
	TotalSubVolume  float64
	EffectiveVolume float64
	ScaleFactor     float64
	Delta           float64
}

// BucketDelta rescales the sub volumes of one bucket to the authoritative
// main volume and sums the body-weighted signed deltas.
//
// prevMainClose is the close of the preceding main candle, nil for the first bucket.
func BucketDelta(mainVolume float64, prevMainClose *float64, subs []model.Candle) BucketResult {
	var total float64
	for _, s := range subs {
		total += nonNeg(s.Volume)
	}

	res := BucketResult{TotalSubVolume: total, EffectiveVolume: mainVolume, ScaleFactor: 1}
	if mainVolume <= 0 {
		// main feed under-reports: the sub volume becomes authoritative
		res.EffectiveVolume = total
	}
	if total > 0 && mainVolume > 0 {
		res.ScaleFactor = mainVolume / total
	}

	for idx, s := range subs {
		synced := nonNeg(s.Volume) * res.ScaleFactor
		if s.Close != s.Open {
			intensity := math.Abs(s.Close-s.Open) / math.Max(1, s.High-s.Low)
			if s.Close > s.Open {
				res.Delta += synced * intensity
			} else {
				res.Delta -= synced * intensity
			}
			continue
		}

		var prev float64
		switch {
		case idx > 0:
			prev = subs[idx-1].Close
		case prevMainClose != nil:
			prev = *prevMainClose
		default:
			continue
		}
		if s.Close >= prev {
			res.Delta += synced
		} else {
			res.Delta -= synced
		}
	}
	return res
}

// Deltas computes the per-bucket delta OBV for aligned sub candle groups.
func Deltas(mains []model.Candle, groups [][]model.Candle) []float64 {
	out := make([]float64, len(mains))
	for i, m := range mains {
		var prev *float64
		if i > 0 {
			c := mains[i-1].Close
			prev = &c
		}
		var subs []model.Candle
		if i < len(groups) {
			subs = groups[i]
		}
		out[i] = BucketDelta(m.Volume, prev, subs).Delta
	}
	return out
}

// Synchronize runs the full pipeline: truncate trailing subs, align, compute
// bucket deltas, accumulate and normalize. Inputs are not modified.
func Synchronize(mains, subs []model.Candle, a timeframe.Aligner) model.OBVSeries {
	if len(mains) == 0 {
		return model.OBVSeries{}
	}
	subs = a.Truncate(mains, subs)
	deltas := Deltas(mains, a.Align(mains, subs))
	net, _ := Normalize(Accumulate(deltas))

	out := make(model.OBVSeries, len(mains))
	for i, m := range mains {
		out[i] = model.AnalyzedCandle{Candle: m, DeltaOBV: deltas[i], NetOBV: net[i]}
	}
	return out
}

func nonNeg(v float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return 0
}
