package timeframe

import (
	"sort"

	"OBVSentinel/internal/model"
)

const secondsPerDay int64 = 86400

// Aligner assigns sub candles to main-candle buckets.
//
// UTCOffset (seconds) defines the exchange-local day for Daily intervals.
// When Now is positive the final bucket never extends past it.
type Aligner struct {
	Interval  Interval
	UTCOffset int64
	Now       int64
}

// NewAligner creates an Aligner for the given main interval code.
func NewAligner(mainInterval string, utcOffset int64) Aligner {
	return Aligner{Interval: ParseInterval(mainInterval), UTCOffset: utcOffset}
}

// BucketFor returns the time window owned by mains[i].
func (a Aligner) BucketFor(mains []model.Candle, i int) model.Bucket {
	ts := mains[i].Timestamp
	var b model.Bucket
	switch a.Interval.Mode {
	case Daily:
		local := ts + a.UTCOffset
		start := floorDiv(local, secondsPerDay)*secondsPerDay - a.UTCOffset
		b = model.Bucket{Start: start, End: start + secondsPerDay - 1}
	case Variable:
		var end int64
		if i+1 < len(mains) {
			end = mains[i+1].Timestamp - 1
		} else {
			step := a.Interval.Seconds
			if len(mains) > 1 {
				step = mains[1].Timestamp - mains[0].Timestamp
			}
			end = ts + step - 1
		}
		b = model.Bucket{Start: ts, End: end}
	default:
		dur := a.Interval.Seconds
		if dur <= 0 {
			dur = DefaultSeconds
		}
		b = model.Bucket{Start: ts, End: ts + dur - 1}
	}
	if i == len(mains)-1 && a.Now > 0 && b.End > a.Now {
		b.End = a.Now
	}
	return b
}

// Buckets returns the bucket of every main candle.
func (a Aligner) Buckets(mains []model.Candle) []model.Bucket {
	out := make([]model.Bucket, len(mains))
	for i := range mains {
		out[i] = a.BucketFor(mains, i)
	}
	return out
}

// Truncate drops sub candles after the end of the last main bucket so a
// partially formed trailing bar cannot pollute the aggregate.
func (a Aligner) Truncate(mains, subs []model.Candle) []model.Candle {
	if len(mains) == 0 {
		return nil
	}
	end := a.BucketFor(mains, len(mains)-1).End
	n := sort.Search(len(subs), func(i int) bool { return subs[i].Timestamp > end })
	return subs[:n:n]
}

// Align returns, for every main candle, the sub candles inside its bucket.
// Both inputs must be sorted ascending by timestamp.
func (a Aligner) Align(mains, subs []model.Candle) [][]model.Candle {
	groups := make([][]model.Candle, len(mains))
	for i := range mains {
		b := a.BucketFor(mains, i)
		lo := sort.Search(len(subs), func(k int) bool { return subs[k].Timestamp >= b.Start })
		hi := lo
		for hi < len(subs) && subs[hi].Timestamp <= b.End {
			hi++
		}
		groups[i] = subs[lo:hi:hi]
	}
	return groups
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
