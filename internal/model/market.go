package model

import (
	"math"
	"strings"
	"time"
)

// Candle represents a single OHLCV bar. Timestamp is unix seconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Valid reports whether the candle carries a usable close price.
func (c Candle) Valid() bool {
	return !math.IsNaN(c.Close) && !math.IsInf(c.Close, 0)
}

// AnalyzedCandle is a candle decorated with the synchronized OBV values and
// the rolling oscillators. A nil oscillator means not enough history yet.
type AnalyzedCandle struct {
	Candle
	DeltaOBV float64  `json:"deltaOBV"`
	NetOBV   float64  `json:"netOBV"`
	RSI      *float64 `json:"rsi"`
	MFI      *float64 `json:"mfi"`
	ADX      *float64 `json:"adx"`
}

// Bucket is the main-interval window [Start, End] (inclusive, unix seconds).
type Bucket struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Contains reports whether ts falls inside the bucket.
func (b Bucket) Contains(ts int64) bool {
	return ts >= b.Start && ts <= b.End
}

// Pivot is a swing extreme at a position of a windowed slice.
type Pivot struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// OBVSeries is the ordered output of the synchronization pipeline.
type OBVSeries []AnalyzedCandle

// Candles returns the raw candles of the series.
func (s OBVSeries) Candles() []Candle {
	out := make([]Candle, len(s))
	for i, a := range s {
		out[i] = a.Candle
	}
	return out
}

// Closes returns the close price column of the series.
func (s OBVSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, a := range s {
		out[i] = a.Close
	}
	return out
}

// Volumes returns the main-bar volume column of the series.
func (s OBVSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, a := range s {
		out[i] = a.Volume
	}
	return out
}

// Deltas returns the per-bar synced OBV delta.
func (s OBVSeries) Deltas() []float64 {
	out := make([]float64, len(s))
	for i, a := range s {
		out[i] = a.DeltaOBV
	}
	return out
}

// NetOBVs returns the cumulative OBV column.
func (s OBVSeries) NetOBVs() []float64 {
	out := make([]float64, len(s))
	for i, a := range s {
		out[i] = a.NetOBV
	}
	return out
}

// RSIs returns the RSI column with NaN where the value is not available.
func (s OBVSeries) RSIs() []float64 {
	out := make([]float64, len(s))
	for i, a := range s {
		out[i] = deref(a.RSI)
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// LocalTime renders ts shifted by offsetSeconds, labelled WITA for the UTC+8 case.
// Display only; never used in computations.
func LocalTime(ts, offsetSeconds int64) string {
	if ts == 0 {
		return ""
	}
	s := time.Unix(ts+offsetSeconds, 0).UTC().Format(time.RFC1123)
	if offsetSeconds == 8*3600 {
		return strings.Replace(s, "UTC", "WITA", 1)
	}
	return s
}
