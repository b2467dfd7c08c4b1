package analyzer

import (
	"strings"

	"OBVSentinel/internal/timeframe"
)

// Options control one analysis run.
type Options struct {
	Interval    string `json:"interval"`
	SubInterval string `json:"subInterval"`
	Range       string `json:"range"`
	SubRange    string `json:"subRange"`

	// Backday drops that many of the most recent main bars, replaying the
	// analysis as of an earlier session.
	Backday int `json:"backday"`

	Period    int `json:"period"`    // report window
	OscPeriod int `json:"oscPeriod"` // RSI/MFI/ADX window
	Lookback  int `json:"lookback"`  // divergence window

	// Offset is the number of bars skipped at the end for LRS and volatility.
	// UTCOffset (seconds) sets the exchange-local day of daily buckets.
	// nil selects the interval default; an explicit 0 is kept.
	Offset    *int   `json:"offset,omitempty"`
	UTCOffset *int64 `json:"utcOffset,omitempty"`

	// Now clamps the final bucket. With NowClamp set and Now zero the
	// analyzer clock is used.
	Now      int64 `json:"now"`
	NowClamp bool  `json:"nowClamp"`
}

const (
	defaultDailyOffset    = 3
	defaultIntradayOffset = 2
	defaultOscPeriod = 14
	defaultLookback  = 25
	defaultUTCOffset = 8 * 3600
)

// Normalize fills unset fields with the defaults for the chosen interval.
func (o Options) Normalize() Options {
	o.Interval = strings.ToLower(strings.TrimSpace(o.Interval))
	if o.Interval == "" {
		o.Interval = "1d"
	}
	intraday := o.Interval == "1h" || o.Interval == "60m"
	if o.SubInterval == "" {
		o.SubInterval = timeframe.DefaultSubInterval(o.Interval)
	}
	if o.Range == "" {
		if intraday {
			o.Range = "10d"
		} else {
			o.Range = "3mo"
		}
	}
	if o.SubRange == "" {
		o.SubRange = o.Range
	}
	if o.Period <= 0 {
		if intraday {
			o.Period = 35
		} else {
			o.Period = 25
		}
	}
	if o.OscPeriod <= 0 {
		o.OscPeriod = defaultOscPeriod
	}
	if o.Offset == nil {
		off := defaultDailyOffset
		if intraday {
			off = defaultIntradayOffset
		}
		o.Offset = &off
	} else if *o.Offset < 0 {
		zero := 0
		o.Offset = &zero
	}
	if o.UTCOffset == nil {
		utc := int64(defaultUTCOffset)
		o.UTCOffset = &utc
	}
	if o.Lookback <= 0 {
		o.Lookback = defaultLookback
	}
	if o.Backday < 0 {
		o.Backday = 0
	}
	return o
}

// AvgCount is the number of LRS windows averaged: half the period, rounded up.
func (o Options) AvgCount() int {
	return (o.Period + 1) / 2
}

// BarOffset is the normalized Offset.
func (o Options) BarOffset() int {
	return *o.Normalize().Offset
}

// ExchangeOffset is the normalized UTCOffset in seconds.
func (o Options) ExchangeOffset() int64 {
	if o.UTCOffset == nil {
		return defaultUTCOffset
	}
	return *o.UTCOffset
}

// IntOpt returns a pointer for Offset.
func IntOpt(v int) *int { return &v }

// Int64Opt returns a pointer for UTCOffset.
func Int64Opt(v int64) *int64 { return &v }
