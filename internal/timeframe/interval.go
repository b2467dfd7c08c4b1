// Package timeframe maps sub-interval candles onto the main-interval buckets
// that contain them.
package timeframe

import (
	"strconv"
	"strings"
)

// Mode selects how bucket boundaries are derived.
type Mode int

const (
	// Fixed buckets span [ts, ts+Seconds-1].
	Fixed Mode = iota
	// Daily buckets span one exchange-local calendar day.
	Daily
	// Variable buckets end one second before the next main candle.
	Variable
)

func (m Mode) String() string {
	switch m {
	case Daily:
		return "daily"
	case Variable:
		return "variable"
	default:
		return "fixed"
	}
}

// DefaultSeconds is used for interval codes that cannot be parsed.
const DefaultSeconds int64 = 86400

// Interval describes the nominal duration of a candle interval.
type Interval struct {
	Code    string
	Seconds int64
	Mode    Mode
}

var variableCodes = map[string]int64{
	"1wk": 7 * 86400,
	"1mo": 30 * 86400,
	"3mo": 91 * 86400,
}

// ParseInterval converts a provider interval code ("5m", "1h", "4h", "1d", ...)
// into an Interval. Unknown codes fall back to a fixed one-day duration.
func ParseInterval(code string) Interval {
	c := strings.ToLower(strings.TrimSpace(code))
	if secs, ok := variableCodes[c]; ok {
		return Interval{Code: c, Seconds: secs, Mode: Variable}
	}
	if len(c) < 2 {
		return Interval{Code: c, Seconds: DefaultSeconds, Mode: Fixed}
	}
	n, err := strconv.Atoi(c[:len(c)-1])
	if err != nil || n <= 0 {
		return Interval{Code: c, Seconds: DefaultSeconds, Mode: Fixed}
	}
	switch c[len(c)-1] {
	case 'm':
		return Interval{Code: c, Seconds: int64(n) * 60, Mode: Fixed}
	case 'h':
		return Interval{Code: c, Seconds: int64(n) * 3600, Mode: Fixed}
	case 'd':
		if n == 1 {
			return Interval{Code: c, Seconds: DefaultSeconds, Mode: Daily}
		}
		return Interval{Code: c, Seconds: int64(n) * 86400, Mode: Fixed}
	}
	return Interval{Code: c, Seconds: DefaultSeconds, Mode: Fixed}
}

// DefaultSubInterval returns the sub interval paired with a main interval
// when the caller does not choose one.
func DefaultSubInterval(main string) string {
	switch strings.ToLower(main) {
	case "1h", "60m":
		return "15m"
	case "15m", "30m":
		return "5m"
	default:
		return "1h"
	}
}
