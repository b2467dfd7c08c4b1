package timeframe

import (
	"testing"

	"OBVSentinel/internal/model"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		code    string
		seconds int64
		mode    Mode
	}{
		{"5m", 300, Fixed},
		{"15m", 900, Fixed},
		{"60m", 3600, Fixed},
		{"90m", 5400, Fixed},
		{"1h", 3600, Fixed},
		{"4h", 14400, Fixed},
		{"1d", 86400, Daily},
		{"5d", 5 * 86400, Fixed},
		{"1wk", 7 * 86400, Variable},
		{"bogus", 86400, Fixed},
		{"", 86400, Fixed},
	}
	for _, tt := range tests {
		iv := ParseInterval(tt.code)
		if iv.Seconds != tt.seconds || iv.Mode != tt.mode {
			t.Errorf("ParseInterval(%q): expected %d/%s, got %d/%s", tt.code, tt.seconds, tt.mode, iv.Seconds, iv.Mode)
		}
	}
}

func TestDefaultSubInterval(t *testing.T) {
	if got := DefaultSubInterval("1h"); got != "15m" {
		t.Errorf("expected 15m for 1h, got %s", got)
	}
	if got := DefaultSubInterval("1d"); got != "1h" {
		t.Errorf("expected 1h for 1d, got %s", got)
	}
}

func candlesAt(ts ...int64) []model.Candle {
	out := make([]model.Candle, len(ts))
	for i, v := range ts {
		out[i] = model.Candle{Timestamp: v, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}
	}
	return out
}

func TestAlign_FixedBuckets(t *testing.T) {
	a := NewAligner("1h", 0)
	mains := candlesAt(3600, 7200, 10800)
	subs := candlesAt(0, 3600, 4500, 5400, 6300, 7199, 7200, 10800, 14399, 14400)

	groups := a.Align(mains, subs)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	want := [][]int64{
		{3600, 4500, 5400, 6300, 7199},
		{7200},
		{10800, 14399},
	}
	for i, g := range groups {
		if len(g) != len(want[i]) {
			t.Fatalf("group %d: expected %d subs, got %d", i, len(want[i]), len(g))
		}
		for j, s := range g {
			if s.Timestamp != want[i][j] {
				t.Errorf("group %d[%d]: expected ts %d, got %d", i, j, want[i][j], s.Timestamp)
			}
		}
	}
}

func TestAlign_SubsBeforeFirstMainNeverAssigned(t *testing.T) {
	a := NewAligner("1h", 0)
	mains := candlesAt(7200)
	subs := candlesAt(0, 3600, 7199)
	groups := a.Align(mains, subs)
	if len(groups[0]) != 0 {
		t.Errorf("expected no subs assigned, got %d", len(groups[0]))
	}
}

func TestAlign_DailyUsesLocalDay(t *testing.T) {
	const off = 8 * 3600
	a := NewAligner("1d", off)
	// Local day 2024-01-02 starts at 2024-01-01 16:00 UTC.
	dayStart := int64(1704124800) // 2024-01-01 16:00:00 UTC
	main := dayStart + 3600       // exchange opens 01:00 local
	mains := candlesAt(main)

	b := a.BucketFor(mains, 0)
	if b.Start != dayStart || b.End != dayStart+86399 {
		t.Fatalf("expected [%d,%d], got [%d,%d]", dayStart, dayStart+86399, b.Start, b.End)
	}

	subs := candlesAt(dayStart-1, dayStart+3600, dayStart+7200, dayStart+86399, dayStart+86400)
	groups := a.Align(mains, subs)
	if len(groups[0]) != 3 {
		t.Errorf("expected 3 subs inside the local day, got %d", len(groups[0]))
	}
}

func TestBucketFor_VariableUsesNextMain(t *testing.T) {
	a := Aligner{Interval: ParseInterval("1wk")}
	mains := candlesAt(1000, 5000, 9000)
	b0 := a.BucketFor(mains, 0)
	if b0.End != 4999 {
		t.Errorf("expected end 4999, got %d", b0.End)
	}
	last := a.BucketFor(mains, 2)
	if last.End != 9000+4000-1 {
		t.Errorf("expected last end to use first step, got %d", last.End)
	}
}

func TestBucketFor_ClampsLastBucketToNow(t *testing.T) {
	a := NewAligner("4h", 0)
	a.Now = 20000
	mains := candlesAt(0, 14400)
	if b := a.BucketFor(mains, 1); b.End != 20000 {
		t.Errorf("expected clamped end 20000, got %d", b.End)
	}
	if b := a.BucketFor(mains, 0); b.End != 14399 {
		t.Errorf("expected earlier bucket untouched, got %d", b.End)
	}
}

func TestTruncate_DropsTrailingSubs(t *testing.T) {
	a := NewAligner("1h", 0)
	mains := candlesAt(0, 3600)
	subs := candlesAt(0, 900, 3600, 7199, 7200, 8100)
	got := a.Truncate(mains, subs)
	if len(got) != 4 {
		t.Fatalf("expected 4 subs kept, got %d", len(got))
	}
	if got[len(got)-1].Timestamp != 7199 {
		t.Errorf("expected last kept ts 7199, got %d", got[len(got)-1].Timestamp)
	}
	if a.Truncate(nil, subs) != nil {
		t.Error("expected nil when there are no mains")
	}
}
