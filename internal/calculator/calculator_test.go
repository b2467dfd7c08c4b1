package calculator

import (
	"math"
	"testing"

	"OBVSentinel/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func trendBars(closes ...float64) []model.Candle {
	bars := make([]model.Candle, len(closes))
	for i, c := range closes {
		bars[i] = model.Candle{Timestamp: int64(i) * 86400, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return bars
}

func TestMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6}
	if got := MA(vals, 3); got != 5 {
		t.Errorf("expected 5, got %v", got)
	}
	if got := MA(vals, 7); got != 0 {
		t.Errorf("expected 0 for insufficient data, got %v", got)
	}
	if got := MA(vals, 0); got != 0 {
		t.Errorf("expected 0 for non-positive period, got %v", got)
	}
}

func TestMA_BoundedByWindow(t *testing.T) {
	vals := []float64{7, 3, 9, 1, 4, 8, 2}
	for p := 1; p <= len(vals); p++ {
		w := vals[len(vals)-p:]
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range w {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		if got := MA(vals, p); got < lo || got > hi {
			t.Errorf("MA period %d = %v outside [%v,%v]", p, got, lo, hi)
		}
	}
}

func TestAverage_SkipsNaN(t *testing.T) {
	if got := Average([]float64{1, math.NaN(), 3}); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := Average(nil); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestSTDEV_Sample(t *testing.T) {
	got := STDEV([]float64{1, 2, 3, 4, 5}, 5)
	if !almostEqual(got, 1.5811388, 1e-6) {
		t.Errorf("expected ~1.5811, got %v", got)
	}
	if got := STDEV([]float64{42}, 5); got != 0 {
		t.Errorf("expected 0 with one value, got %v", got)
	}
}

func TestPopulationStdev(t *testing.T) {
	got := PopulationStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2, 1e-12) {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestLRS(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
	}{
		{"flat", []float64{10, 10, 10, 10, 10}, 5, 0},
		{"rising", []float64{1, 2, 3, 4, 5}, 5, 100.0 / 3.0},
		{"falling", []float64{5, 4, 3, 2, 1}, 5, -100.0 / 3.0},
		{"uses tail", []float64{100, 1, 2, 3, 4, 5}, 5, 100.0 / 3.0},
		{"short", []float64{1, 2}, 5, 0},
		{"zero mean", []float64{-2, -1, 0, 1, 2}, 5, 0},
		{"nan", []float64{1, math.NaN(), 3}, 3, 0},
	}
	for _, tt := range tests {
		if got := LRS(tt.closes, tt.period); !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestAverageLRS(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	// windows ending at index 5 and 4 (offset 2, count 2, period 3)
	want := (LRS([]float64{4, 5, 6}, 3) + LRS([]float64{3, 4, 5}, 3)) / 2
	if got := AverageLRS(closes, 3, 2, 2, false); !almostEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := AverageLRS(closes, 10, 0, 2, true); got != 0 {
		t.Errorf("expected 0 when no window fits, got %v", got)
	}
	falling := []float64{8, 7, 6, 5, 4}
	if got := AverageLRS(falling, 3, 0, 2, true); got <= 0 {
		t.Errorf("expected positive magnitude, got %v", got)
	}
}

func TestVolatilityRatio(t *testing.T) {
	bars := []model.Candle{
		{High: 12, Low: 10},
		{High: 15, Low: 11},
		{High: 13, Low: 9},
		{High: 14, Low: 12},
	}
	if got := VolatilityRatio(bars, 3); !almostEqual(got, 15.0/9.0, 1e-12) {
		t.Errorf("expected 15/9, got %v", got)
	}
	if got := VolatilityRatio(bars, 1); !almostEqual(got, 14.0/12.0, 1e-12) {
		t.Errorf("expected 14/12, got %v", got)
	}
	if got := VolatilityRatio(bars, 10); got != 1 {
		t.Errorf("expected 1 for short window, got %v", got)
	}
	// a window that exactly fills the input is complete
	if got := VolatilityRatio(bars, len(bars)); !almostEqual(got, 15.0/9.0, 1e-12) {
		t.Errorf("expected 15/9 when length equals period, got %v", got)
	}
	if got := VolatilityRatio(bars, len(bars)+1); got != 1 {
		t.Errorf("expected 1 when length is period-1, got %v", got)
	}
	zero := []model.Candle{{High: 5, Low: 0}, {High: 6, Low: 1}}
	if got := VolatilityRatio(zero, 2); got != 1 {
		t.Errorf("expected 1 when min low is 0, got %v", got)
	}
	for p := 1; p <= len(bars); p++ {
		if got := VolatilityRatio(bars, p); got < 1 {
			t.Errorf("period %d: expected >= 1, got %v", p, got)
		}
	}
}

func TestMinMaxClose(t *testing.T) {
	bars := trendBars(5, 3, 8, 6)
	if got := MinClose(bars, 3); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
	if got := MaxClose(bars, 2); got != 8 {
		t.Errorf("expected 8, got %v", got)
	}
	if got := MinClose(bars, 5); got != 0 {
		t.Errorf("expected 0 when short, got %v", got)
	}
}

func TestVolumeRatio(t *testing.T) {
	if got := VolumeRatio(200, 100); got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
	if got := VolumeRatio(200, 0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
