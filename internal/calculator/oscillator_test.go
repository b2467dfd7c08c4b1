package calculator

import (
	"math"
	"testing"

	"OBVSentinel/internal/model"
)

func zigzag(n int) []model.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/2) + float64(i%3)
	}
	bars := trendBars(closes...)
	for i := range bars {
		bars[i].Volume = 1000 + float64((i*37)%500)
	}
	return bars
}

func TestRSI_InsufficientData(t *testing.T) {
	if got := RSI(trendBars(1, 2, 3), 14); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}
	if got := RSI(trendBars(1, 2, 3), 0); got != 50 {
		t.Errorf("expected 50 for non-positive period, got %v", got)
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = float64(10 + i)
		down[i] = float64(50 - i)
	}
	if got := RSI(trendBars(up...), 14); got != 100 {
		t.Errorf("expected 100 with no losses, got %v", got)
	}
	if got := RSI(trendBars(down...), 14); got != 0 {
		t.Errorf("expected 0 with no gains, got %v", got)
	}
}

func TestRSI_WilderSmoothing(t *testing.T) {
	// period 2: changes +2, -1 seed gain=1, loss=0.5; then +1 -> gain=1, loss=0.25
	got := RSI(trendBars(10, 12, 11, 12), 2)
	want := 100 - 100/(1+1/0.25)
	if !almostEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMFI(t *testing.T) {
	if got := MFI(trendBars(1, 2), 14); got != 50 {
		t.Errorf("expected neutral 50, got %v", got)
	}
	rising := trendBars(1, 2, 3, 4, 5)
	if got := MFI(rising, 3); got != 100 {
		t.Errorf("expected 100 with no negative flow, got %v", got)
	}
	bars := []model.Candle{
		{High: 10, Low: 10, Close: 10, Volume: 1},
		{High: 12, Low: 12, Close: 12, Volume: 10}, // +120
		{High: 11, Low: 11, Close: 11, Volume: 20}, // -220
		{High: 13, Low: 13, Close: 13, Volume: 10}, // +130
	}
	want := 100 - 100/(1+250.0/220.0)
	if got := MFI(bars, 3); !almostEqual(got, want, 1e-12) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestADX(t *testing.T) {
	if got := ADX(trendBars(1, 2), 14); got != 0 {
		t.Errorf("expected 0 when short, got %v", got)
	}
	flat := []model.Candle{{High: 5, Low: 5, Close: 5}, {High: 5, Low: 5, Close: 5}, {High: 5, Low: 5, Close: 5}}
	if got := ADX(flat, 2); got != 0 {
		t.Errorf("expected 0 with zero true range, got %v", got)
	}
	bars := []model.Candle{
		{High: 10, Low: 8, Close: 9},
		{High: 12, Low: 9, Close: 11}, // up 2, down -1, tr 3
		{High: 13, Low: 10, Close: 12}, // up 1, down -1, tr 3
	}
	d := DirectionalIndex(bars, 2)
	if !almostEqual(d.Plus, 50, 1e-12) || d.Minus != 0 || !almostEqual(d.DX, 100, 1e-12) {
		t.Errorf("unexpected DI: %+v", d)
	}
	if got := ADX(bars, 2); !almostEqual(got, 100, 1e-12) {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestOscillatorsStayInRange(t *testing.T) {
	bars := zigzag(80)
	for n := 1; n <= len(bars); n++ {
		w := bars[:n]
		for name, v := range map[string]float64{
			"rsi": RSI(w, 14),
			"mfi": MFI(w, 14),
			"adx": ADX(w, 14),
		} {
			if math.IsNaN(v) || v < 0 || v > 100 {
				t.Fatalf("%s at n=%d out of range: %v", name, n, v)
			}
		}
	}
}

func TestNeutralDefaultsNeverNaN(t *testing.T) {
	for n := 0; n <= 14; n++ {
		bars := zigzag(n)
		vals := []float64{
			RSI(bars, 14), MFI(bars, 14), ADX(bars, 14),
			VolatilityRatio(bars, 14), LRS(extractCloses(bars), 14),
			MA(extractCloses(bars), 14), STDEV(extractCloses(bars), 14),
		}
		for i, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("n=%d value %d is not finite: %v", n, i, v)
			}
		}
	}
}

func TestRolling_NaNPrefix(t *testing.T) {
	bars := zigzag(20)
	rsi := RollingRSI(bars, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("expected NaN at %d, got %v", i, rsi[i])
		}
	}
	if got, want := rsi[19], RSI(bars, 14); got != want {
		t.Errorf("expected last rolling RSI %v, got %v", want, got)
	}
}

func TestDecorate(t *testing.T) {
	bars := zigzag(16)
	series := make(model.OBVSeries, len(bars))
	for i, b := range bars {
		series[i] = model.AnalyzedCandle{Candle: b}
	}
	out := Decorate(series, 14)
	if out[13].RSI != nil || out[13].MFI != nil || out[13].ADX != nil {
		t.Error("expected nil oscillators before period")
	}
	if out[15].RSI == nil || out[15].MFI == nil || out[15].ADX == nil {
		t.Fatal("expected oscillators on the last bar")
	}
	if series[15].RSI != nil {
		t.Error("input series was modified")
	}
}

func TestComputeNetOBVStats(t *testing.T) {
	net := []float64{0, 10, 20, 30, 40, 60}
	s, ok := ComputeNetOBVStats(net, 4)
	if !ok {
		t.Fatal("expected stats")
	}
	// history: 10,20,30,40 -> mean 25, pop stdev sqrt(125)
	if s.Mean != 25 {
		t.Errorf("expected mean 25, got %v", s.Mean)
	}
	if !almostEqual(s.ZScore, 35/math.Sqrt(125), 1e-12) {
		t.Errorf("unexpected z-score %v", s.ZScore)
	}
	if !almostEqual(s.Strength, 50.0/30.0, 1e-12) {
		t.Errorf("unexpected strength %v", s.Strength)
	}
	if _, ok := ComputeNetOBVStats(net, 6); ok {
		t.Error("expected not ok for short history")
	}
}
