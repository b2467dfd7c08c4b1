package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"OBVSentinel/internal/model"
)

func TestRESTFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		if r.URL.Query().Get("symbol") != "BBCA" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[
			{"timestamp":200,"open":2,"high":3,"low":1,"close":2.5,"volume":10},
			{"timestamp":100,"open":1,"high":2,"low":1,"close":1.5,"volume":5},
			{"timestamp":300,"open":1,"high":2,"low":1,"close":null,"volume":5}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "k", "", time.Second)
	bars, err := f.FetchCandles(context.Background(), "BBCA", "1d", "3mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Timestamp != 100 || bars[1].Timestamp != 200 {
		t.Errorf("expected 2 sorted bars, got %+v", bars)
	}
}

func TestRESTFetcher_WeeklyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("interval") == "1wk" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		// Mon 2024-01-01 .. Wed 2024-01-03, then Mon 2024-01-08
		w.Write([]byte(`[
			{"timestamp":1704067200,"open":10,"high":11,"low":9,"close":10.5,"volume":100},
			{"timestamp":1704153600,"open":10.5,"high":13,"low":10,"close":12,"volume":200},
			{"timestamp":1704240000,"open":12,"high":12.5,"low":8,"close":9,"volume":300},
			{"timestamp":1704672000,"open":9,"high":10,"low":8.5,"close":9.5,"volume":50}
		]`))
	}))
	defer srv.Close()

	bars, err := NewRESTFetcher(srv.URL, "", "", time.Second).FetchCandles(context.Background(), "BBCA", "1wk", "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Candle{
		{Timestamp: 1704067200, Open: 10, High: 13, Low: 8, Close: 9, Volume: 600},
		{Timestamp: 1704672000, Open: 9, High: 10, Low: 8.5, Close: 9.5, Volume: 50},
	}
	if len(bars) != len(want) {
		t.Fatalf("expected %d weekly bars, got %d", len(want), len(bars))
	}
	for i := range want {
		if bars[i] != want[i] {
			t.Errorf("week %d: expected %+v, got %+v", i, want[i], bars[i])
		}
	}
}
