package recorder

import (
	"path/filepath"
	"testing"

	"OBVSentinel/internal/model"
)

func TestSQLiteRecorder_RecordAll(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	results := []model.TickerResult{
		{Ticker: "AAA", Status: model.StatusOK, Divergence: model.ScreenedBullish, DivergenceTrend: model.BullishDivergence,
			Checks: []model.Check{{Name: "volume", Passed: true}},
			LastData: &model.AnalyzedCandle{Candle: model.Candle{Timestamp: 100, Close: 12.5, Volume: 900000}}},
		{Ticker: "BBB", Status: model.StatusOK, Divergence: model.NoSignal},
		{Ticker: "CCC", Status: model.StatusError, Message: "no data returned"},
	}
	run := NewRun("cli", "1d", "1h")
	run.Finish(results)
	if run.Tickers != 3 || run.Signals != 1 || run.Errors != 1 {
		t.Fatalf("unexpected tally %+v", run)
	}

	if err := RecordAll(rec, run, results); err != nil {
		t.Fatalf("record: %v", err)
	}

	var signals int
	if err := rec.db.QueryRow(`SELECT signals FROM analysis_runs WHERE id = ?`, run.ID).Scan(&signals); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if signals != 1 {
		t.Errorf("expected 1 signal, got %d", signals)
	}

	var count int
	if err := rec.db.QueryRow(`SELECT COUNT(*) FROM ticker_results WHERE run_id = ?`, run.ID).Scan(&count); err != nil {
		t.Fatalf("query results: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 results, got %d", count)
	}

	var closePrice float64
	var checks string
	if err := rec.db.QueryRow(`SELECT close, checks FROM ticker_results WHERE ticker = 'AAA'`).Scan(&closePrice, &checks); err != nil {
		t.Fatalf("query AAA: %v", err)
	}
	if closePrice != 12.5 || checks != `[{"name":"volume","passed":true,"detail":""}]` {
		t.Errorf("unexpected stored row close=%v checks=%s", closePrice, checks)
	}
}

func TestSQLiteRecorder_RecordRunIsIdempotent(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rec.Close()

	run := NewRun("cron", "1h", "15m")
	if err := rec.RecordRun(run); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	run.Finish(nil)
	if err := rec.RecordRun(run); err != nil {
		t.Fatalf("second insert: %v", err)
	}
	var n int
	rec.db.QueryRow(`SELECT COUNT(*) FROM analysis_runs`).Scan(&n)
	if n != 1 {
		t.Errorf("expected 1 run row, got %d", n)
	}
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	if err := RecordAll(rec, NewRun("api", "1d", "1h"), []model.TickerResult{{Ticker: "X"}}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
