package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"OBVSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while scans write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id           TEXT PRIMARY KEY,
			run_trigger  TEXT,
			interval     TEXT,
			sub_interval TEXT,
			tickers      INTEGER,
			signals      INTEGER,
			errors       INTEGER,
			started_at   INTEGER NOT NULL,
			finished_at  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON analysis_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS ticker_results (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			timestamp         INTEGER NOT NULL,
			ticker            TEXT NOT NULL,
			status            TEXT,
			message           TEXT,
			bar_timestamp     INTEGER,
			close             REAL,
			volume            REAL,
			vol_spike_ratio   REAL,
			avg_vol           REAL,
			volatility_ratio  REAL,
			lrs               REAL,
			gap_value         REAL,
			min_close         REAL,
			current_delta_obv REAL,
			current_net_obv   REAL,
			avg_net_obv       REAL,
			strength_net_obv  REAL,
			divergence_trend  TEXT,
			divergence        TEXT,
			checks            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON ticker_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_ticker_ts ON ticker_results(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var finished int64
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.Unix()
	}
	_, err := r.db.Exec(`INSERT OR REPLACE INTO analysis_runs
		(id, run_trigger, interval, sub_interval, tickers, signals, errors, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Trigger, run.Interval, run.SubInterval,
		run.Tickers, run.Signals, run.Errors,
		run.StartedAt.Unix(), finished,
	)
	return err
}

func (r *SQLiteRecorder) RecordResult(runID string, res *model.TickerResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	checks, err := json.Marshal(res.Checks)
	if err != nil {
		return fmt.Errorf("encode checks: %w", err)
	}
	var barTS int64
	var closePrice, volume float64
	if res.LastData != nil {
		barTS, closePrice, volume = res.LastData.Timestamp, res.LastData.Close, res.LastData.Volume
	}

	_, err = r.db.Exec(`INSERT INTO ticker_results
		(run_id, timestamp, ticker, status, message, bar_timestamp, close, volume,
		 vol_spike_ratio, avg_vol, volatility_ratio, lrs, gap_value, min_close,
		 current_delta_obv, current_net_obv, avg_net_obv, strength_net_obv,
		 divergence_trend, divergence, checks)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, time.Now().Unix(), res.Ticker, res.Status, res.Message, barTS, closePrice, volume,
		res.VolSpikeRatio, res.AvgVol, res.VolatilityRatio, res.LRS, res.GapValue, res.MinClose,
		res.CurrentDeltaOBV, res.CurrentNetOBV, res.AvgNetOBV, res.StrengthNetOBV,
		res.DivergenceTrend, res.Divergence, string(checks),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
