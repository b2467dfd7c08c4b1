package recorder

import (
	"time"

	"github.com/google/uuid"

	"OBVSentinel/internal/model"
)

// Run describes one analysis batch (a scheduled scan, a bot command or an API call).
type Run struct {
	ID          string
	Trigger     string // "cron", "telegram", "api", "cli"
	Interval    string
	SubInterval string
	Tickers     int
	Signals     int
	Errors      int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewRun starts a run record with a fresh id.
func NewRun(trigger, interval, subInterval string) *Run {
	return &Run{
		ID:          uuid.NewString(),
		Trigger:     trigger,
		Interval:    interval,
		SubInterval: subInterval,
		StartedAt:   time.Now(),
	}
}

// Finish tallies results into the run.
func (r *Run) Finish(results []model.TickerResult) {
	r.FinishedAt = time.Now()
	r.Tickers = len(results)
	r.Signals, r.Errors = 0, 0
	for _, res := range results {
		switch {
		case !res.OK():
			r.Errors++
		case res.Signalled():
			r.Signals++
		}
	}
}

// Recorder persists analysis history for auditing. Nothing in the analysis
// path reads it back.
type Recorder interface {
	RecordRun(run *Run) error
	RecordResult(runID string, res *model.TickerResult) error
	Close() error
}

// RecordAll stores the run and each of its results, returning the first error.
func RecordAll(rec Recorder, run *Run, results []model.TickerResult) error {
	if err := rec.RecordRun(run); err != nil {
		return err
	}
	for i := range results {
		if err := rec.RecordResult(run.ID, &results[i]); err != nil {
			return err
		}
	}
	return nil
}
