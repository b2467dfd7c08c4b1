package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"OBVSentinel/internal/analyzer"
	"OBVSentinel/internal/model"
	"OBVSentinel/internal/notifier"
	"OBVSentinel/internal/recorder"
)

// Sender delivers formatted messages. Implemented by notifier.TelegramNotifier.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// ScanObserver is told when a scan finishes. Implemented by the metrics package.
type ScanObserver interface {
	ScanCompleted(at time.Time)
}

// Scheduler runs watchlist scans on a cron schedule and on demand.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  *analyzer.Analyzer
	Options   analyzer.Options
	Watchlist []string
	Notifier  Sender // nil disables notifications
	Recorder  recorder.Recorder
	Observer  ScanObserver
	Ctx       context.Context

	// NotifyQuiet sends the report even when no ticker passes the screen.
	NotifyQuiet bool

	mu sync.Mutex // one scan at a time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, opts analyzer.Options, watchlist []string, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  a,
		Options:   opts,
		Watchlist: watchlist,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterScan registers the watchlist scan.
func (s *Scheduler) RegisterScan(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, func() { s.scan("cron", s.Watchlist, true) }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler, waiting for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow scans the watchlist immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() []model.TickerResult {
	return s.scan("manual", s.Watchlist, true)
}

// scan analyzes tickers, records the run and reports signals. When notify
// is false the results are only returned.
func (s *Scheduler) scan(trigger string, tickers []string, notify bool) []model.TickerResult {
	if len(tickers) == 0 {
		log.Printf("[WARN] %s scan skipped: empty ticker list", trigger)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Printf("[INFO] running %s scan of %d tickers", trigger, len(tickers))
	opts := s.Options.Normalize()
	run := recorder.NewRun(trigger, opts.Interval, opts.SubInterval)

	results := s.Analyzer.AnalyzeMany(s.Ctx, tickers, opts)
	run.Finish(results)

	if err := recorder.RecordAll(s.Recorder, run, results); err != nil {
		log.Printf("[ERROR] record scan %s: %v", run.ID, err)
	}
	if s.Observer != nil {
		s.Observer.ScanCompleted(run.FinishedAt)
	}
	log.Printf("[INFO] scan %s finished: %d tickers, %d signals, %d errors in %v",
		run.ID, run.Tickers, run.Signals, run.Errors, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	if notify && (run.Signals > 0 || s.NotifyQuiet) {
		s.trySend(notifier.FormatScanReport(results, run.FinishedAt))
	}
	return results
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Telegram appends the bot name in groups: /scan@obv_bot
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])

	switch cmd {
	case "/scan":
		tickers := s.Watchlist
		if len(fields) > 1 {
			tickers = make([]string, 0, len(fields)-1)
			for _, f := range fields[1:] {
				tickers = append(tickers, strings.ToUpper(f))
			}
		}
		if len(tickers) == 0 {
			return "Watchlist is empty. Usage: /scan TICKER [TICKER...]"
		}
		results := s.scan("telegram", tickers, false)
		if len(fields) > 1 {
			var b strings.Builder
			for _, r := range results {
				b.WriteString(notifier.FormatTicker(r))
				b.WriteString("\n")
			}
			return b.String()
		}
		return notifier.FormatScanReport(results, time.Now())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
