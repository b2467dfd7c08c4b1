// Package analyzer runs the per-ticker pipeline: fetch, synchronize OBV,
// decorate with oscillators, and report.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"OBVSentinel/internal/calculator"
	"OBVSentinel/internal/collector"
	"OBVSentinel/internal/divergence"
	"OBVSentinel/internal/model"
	"OBVSentinel/internal/obv"
	"OBVSentinel/internal/strategy"
	"OBVSentinel/internal/timeframe"
)

// Observer receives run statistics. Implemented by the metrics package.
type Observer interface {
	ObserveAnalysis(status string, elapsed time.Duration)
	ObserveSignal(label string)
	FetchError(source string)
}

// Analyzer orchestrates data fetching and indicator computation.
type Analyzer struct {
	Fetcher  collector.Fetcher
	Detector *divergence.Detector
	Rules    strategy.Rules
	Workers  int
	Observer Observer
	Clock    func() time.Time
}

// New creates an Analyzer with the default divergence tuning and screen rules.
func New(fetcher collector.Fetcher, workers int) *Analyzer {
	if workers <= 0 {
		workers = 4
	}
	return &Analyzer{
		Fetcher:  fetcher,
		Detector: divergence.NewDetector(divergence.DefaultParams()),
		Rules:    strategy.DefaultRules(),
		Workers:  workers,
		Clock:    time.Now,
	}
}

// Series fetches main and sub candles concurrently and returns the
// synchronized, oscillator-decorated series.
func (a *Analyzer) Series(ctx context.Context, ticker string, opts Options) (model.OBVSeries, error) {
	o := a.resolve(opts)

	var mains, subs []model.Candle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bars, err := a.Fetcher.FetchCandles(gctx, ticker, o.Interval, o.Range)
		if err != nil {
			return fmt.Errorf("fetch main %s: %w", o.Interval, err)
		}
		mains = bars
		return nil
	})
	g.Go(func() error {
		bars, err := a.Fetcher.FetchCandles(gctx, ticker, o.SubInterval, o.SubRange)
		if err != nil {
			return fmt.Errorf("fetch sub %s: %w", o.SubInterval, err)
		}
		subs = bars
		return nil
	})
	if err := g.Wait(); err != nil {
		if a.Observer != nil {
			a.Observer.FetchError(a.Fetcher.Name())
		}
		return nil, err
	}

	mains = validOnly(mains)
	if o.Backday > 0 && len(mains) > o.Backday {
		mains = mains[:len(mains)-o.Backday]
	}
	if len(mains) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, collector.ErrNoData)
	}

	aligner := timeframe.NewAligner(o.Interval, o.ExchangeOffset())
	aligner.Now = o.Now
	series := obv.Synchronize(mains, validOnly(subs), aligner)
	return calculator.Decorate(series, o.OscPeriod), nil
}

// Analyze never fails: errors are reported in the result status.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, opts Options) model.TickerResult {
	start := time.Now()
	o := a.resolve(opts)

	res := a.analyze(ctx, ticker, o)
	if !res.OK() {
		log.Printf("[WARN] analyze %s: %s", ticker, res.Message)
	}
	if a.Observer != nil {
		a.Observer.ObserveAnalysis(res.Status, time.Since(start))
		if res.OK() {
			a.Observer.ObserveSignal(res.DivergenceTrend)
		}
	}
	return res
}

func (a *Analyzer) analyze(ctx context.Context, ticker string, o Options) model.TickerResult {
	if ticker == "" {
		return errorResult(ticker, "no ticker")
	}
	series, err := a.Series(ctx, ticker, o)
	if err != nil {
		return errorResult(ticker, err.Error())
	}
	if len(series) < 2 {
		return errorResult(ticker, fmt.Sprintf("not enough data: %d bars", len(series)))
	}
	return buildReport(ticker, series, o, a.Detector, a.Rules)
}

// AnalyzeMany analyzes tickers concurrently, bounded by Workers. Results
// keep the input order.
func (a *Analyzer) AnalyzeMany(ctx context.Context, tickers []string, opts Options) []model.TickerResult {
	results := make([]model.TickerResult, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)
	for i, t := range tickers {
		i, t := i, t
		g.Go(func() error {
			results[i] = a.Analyze(gctx, t, opts)
			return nil
		})
	}
	g.Wait()
	return results
}

func (a *Analyzer) resolve(opts Options) Options {
	o := opts.Normalize()
	if o.NowClamp && o.Now == 0 && a.Clock != nil {
		o.Now = a.Clock().Unix()
	}
	return o
}

func validOnly(bars []model.Candle) []model.Candle {
	out := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			out = append(out, b)
		}
	}
	return out
}

func errorResult(ticker, msg string) model.TickerResult {
	return model.TickerResult{Ticker: ticker, Status: model.StatusError, Message: msg}
}
