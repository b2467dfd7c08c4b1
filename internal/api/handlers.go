package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"OBVSentinel/internal/analyzer"
	"OBVSentinel/internal/divergence"
	"OBVSentinel/internal/model"
	"OBVSentinel/internal/recorder"
)

// divergenceResult is one ticker of the divergence endpoints.
type divergenceResult struct {
	Ticker   string          `json:"ticker"`
	Status   string          `json:"status"`
	Message  string          `json:"message,omitempty"`
	Signal   string          `json:"signal,omitempty"`
	ATR      float64         `json:"atr,omitempty"`
	Lows     []model.Pivot   `json:"lows,omitempty"`
	Highs    []model.Pivot   `json:"highs,omitempty"`
	Lookback int             `json:"lookback,omitempty"`
	Series   model.OBVSeries `json:"series,omitempty"`
}

func (s *Server) handleAnalyzeOne(c *gin.Context) {
	ticker, ok := queryTicker(c)
	if !ok {
		return
	}
	o, err := queryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results := s.analyze(c.Request.Context(), []string{ticker}, s.options(o))
	c.JSON(http.StatusOK, results[0])
}

func (s *Server) handleAnalyzeBatch(c *gin.Context) {
	req, ok := s.bindBatch(c)
	if !ok {
		return
	}
	results := s.analyze(c.Request.Context(), req.Tickers, s.options(req.Options))
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// analyze runs the batch and records it as an api run.
func (s *Server) analyze(ctx context.Context, tickers []string, o analyzer.Options) []model.TickerResult {
	o = o.Normalize()
	run := recorder.NewRun("api", o.Interval, o.SubInterval)
	results := s.analyzer.AnalyzeMany(ctx, tickers, o)
	run.Finish(results)
	if err := recorder.RecordAll(s.recorder, run, results); err != nil {
		log.Printf("[ERROR] [api] record run %s: %v", run.ID, err)
	}
	return results
}

func (s *Server) handleDivergenceOne(c *gin.Context) {
	ticker, ok := queryTicker(c)
	if !ok {
		return
	}
	o, err := queryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.divergence(c.Request.Context(), ticker, s.options(o)))
}

func (s *Server) handleDivergenceBatch(c *gin.Context) {
	req, ok := s.bindBatch(c)
	if !ok {
		return
	}
	o := s.options(req.Options)
	results := make([]divergenceResult, len(req.Tickers))
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(s.analyzer.Workers)
	for i, t := range req.Tickers {
		i, t := i, t
		g.Go(func() error {
			results[i] = s.divergence(gctx, t, o)
			return nil
		})
	}
	g.Wait()
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// divergence returns the analyzed series with the divergence pivots of its
// trailing lookback window.
func (s *Server) divergence(ctx context.Context, ticker string, o analyzer.Options) divergenceResult {
	o = o.Normalize()
	series, err := s.analyzer.Series(ctx, ticker, o)
	if err != nil {
		return divergenceResult{Ticker: ticker, Status: model.StatusError, Message: err.Error()}
	}
	report := s.inspect(series, o.Lookback)
	return divergenceResult{
		Ticker:   ticker,
		Status:   model.StatusOK,
		Signal:   report.Signal,
		ATR:      report.ATR,
		Lows:     report.Lows,
		Highs:    report.Highs,
		Lookback: o.Lookback,
		Series:   series,
	}
}

// inspect never panics; failures surface as an "ERROR: ..." signal.
func (s *Server) inspect(series model.OBVSeries, lookback int) (r divergence.Report) {
	defer func() {
		if p := recover(); p != nil {
			r = divergence.Report{Signal: fmt.Sprintf("ERROR: %v", p)}
		}
	}()
	return s.analyzer.Detector.Inspect(series.Candles(), series.RSIs(), lookback)
}

func (s *Server) handleFundamentals(c *gin.Context) {
	if s.fund == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "fundamentals are not available for this data source"})
		return
	}
	req, ok := s.bindBatch(c)
	if !ok {
		return
	}
	results := make([]*model.Fundamentals, len(req.Tickers))
	g, gctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(s.analyzer.Workers)
	for i, t := range req.Tickers {
		i, t := i, t
		g.Go(func() error {
			f, err := s.fund.FetchFundamentals(gctx, t)
			if err != nil {
				log.Printf("[WARN] [api] fundamentals %s: %v", t, err)
				f = &model.Fundamentals{Status: model.StatusError, Ticker: t, Note: err.Error()}
			}
			results[i] = f
			return nil
		})
	}
	g.Wait()
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// queryTicker reads the cleaned ticker query parameter, answering 400 when it is blank.
func queryTicker(c *gin.Context) (string, bool) {
	tickers := cleanTickers([]string{c.Query("ticker")})
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return "", false
	}
	return tickers[0], true
}

func (s *Server) bindBatch(c *gin.Context) (batchRequest, bool) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	req.Tickers = cleanTickers(req.Tickers)
	if len(req.Tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tickers must be a non-empty array"})
		return req, false
	}
	if len(req.Tickers) > maxBatch {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d tickers per request", maxBatch)})
		return req, false
	}
	return req, true
}
