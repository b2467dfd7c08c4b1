// Package api exposes the analyzer over HTTP.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"OBVSentinel/internal/analyzer"
	"OBVSentinel/internal/collector"
	"OBVSentinel/internal/recorder"
)

// maxBatch caps the tickers accepted by one POST request.
const maxBatch = 100

// Config wires the server dependencies.
type Config struct {
	Addr         string
	Analyzer     *analyzer.Analyzer
	Fundamentals collector.FundamentalsFetcher // nil disables /api/fundamentals
	Defaults     analyzer.Options
	Recorder     recorder.Recorder
	Metrics      http.Handler
}

// Server is the gin HTTP front end.
type Server struct {
	addr     string
	analyzer *analyzer.Analyzer
	fund     collector.FundamentalsFetcher
	defaults analyzer.Options
	recorder recorder.Recorder
	router   *gin.Engine
}

// NewServer builds the router. Call Start to listen.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, errors.New("api: analyzer is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Recorder == nil {
		cfg.Recorder = recorder.NewNoopRecorder()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:     cfg.Addr,
		analyzer: cfg.Analyzer,
		fund:     cfg.Fundamentals,
		defaults: cfg.Defaults,
		recorder: cfg.Recorder,
		router:   router,
	}
	s.registerRoutes(cfg.Metrics)
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes(metrics http.Handler) {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		s.router.GET("/metrics", gin.WrapH(metrics))
	}

	api := s.router.Group("/api")
	api.GET("/analyze", s.handleAnalyzeOne)
	api.POST("/analyze", s.handleAnalyzeBatch)
	api.GET("/divergence", s.handleDivergenceOne)
	api.POST("/divergence", s.handleDivergenceBatch)
	api.POST("/fundamentals", s.handleFundamentals)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Printf("[INFO] [api] listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		log.Println("[INFO] [api] server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
