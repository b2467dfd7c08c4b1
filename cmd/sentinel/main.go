package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"OBVSentinel/internal/analyzer"
	"OBVSentinel/internal/api"
	"OBVSentinel/internal/collector"
	"OBVSentinel/internal/config"
	"OBVSentinel/internal/metrics"
	"OBVSentinel/internal/notifier"
	"OBVSentinel/internal/recorder"
	"OBVSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] OBVSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	m := metrics.New()

	// Init fetcher
	fetcher := newFetcher(cfg)
	if cfg.Redis.Addr != "" {
		client, err := collector.NewRedisClient(collector.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Printf("[WARN] redis unavailable, caching disabled: %v", err)
		} else {
			defer client.Close()
			cached := collector.NewCachedFetcher(fetcher, client, cfg.Redis.TTL)
			cached.Observer = m
			fetcher = cached
		}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init analyzer
	a := analyzer.New(fetcher, cfg.Workers)
	a.Observer = m
	a.Rules.MinVolume = cfg.Analysis.MinVolume
	opts := analysisOptions(cfg)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, a, opts, cfg.Watchlist, rec)
	sched.Observer = m
	if err := sched.RegisterScan(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched.Notifier = tn
	} else {
		log.Println("[WARN] telegram not configured, notifications disabled")
	}

	// Init API server
	var fund collector.FundamentalsFetcher
	if ff, ok := fetcher.(collector.FundamentalsFetcher); ok {
		fund = ff
	}
	srv, err := api.NewServer(api.Config{
		Addr:         cfg.Server.Addr,
		Analyzer:     a,
		Fundamentals: fund,
		Defaults:     opts,
		Recorder:     rec,
		Metrics:      m.Handler(),
	})
	if err != nil {
		log.Fatalf("[FATAL] init api server: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	if tn != nil {
		g.Go(func() error {
			tn.StartPolling(gctx, sched.HandleCommand)
			return nil
		})
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, scanning watchlist now")
		go sched.RunNow()
	}

	log.Println("[INFO] OBVSentinel is running. Press Ctrl+C to stop.")

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] %v", err)
	}
	log.Println("[INFO] OBVSentinel stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	case "mock":
		return &collector.MockFetcher{}
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
		for k, v := range cfg.DataSource.SymbolMap {
			yf.SymbolMap[k] = v
		}
		yf.QuarterHourOnly = cfg.DataSource.QuarterHourOnly
		return yf
	}
}

func analysisOptions(cfg *config.Config) analyzer.Options {
	return analyzer.Options{
		Interval:    cfg.Analysis.Interval,
		SubInterval: cfg.Analysis.SubInterval,
		Range:       cfg.DataSource.Range,
		SubRange:    cfg.DataSource.SubRange,
		Period:      cfg.Analysis.Period,
		Offset:      cfg.Analysis.Offset,
		UTCOffset:   analyzer.Int64Opt(cfg.UTCOffset()),
		Lookback:    cfg.Analysis.Lookback,
		NowClamp:    cfg.Analysis.NowClamp,
	}
}
