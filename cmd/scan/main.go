// Command scan analyzes tickers once and prints the reports as a table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"OBVSentinel/internal/analyzer"
	"OBVSentinel/internal/collector"
	"OBVSentinel/internal/export"
	"OBVSentinel/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	tickers := flag.String("tickers", "", "comma separated tickers, e.g. BBCA.JK,TLKM.JK")
	interval := flag.String("interval", "1d", "main interval (1d, 1h, 1wk)")
	sub := flag.String("sub", "", "sub interval (default depends on -interval)")
	rng := flag.String("range", "", "main range (default 3mo, 10d for 1h)")
	backday := flag.Int("backday", 0, "drop the N most recent main bars")
	lookback := flag.Int("lookback", 0, "divergence lookback in bars")
	exportPath := flag.String("export", "", "write the analyzed series of the first ticker to path.{csv,json,parquet}")
	proxy := flag.String("proxy", os.Getenv("HTTPS_PROXY"), "HTTP proxy for Yahoo requests")
	workers := flag.Int("workers", 4, "concurrent tickers")
	flag.Parse()

	list := splitTickers(*tickers)
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scan -tickers BBCA.JK,TLKM.JK [-interval 1d] [-sub 1h] [-backday N] [-export out.csv]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := analyzer.New(collector.NewYahooFetcher(*proxy, 20*time.Second), *workers)
	opts := analyzer.Options{
		Interval:    *interval,
		SubInterval: *sub,
		Range:       *rng,
		Backday:     *backday,
		Lookback:    *lookback,
		NowClamp:    true,
	}

	results := a.AnalyzeMany(ctx, list, opts)
	render(os.Stdout, results)

	if *exportPath != "" {
		if err := exportSeries(ctx, a, list[0], opts, *exportPath); err != nil {
			log.Fatalf("[FATAL] export: %v", err)
		}
		log.Printf("[INFO] exported %s to %s", list[0], *exportPath)
	}
}

func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func exportSeries(ctx context.Context, a *analyzer.Analyzer, ticker string, opts analyzer.Options, path string) error {
	saver, err := export.ForPath(path)
	if err != nil {
		return err
	}
	series, err := a.Series(ctx, ticker, opts)
	if err != nil {
		return fmt.Errorf("series %s: %w", ticker, err)
	}
	return saver.Save(export.Rows(series), path)
}

func render(w io.Writer, results []model.TickerResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Ticker", "Time", "Close", "ΔOBV", "Net OBV", "Z", "Strength", "Vol Spike", "Volatility", "LRS", "Trend", "Screen"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	var signals, failed int
	for _, r := range results {
		if !r.OK() {
			failed++
			t.AppendRow(table.Row{r.Ticker, "", "", "", "", "", "", "", "", "", "error", r.Message})
			continue
		}
		var closePrice float64
		if r.LastData != nil {
			closePrice = r.LastData.Close
		}
		screen := r.Divergence
		if r.Signalled() {
			signals++
			screen = text.FgGreen.Sprint(screen)
		}
		t.AppendRow(table.Row{
			r.Ticker, r.LocalTime,
			fmt.Sprintf("%.2f", closePrice),
			fmt.Sprintf("%.0f", r.CurrentDeltaOBV),
			fmt.Sprintf("%.0f", r.CurrentNetOBV),
			fmt.Sprintf("%.2f", r.AvgNetOBV),
			fmt.Sprintf("%.2f", r.StrengthNetOBV),
			fmt.Sprintf("%.2f", r.VolSpikeRatio),
			fmt.Sprintf("%.2f", r.VolatilityRatio),
			fmt.Sprintf("%.2f", r.LRS),
			r.DivergenceTrend, screen,
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d tickers", len(results)), "", "", "", "", "", "", "", "", "",
		fmt.Sprintf("%d errors", failed), fmt.Sprintf("%d signals", signals)})
	t.Render()
}
