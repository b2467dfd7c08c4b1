package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"OBVSentinel/internal/model"
)

// FormatScanReport formats a watchlist scan into a Telegram message. Tickers
// passing the divergence screen are listed first with their key metrics;
// the rest are summarized on one line each.
func FormatScanReport(results []model.TickerResult, at time.Time) string {
	var b strings.Builder

	var signals, quiet, failed []model.TickerResult
	for _, r := range results {
		switch {
		case !r.OK():
			failed = append(failed, r)
		case r.Signalled():
			signals = append(signals, r)
		default:
			quiet = append(quiet, r)
		}
	}

	b.WriteString(fmt.Sprintf("📊 <b>OBVSentinel scan</b> | %s\n", at.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d tickers, %d signals, %d errors\n", len(results), len(signals), len(failed)))

	if len(signals) > 0 {
		b.WriteString("\n🟢 <b>Bullish Divergence:</b>\n")
		for _, r := range signals {
			b.WriteString(FormatTicker(r))
			b.WriteString("\n")
		}
	}

	if len(quiet) > 0 {
		b.WriteString("\n<b>Other:</b>\n")
		for _, r := range quiet {
			b.WriteString(fmt.Sprintf("  %s: %s | ΔOBV %.0f\n",
				html.EscapeString(r.Ticker), html.EscapeString(r.DivergenceTrend), r.CurrentDeltaOBV))
		}
	}

	if len(failed) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, r := range failed {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(r.Ticker), html.EscapeString(r.Message)))
		}
	}

	return b.String()
}

// FormatTicker formats the detailed metrics of one result.
func FormatTicker(r model.TickerResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b> (%s/%s)", html.EscapeString(r.Ticker), r.Interval, r.SubInterval))
	if r.LocalTime != "" {
		b.WriteString(" " + html.EscapeString(r.LocalTime))
	}
	b.WriteString("\n")
	if !r.OK() {
		b.WriteString("  error: " + html.EscapeString(r.Message) + "\n")
		return b.String()
	}
	if r.LastData != nil {
		b.WriteString(fmt.Sprintf("  close %.2f | vol %.0f\n", r.LastData.Close, r.LastData.Volume))
	}
	b.WriteString(fmt.Sprintf("  ΔOBV %.0f | netOBV %.0f | z %.2f | strength %.2f\n",
		r.CurrentDeltaOBV, r.CurrentNetOBV, r.AvgNetOBV, r.StrengthNetOBV))
	b.WriteString(fmt.Sprintf("  volSpike %.2f | avgVol %.2f | volatility %.2f | LRS %.2f | gap %.4f\n",
		r.VolSpikeRatio, r.AvgVol, r.VolatilityRatio, r.LRS, r.GapValue))
	b.WriteString(fmt.Sprintf("  trend: %s | screen: %s\n",
		html.EscapeString(r.DivergenceTrend), html.EscapeString(r.Divergence)))
	for _, c := range r.Checks {
		mark := "✗"
		if c.Passed {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("    %s %s %s\n", mark, c.Name, html.EscapeString(c.Detail)))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /scan - scan the watchlist\n" +
		"• /scan TICKER [TICKER...] - analyze the given tickers\n" +
		"• /help - show this message"
}
