package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"OBVSentinel/internal/analyzer"
)

// batchRequest is the POST body. Option fields override the server defaults.
type batchRequest struct {
	Tickers []string `json:"tickers"`
	analyzer.Options
}

// options merges the request overrides into the defaults.
func (s *Server) options(o analyzer.Options) analyzer.Options {
	d := s.defaults
	if o.Interval != "" && !strings.EqualFold(o.Interval, d.Interval) {
		// sub interval, ranges, period and offset follow the new main interval unless given
		d.Interval = o.Interval
		d.SubInterval, d.Range, d.SubRange, d.Period = "", "", "", 0
		d.Offset = nil
	}
	if o.Offset != nil {
		d.Offset = o.Offset
	}
	if o.SubInterval != "" {
		d.SubInterval = o.SubInterval
	}
	if o.Range != "" {
		d.Range = o.Range
	}
	if o.SubRange != "" {
		d.SubRange = o.SubRange
	}
	if o.Backday > 0 {
		d.Backday = o.Backday
	}
	if o.Period > 0 {
		d.Period = o.Period
	}
	if o.Lookback > 0 {
		d.Lookback = o.Lookback
	}
	if o.Now > 0 {
		d.Now = o.Now
	}
	return d
}

// queryOptions reads analysis overrides from the query string.
func queryOptions(c *gin.Context) (analyzer.Options, error) {
	o := analyzer.Options{
		Interval:    c.Query("interval"),
		SubInterval: firstNonEmpty(c.Query("subInterval"), c.Query("sub")),
		Range:       c.Query("range"),
		SubRange:    c.Query("subRange"),
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"backday", &o.Backday},
		{"period", &o.Period},
		{"lookback", &o.Lookback},
	}
	for _, f := range ints {
		v := c.Query(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return o, fmt.Errorf("invalid %s %q", f.name, v)
		}
		*f.dst = n
	}
	return o, nil
}

// cleanTickers trims, upper-cases and de-duplicates tickers, keeping order.
func cleanTickers(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
