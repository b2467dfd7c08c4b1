package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"OBVSentinel/internal/model"
)

func ptr(v float64) *float64 { return &v }

func sampleSeries() model.OBVSeries {
	return model.OBVSeries{
		{Candle: model.Candle{Timestamp: 100, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000}, DeltaOBV: 0, NetOBV: 0},
		{Candle: model.Candle{Timestamp: 200, Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 1500}, DeltaOBV: 700, NetOBV: 700,
			RSI: ptr(62.5), MFI: ptr(55), ADX: ptr(21.25)},
	}
}

func TestNewSaver(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"csv", "csv"},
		{" JSON ", "json"},
		{"parquet", "parquet"},
	}
	for _, tt := range tests {
		s := NewSaver(tt.format)
		if s == nil || s.Extension() != tt.ext {
			t.Errorf("%q: expected saver with extension %s, got %v", tt.format, tt.ext, s)
		}
	}
	if NewSaver("xlsx") != nil {
		t.Error("expected nil saver for unsupported format")
	}
	if _, err := ForPath("out/report.xlsx"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if s, err := ForPath("out/report.parquet"); err != nil || s.Extension() != "parquet" {
		t.Errorf("expected parquet saver, got %v, %v", s, err)
	}
}

func TestCSVSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bbca.csv")
	if err := (CSVSaver{}).Save(Rows(sampleSeries()), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "timestamp,open,high,low,close,volume,delta_obv,net_obv,rsi,mfi,adx" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "100,10,11,9,10.5,1000,0,0,,," {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if lines[2] != "200,10.5,12,10,11.5,1500,700,700,62.5,55,21.25" {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bbca.json")
	if err := (JSONSaver{}).Save(Rows(sampleSeries()), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(path)
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].RSI != nil || rows[1].RSI == nil || *rows[1].RSI != 62.5 {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestParquetSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bbca.parquet")
	if err := (ParquetSaver{}).Save(Rows(sampleSeries()), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].NetOBV != 700 || rows[1].ADX == nil || *rows[1].ADX != 21.25 {
		t.Errorf("unexpected second row %+v", rows[1])
	}
	if rows[0].MFI != nil {
		t.Errorf("expected missing MFI on first row, got %v", *rows[0].MFI)
	}
}
