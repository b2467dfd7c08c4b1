package export

import (
	"encoding/csv"
	"os"
	"strconv"
)

var csvHeader = []string{"timestamp", "open", "high", "low", "close", "volume", "delta_obv", "net_obv", "rsi", "mfi", "adx"}

// CSVSaver writes rows as CSV with a header line. Missing oscillators are empty cells.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.Timestamp, 10),
			num(r.Open), num(r.High), num(r.Low), num(r.Close), num(r.Volume),
			num(r.DeltaOBV), num(r.NetOBV),
			optional(r.RSI), optional(r.MFI), optional(r.ADX),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}
