// Package export writes analyzed OBV series to csv, json or parquet files.
package export

import "OBVSentinel/internal/model"

// Row is the flat record written for each analyzed bar.
type Row struct {
	Timestamp int64    `json:"timestamp" parquet:"timestamp"`
	Open      float64  `json:"open" parquet:"open"`
	High      float64  `json:"high" parquet:"high"`
	Low       float64  `json:"low" parquet:"low"`
	Close     float64  `json:"close" parquet:"close"`
	Volume    float64  `json:"volume" parquet:"volume"`
	DeltaOBV  float64  `json:"deltaOBV" parquet:"delta_obv"`
	NetOBV    float64  `json:"netOBV" parquet:"net_obv"`
	RSI       *float64 `json:"rsi" parquet:"rsi,optional"`
	MFI       *float64 `json:"mfi" parquet:"mfi,optional"`
	ADX       *float64 `json:"adx" parquet:"adx,optional"`
}

// Rows flattens a series.
func Rows(series model.OBVSeries) []Row {
	rows := make([]Row, len(series))
	for i, s := range series {
		rows[i] = Row{
			Timestamp: s.Timestamp,
			Open:      s.Open,
			High:      s.High,
			Low:       s.Low,
			Close:     s.Close,
			Volume:    s.Volume,
			DeltaOBV:  s.DeltaOBV,
			NetOBV:    s.NetOBV,
			RSI:       s.RSI,
			MFI:       s.MFI,
			ADX:       s.ADX,
		}
	}
	return rows
}
