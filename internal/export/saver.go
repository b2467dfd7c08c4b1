package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Saver writes rows to a file in one format.
type Saver interface {
	Save(rows []Row, path string) error
	Extension() string
}

// NewSaver returns the implementation for format (csv, parquet, json), or
// nil when the format is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// ForPath picks the saver from the file extension.
func ForPath(path string) (Saver, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	s := NewSaver(ext)
	if s == nil {
		return nil, fmt.Errorf("unsupported export format %q (use csv, parquet, json)", ext)
	}
	return s, nil
}
