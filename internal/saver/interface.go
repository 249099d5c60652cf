package saver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"polybars/internal/model"
)

// Exporter writes one fetched series to a single file.
// The engine never depends on it; the caller hands over the finished bars.
type Exporter interface {
	Save(bars []model.Bar, path string) error
	Extension() string
}

// Formats lists the accepted export formats.
var Formats = []string{"csv", "parquet", "json"}

// NewExporter returns the implementation for format (csv, parquet, json).
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVExporter{}, nil
	case "parquet":
		return ParquetExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("saver: unsupported format %q (use: %s)", format, strings.Join(Formats, ", "))
	}
}

// FileName is {TICKER}_{timespan}_{start}_to_{end}.{ext}.
func FileName(ticker string, g model.Granularity, r model.DateRange, ext string) string {
	return fmt.Sprintf("%s_%s_%s_to_%s.%s",
		strings.ToUpper(ticker), g.Timespan, r.Start.Format(model.DateLayout), r.End.Format(model.DateLayout), ext)
}

// Export writes bars into dir under FileName and returns the path.
func Export(e Exporter, dir, ticker string, g model.Granularity, r model.DateRange, bars []model.Bar) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	p := filepath.Join(dir, FileName(ticker, g, r, e.Extension()))
	if err := e.Save(bars, p); err != nil {
		return "", fmt.Errorf("save %s: %w", p, err)
	}
	return p, nil
}
