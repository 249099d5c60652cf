package app

import (
	"log/slog"
	"strings"

	"polybars/internal/fetch"
	"polybars/internal/metrics"
	"polybars/internal/provider"
	"polybars/internal/saver"
	"polybars/internal/slogx"
)

// Overrides are command-line values applied on top of the loaded config.
type Overrides struct {
	ConfigPath string
	SaveFormat string
	DataDir    string
	LogLevel   string
}

// ProvideConfig loads config and applies CLI overrides (for Wire).
func ProvideConfig(o Overrides) (*Config, error) {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.SaveFormat == "" && o.DataDir == "" && o.LogLevel == "" {
		return cfg, nil
	}
	if o.SaveFormat != "" {
		cfg.SaveFormat = strings.ToLower(o.SaveFormat)
	}
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(o.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLogger builds the logger and makes it the slog default (for Wire).
// The cleanup closes the log file, if any.
func ProvideLogger(cfg *Config) (*slog.Logger, func()) {
	logger, closer := slogx.New(cfg.LogLevel, slogx.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 30,
	})
	slog.SetDefault(logger)
	return logger, func() { _ = closer.Close() }
}

// ProvideExporter creates the Exporter for SaveFormat (for Wire).
func ProvideExporter(cfg *Config) (saver.Exporter, error) {
	return saver.NewExporter(cfg.SaveFormat)
}

// ProvidePolygonProvider creates PolygonProvider from config (for Wire).
func ProvidePolygonProvider(cfg *Config, logger *slog.Logger) (*provider.PolygonProvider, func(), error) {
	p, err := provider.NewPolygonProvider(cfg.PolygonOptions(), logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.APIKey == "" {
		logger.Warn("POLYGON_API_KEY not set; requests will be rejected as not authorized")
	}
	return p, func() { _ = p.Close() }, nil
}

// ProvideMetrics creates the Prometheus recorder (for Wire).
func ProvideMetrics() *metrics.Prometheus {
	return metrics.NewPrometheus()
}

// ProvideEngine wires the fetch engine to the provider (for Wire).
func ProvideEngine(cfg *Config, dp provider.DataProvider, rec metrics.Recorder, logger *slog.Logger) *fetch.Engine {
	return fetch.NewEngine(dp, cfg.ChunkPolicy(), cfg.MinDelay(),
		fetch.WithRecorder(rec),
		fetch.WithLogger(logger),
	)
}
