package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"polybars/internal/fetch"
	"polybars/internal/metrics"
	"polybars/internal/model"
	"polybars/internal/provider"
	"polybars/internal/saver"
)

// ErrAllFailed is returned when every chunk of a fetch failed.
var ErrAllFailed = errors.New("every chunk failed")

// App holds application dependencies built by Wire.
type App struct {
	Config   *Config
	Logger   *slog.Logger
	DP       provider.DataProvider
	Engine   *fetch.Engine
	Exporter saver.Exporter
	Metrics  *metrics.Prometheus
}

// RunOptions controls what happens around one fetch.
type RunOptions struct {
	Out      io.Writer // user-facing summary; nil discards it
	NoExport bool
	// Confirm, when set, is asked before exporting; a "no" skips the export.
	Confirm func(question string) (bool, error)
}

// Run fetches req, prints the chunk table, writes the report and exports the series.
// A partial result is not an error. Cancellation returns ctx's error after the
// partial result has been reported and exported.
func (a *App) Run(ctx context.Context, req fetch.Request, opts RunOptions) (*fetch.Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := a.Logger

	log.Info("using data provider", "provider", a.DP.GetName())
	fmt.Fprintf(out, "\nFetching %s data for %s from %s to %s...\n",
		req.Granularity, req.Ticker, req.Start.Format(model.DateLayout), req.End.Format(model.DateLayout))

	res, fetchErr := a.Engine.Fetch(ctx, req)
	if fetchErr != nil {
		log.Warn("fetch interrupted, keeping partial result", "error", fetchErr)
	}

	if len(res.Chunks) > 1 || res.Series.Empty() {
		fetch.RenderReport(out, res)
	}
	if res.Series.Empty() {
		fmt.Fprintln(out, "No data retrieved. Check your API key, ticker symbol, and date range.")
	} else {
		fmt.Fprintf(out, "Retrieved %d data points.\n", res.Series.Len())
	}
	if s := fetch.SummarizeFailures(res); s != "" {
		fmt.Fprintf(out, "Failed sub-ranges: %s\n", s)
		seen := make(map[model.FailureKind]bool)
		for _, f := range res.Failed() {
			if k := f.Failure.Kind; !seen[k] {
				seen[k] = true
				fmt.Fprintf(out, "  %s: %s\n", k, k.Hint())
			}
		}
	}

	if _, err := fetch.WriteReport(a.Config.DataDir, res); err != nil {
		log.Error("failed to write report", "error", err)
	}

	if err := a.export(res, opts, out); err != nil {
		log.Error("export failed", "error", err)
	}

	if a.Config.MetricsFile != "" && a.Metrics != nil {
		if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
			log.Error("failed to write metrics", "path", a.Config.MetricsFile, "error", err)
		}
	}

	if fetchErr != nil {
		return res, fetchErr
	}
	if res.AllFailed() {
		return res, fmt.Errorf("fetch %s %s: %w", res.Ticker, res.Range, ErrAllFailed)
	}
	return res, nil
}

func (a *App) export(res *fetch.Result, opts RunOptions, out io.Writer) error {
	if opts.NoExport || res.Series.Empty() || a.Exporter == nil {
		return nil
	}
	if opts.Confirm != nil {
		ok, err := opts.Confirm(fmt.Sprintf("Save data as %s?", a.Exporter.Extension()))
		if err != nil || !ok {
			return err
		}
	}
	p, err := saver.Export(a.Exporter, a.Config.DataDir, res.Ticker, res.Granularity, res.Range, res.Series.Bars())
	if err != nil {
		return err
	}
	a.Logger.Info("saved", "path", p, "bars", res.Series.Len(), "format", a.Exporter.Extension())
	fmt.Fprintf(out, "Data saved as %s\n", p)
	return nil
}
