package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"polybars/internal/app"
	"polybars/internal/fetch"
	"polybars/internal/model"
	"polybars/internal/prompt"
	"polybars/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

type flags struct {
	configPath  string
	ticker      string
	from        string
	to          string
	timespan    string
	multiplier  int
	format      string
	out         string
	logLevel    string
	noExport    bool
	interactive bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "polybars",
		Short: "Fetch OHLCV aggregate bars from Polygon for one ticker",
		Long: `polybars fetches aggregate bars for one ticker over any date range.
Minute and hour ranges are split into chunks that stay under the 50,000
result cap, requests are paced under the rate limit, and the chunks are
merged into one ordered series. Without --ticker it asks interactively.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "optional yaml config file")
	fl.StringVarP(&f.ticker, "ticker", "t", "", "ticker symbol, e.g. AAPL (omit for interactive mode)")
	fl.StringVar(&f.from, "from", "", "start date YYYY-MM-DD (default: one year before --to)")
	fl.StringVar(&f.to, "to", "", "end date YYYY-MM-DD (default: today)")
	fl.StringVar(&f.timespan, "timespan", string(model.Day), "minute, hour, day, week or month")
	fl.IntVarP(&f.multiplier, "multiplier", "m", 1, "bar size in timespan units, e.g. 5 for 5-minute bars")
	fl.StringVarP(&f.format, "format", "f", "", "export format: csv, parquet or json (default from SAVE_FORMAT)")
	fl.StringVarP(&f.out, "out", "o", "", "output directory (default from DATA_DIR)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default from LOG_LEVEL)")
	fl.BoolVar(&f.noExport, "no-export", false, "do not write the series to a file")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "ask for ticker, dates and timespan")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	a, cleanup, err := InitializeApp(app.Overrides{
		ConfigPath: f.configPath,
		SaveFormat: f.format,
		DataDir:    f.out,
		LogLevel:   f.logLevel,
	})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	opts := app.RunOptions{Out: cmd.OutOrStdout(), NoExport: f.noExport}

	var req fetch.Request
	if f.interactive || f.ticker == "" {
		p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
		if req, err = p.Request(); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		opts.Confirm = p.Confirm
	} else if req, err = requestFromFlags(f, time.Now()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = a.Run(ctx, req, opts)
	if errors.Is(err, context.Canceled) {
		slog.Warn("interrupted, partial result kept")
		return nil
	}
	return err
}

func requestFromFlags(f *flags, now time.Time) (fetch.Request, error) {
	ts, err := model.ParseTimespan(f.timespan)
	if err != nil {
		return fetch.Request{}, err
	}
	g, err := model.NewGranularity(ts, f.multiplier)
	if err != nil {
		return fetch.Request{}, err
	}

	end := model.Date(now)
	if f.to != "" {
		if end, err = model.ParseDate(f.to); err != nil {
			return fetch.Request{}, fmt.Errorf("--to: %w", err)
		}
	}
	start := end.AddDate(0, 0, -365)
	if f.from != "" {
		if start, err = model.ParseDate(f.from); err != nil {
			return fetch.Request{}, fmt.Errorf("--from: %w", err)
		}
	}

	return fetch.Request{
		Ticker:      strings.ToUpper(strings.TrimSpace(f.ticker)),
		Start:       start,
		End:         end,
		Granularity: g,
	}, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("polybars failed", "error", err)
		os.Exit(1)
	}
}
