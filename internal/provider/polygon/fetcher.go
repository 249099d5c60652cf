package polygon

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"polybars/internal/model"
)

// FetcherConfig holds request knobs shared by every chunk.
type FetcherConfig struct {
	Limit    int
	Adjusted bool
	Location *time.Location // market timezone used to turn dates into instants
}

// Fetcher issues exactly one aggregates query per chunk.
type Fetcher struct {
	client   AggsClient
	limit    int
	adjusted bool
	loc      *time.Location
	logger   *slog.Logger
}

// NewFetcher wraps client. Nil Location means UTC.
func NewFetcher(client AggsClient, cfg FetcherConfig, logger *slog.Logger) *Fetcher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   client,
		limit:    limitOrMax(cfg.Limit),
		adjusted: cfg.Adjusted,
		loc:      cfg.Location,
		logger:   logger,
	}
}

// FetchRange returns the bars of ch in ascending order, or a *model.FetchFailure.
// No data is an empty slice with a nil error.
func (f *Fetcher) FetchRange(ctx context.Context, ticker string, ch model.Chunk) ([]model.Bar, error) {
	ticker = strings.ToUpper(ticker)
	from, to := ch.Range.Bounds(f.loc)

	raws, err := f.client.ListAggs(ctx, AggsQuery{
		Ticker:     ticker,
		Multiplier: ch.Granularity.Multiplier,
		Timespan:   ch.Granularity.Timespan,
		From:       from,
		To:         to,
		Limit:      f.limit,
		Adjusted:   f.adjusted,
	})
	if err != nil {
		return nil, &model.FetchFailure{Kind: Classify(err), Ticker: ticker, Chunk: ch, Err: err}
	}
	if len(raws) >= f.limit {
		f.logger.Warn("result cap reached, sub-range may be truncated",
			"ticker", ticker, "range", ch.Range.String(), "limit", f.limit)
	}

	bars := make([]model.Bar, 0, len(raws))
	invalid := 0
	for _, raw := range raws {
		b := raw.ToBar()
		if err := b.Validate(); err != nil {
			invalid++
			f.logger.Debug("invalid bar dropped", "ticker", ticker, "t", raw.Timestamp, "err", err)
			continue
		}
		bars = append(bars, b)
	}
	if invalid > 0 {
		f.logger.Warn("invalid bars dropped", "ticker", ticker, "range", ch.Range.String(), "count", invalid)
	}
	return bars, nil
}
