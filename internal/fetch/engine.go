package fetch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"polybars/internal/metrics"
	"polybars/internal/model"
)

// RangeFetcher performs one bounded request for one chunk.
// Errors should be *model.FetchFailure; anything else is reported as unknown.
type RangeFetcher interface {
	FetchRange(ctx context.Context, ticker string, chunk model.Chunk) ([]model.Bar, error)
}

// Status is the outcome of one chunk.
type Status string

const (
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped" // never attempted because the fetch was cancelled
)

// ChunkOutcome reports what happened to one chunk.
type ChunkOutcome struct {
	Chunk    model.Chunk
	Status   Status
	Bars     int // bars merged into the series
	Dropped  int // bars rejected by the series ordering check
	Failure  *model.FetchFailure
	Duration time.Duration
}

// Request describes one fetch. Start after End is accepted and swapped.
type Request struct {
	Ticker      string
	Start       time.Time
	End         time.Time
	Granularity model.Granularity
}

// Result is the merged series plus a per-chunk report.
type Result struct {
	RunID       string
	Ticker      string
	Range       model.DateRange
	Swapped     bool
	Granularity model.Granularity
	Series      *model.Series
	Chunks      []ChunkOutcome
}

// Counts tallies chunk outcomes by status.
func (r *Result) Counts() (ok, empty, failed, skipped int) {
	for _, c := range r.Chunks {
		switch c.Status {
		case StatusOK:
			ok++
		case StatusEmpty:
			empty++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return
}

// Failed returns the chunks that failed.
func (r *Result) Failed() []ChunkOutcome {
	var out []ChunkOutcome
	for _, c := range r.Chunks {
		if c.Status == StatusFailed {
			out = append(out, c)
		}
	}
	return out
}

// Complete reports whether every planned chunk was fetched, with or without data.
func (r *Result) Complete() bool {
	_, _, failed, skipped := r.Counts()
	return failed == 0 && skipped == 0
}

// AllFailed reports whether no chunk was fetched successfully.
// It separates a total failure from a range with no trading activity, which both leave the series empty.
func (r *Result) AllFailed() bool {
	ok, empty, _, _ := r.Counts()
	return len(r.Chunks) > 0 && ok == 0 && empty == 0
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimiter shares one limiter across every Fetch, for concurrent fetches on one credential.
func WithLimiter(l RateLimiter) Option {
	return func(e *Engine) { e.newLimiter = func() RateLimiter { return l } }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine fetches an arbitrary date range as a sequence of paced chunk requests.
type Engine struct {
	fetcher    RangeFetcher
	policy     ChunkPolicy
	newLimiter func() RateLimiter
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewEngine creates an engine. Unless WithLimiter is given, each Fetch gets its own limiter with minimum delay d.
func NewEngine(f RangeFetcher, policy ChunkPolicy, d time.Duration, opts ...Option) *Engine {
	e := &Engine{
		fetcher:    f,
		policy:     policy,
		newLimiter: func() RateLimiter { return NewLimiter(d) },
		recorder:   metrics.Nop{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fetch plans req into chunks, fetches them one by one and merges the results.
// A failed chunk is logged and reported in the Result, never retried, and never aborts the fetch.
// The only error returned is ctx's, together with the partial Result.
func (e *Engine) Fetch(ctx context.Context, req Request) (*Result, error) {
	r, swapped := model.NewDateRange(req.Start, req.End)
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	log := e.logger.With("ticker", ticker, "granularity", req.Granularity.String())
	if swapped {
		log.Warn("start date after end date, swapping", "range", r.String())
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Ticker:      ticker,
		Range:       r,
		Swapped:     swapped,
		Granularity: req.Granularity,
		Series:      model.NewSeries(model.EstimatedBars(r, req.Granularity)),
	}

	chunks := e.policy.Plan(r, req.Granularity)
	if len(chunks) == 0 {
		log.Warn("no chunks in date range", "range", r.String())
		return res, nil
	}
	res.Chunks = make([]ChunkOutcome, 0, len(chunks))
	log.Info("split into chunks", "range", r.String(), "chunks", len(chunks), "run_id", res.RunID)

	limiter := e.newLimiter()
	for i, ch := range chunks {
		if err := ctx.Err(); err != nil {
			res.skip(chunks[i:])
			log.Warn("fetch cancelled", "done", i, "total", len(chunks))
			return res, err
		}

		if i == 0 {
			if err := limiter.Mark(ctx); err != nil {
				res.skip(chunks)
				log.Warn("fetch cancelled waiting for shared limiter", "total", len(chunks))
				if ctxErr := ctx.Err(); ctxErr != nil {
					return res, ctxErr
				}
				return res, err
			}
		} else {
			start := time.Now()
			log.Debug("rate limit cooldown", "chunk", i+1, "total", len(chunks))
			if err := limiter.Wait(ctx); err != nil {
				res.skip(chunks[i:])
				log.Warn("fetch cancelled during cooldown", "done", i, "total", len(chunks))
				if ctxErr := ctx.Err(); ctxErr != nil {
					return res, ctxErr
				}
				return res, err
			}
			waited := time.Since(start)
			e.recorder.ObserveWait(waited)
			log.Debug("rate limit cooldown done", "chunk", i+1, "waited", waited)
		}

		res.Chunks = append(res.Chunks, e.fetchChunk(ctx, log, ticker, ch, len(chunks), res.Series))
	}

	ok, empty, failed, _ := res.Counts()
	log.Info("fetch done", "bars", res.Series.Len(), "ok", ok, "empty", empty, "failed", failed)
	return res, nil
}

func (e *Engine) fetchChunk(ctx context.Context, log *slog.Logger, ticker string, ch model.Chunk, total int, series *model.Series) ChunkOutcome {
	log = log.With("chunk", ch.Index+1, "total", total, "range", ch.Range.String())
	log.Info("fetching chunk")

	start := time.Now()
	bars, err := e.fetcher.FetchRange(ctx, ticker, ch)
	out := ChunkOutcome{Chunk: ch, Duration: time.Since(start)}

	switch {
	case err != nil:
		out.Status = StatusFailed
		out.Failure = asFailure(err, ticker, ch)
		e.recorder.ObserveFailure(out.Failure.Kind)
		log.Error("chunk failed", "kind", out.Failure.Kind, "hint", out.Failure.Kind.Hint(), "error", out.Failure.Err)
	case len(bars) == 0:
		out.Status = StatusEmpty
		log.Info("no data returned for chunk")
	default:
		out.Status = StatusOK
		out.Dropped = series.Append(bars...)
		out.Bars = len(bars) - out.Dropped
		if out.Dropped > 0 {
			log.Warn("dropped out-of-order bars", "dropped", out.Dropped)
		}
		log.Info("retrieved records", "bars", out.Bars)
	}
	e.recorder.ObserveChunk(ch.Granularity, string(out.Status), out.Bars, out.Duration)
	return out
}

func (r *Result) skip(chunks []model.Chunk) {
	for _, ch := range chunks {
		r.Chunks = append(r.Chunks, ChunkOutcome{Chunk: ch, Status: StatusSkipped})
	}
}

func asFailure(err error, ticker string, ch model.Chunk) *model.FetchFailure {
	var f *model.FetchFailure
	if errors.As(err, &f) {
		return f
	}
	return &model.FetchFailure{Kind: model.Unknown, Ticker: ticker, Chunk: ch, Err: err}
}
