package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polybars/internal/fetch"
	"polybars/internal/metrics"
	"polybars/internal/model"
	"polybars/internal/saver"
)

type stubProvider struct {
	bars map[int][]model.Bar
	errs map[int]error
}

func (p *stubProvider) GetName() string { return "stub" }
func (p *stubProvider) Close() error    { return nil }

func (p *stubProvider) FetchRange(ctx context.Context, ticker string, ch model.Chunk) ([]model.Bar, error) {
	if err := p.errs[ch.Index]; err != nil {
		return nil, err
	}
	return p.bars[ch.Index], nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestApp(t *testing.T, dp *stubProvider) *App {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewPrometheus()
	cfg := &Config{
		DataDir:         dir,
		SaveFormat:      "csv",
		MinuteChunkDays: 7,
		HourChunkDays:   30,
		MetricsFile:     filepath.Join(dir, "polybars.prom"),
	}
	return &App{
		Config:   cfg,
		Logger:   logger,
		DP:       dp,
		Engine:   fetch.NewEngine(dp, cfg.ChunkPolicy(), 0, fetch.WithRecorder(rec), fetch.WithLogger(logger)),
		Exporter: saver.CSVExporter{},
		Metrics:  rec,
	}
}

func minuteReq(t *testing.T) fetch.Request {
	return fetch.Request{
		Ticker:      "AAPL",
		Start:       mustDate(t, "2024-01-01"),
		End:         mustDate(t, "2024-01-20"),
		Granularity: model.Granularity{Timespan: model.Minute, Multiplier: 1},
	}
}

func bar(ts int64) model.Bar {
	return model.NewBar(ts, 10, 11, 9, 10.5, 100, nil, nil)
}

func TestRun_PartialResultExportsAndReports(t *testing.T) {
	dp := &stubProvider{
		bars: map[int][]model.Bar{1: {bar(1704700800000), bar(1704700860000)}},
		errs: map[int]error{0: &model.FetchFailure{Kind: model.Unauthorized, Err: errors.New("NOT_AUTHORIZED")}},
	}
	a := newTestApp(t, dp)
	var out bytes.Buffer

	res, err := a.Run(context.Background(), minuteReq(t), RunOptions{Out: &out})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Series.Len())
	assert.Contains(t, out.String(), "Retrieved 2 data points.")
	assert.Contains(t, out.String(), "2024-01-01..2024-01-07: unauthorized")
	assert.Contains(t, out.String(), model.Unauthorized.Hint())

	assert.FileExists(t, filepath.Join(a.Config.DataDir, "AAPL_minute_2024-01-01_to_2024-01-20.csv"))
	assert.FileExists(t, filepath.Join(a.Config.DataDir, fetch.ReportFileName))

	prom, err := os.ReadFile(a.Config.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "polybars_chunk_failures_total")
}

func TestRun_AllFailed(t *testing.T) {
	fail := &model.FetchFailure{Kind: model.Transient, Err: errors.New("timeout")}
	dp := &stubProvider{errs: map[int]error{0: fail, 1: fail, 2: fail}}
	a := newTestApp(t, dp)
	var out bytes.Buffer

	res, err := a.Run(context.Background(), minuteReq(t), RunOptions{Out: &out})

	require.ErrorIs(t, err, ErrAllFailed)
	assert.True(t, res.Series.Empty())
	assert.Contains(t, out.String(), "No data retrieved.")
	assert.NoFileExists(t, filepath.Join(a.Config.DataDir, "AAPL_minute_2024-01-01_to_2024-01-20.csv"))
}

func TestRun_EmptyIsNotError(t *testing.T) {
	a := newTestApp(t, &stubProvider{})

	res, err := a.Run(context.Background(), minuteReq(t), RunOptions{})
	require.NoError(t, err)
	assert.True(t, res.Complete())
}

func TestRun_NoExportAndDeclinedConfirm(t *testing.T) {
	dp := &stubProvider{bars: map[int][]model.Bar{0: {bar(1704153600000)}}}
	csv := "AAPL_minute_2024-01-01_to_2024-01-20.csv"

	a := newTestApp(t, dp)
	_, err := a.Run(context.Background(), minuteReq(t), RunOptions{NoExport: true})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(a.Config.DataDir, csv))

	a = newTestApp(t, dp)
	asked := ""
	_, err = a.Run(context.Background(), minuteReq(t), RunOptions{Confirm: func(q string) (bool, error) {
		asked = q
		return false, nil
	}})
	require.NoError(t, err)
	assert.Equal(t, "Save data as csv?", asked)
	assert.NoFileExists(t, filepath.Join(a.Config.DataDir, csv))
}

func TestRun_CancelledKeepsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := newTestApp(t, &stubProvider{})

	res, err := a.Run(ctx, minuteReq(t), RunOptions{})

	require.ErrorIs(t, err, context.Canceled)
	_, _, _, skipped := res.Counts()
	assert.Equal(t, 3, skipped)
}
