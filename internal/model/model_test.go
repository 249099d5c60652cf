package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNewBar_OptionalFieldsAbsent(t *testing.T) {
	b := NewBar(1704067200000, 10, 11, 9, 10.5, 1000, nil, nil)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), b.Timestamp)
	assert.False(t, b.HasVWAP())
	assert.False(t, b.HasTransactions())
	assert.True(t, b.Open.Equal(decimal.NewFromInt(10)))
	assert.NoError(t, b.Validate())
}

func TestNewBar_OptionalFieldsPresent(t *testing.T) {
	vw := 10.25
	n := int64(42)
	b := NewBar(1704067260000, 10, 11, 9, 10.5, 1000, &vw, &n)

	require.True(t, b.HasVWAP())
	assert.True(t, b.VWAP.Decimal.Equal(decimal.NewFromFloat(10.25)))
	require.True(t, b.HasTransactions())
	assert.Equal(t, int64(42), *b.Transactions)

	n = 7
	assert.Equal(t, int64(42), *b.Transactions, "bar must not alias caller memory")
}

func TestBarValidate(t *testing.T) {
	tests := []struct {
		name  string
		bar   Bar
		field string
	}{
		{"zero price", NewBar(1, 0, 11, 9, 10, 1, nil, nil), "open"},
		{"negative volume", NewBar(1, 10, 11, 9, 10, -1, nil, nil), "volume"},
		{"high below close", NewBar(1, 10, 10.5, 9, 11, 1, nil, nil), "high"},
		{"low above open", NewBar(1, 10, 12, 10.5, 11, 1, nil, nil), "low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bar.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNewDateRange_Swaps(t *testing.T) {
	r, swapped := NewDateRange(mustDate(t, "2024-02-01"), mustDate(t, "2024-01-01"))

	assert.True(t, swapped)
	assert.Equal(t, "2024-01-01..2024-02-01", r.String())
	assert.Equal(t, 32, r.Days())
}

func TestDateRange_SingleDay(t *testing.T) {
	d := mustDate(t, "2024-03-15")
	r, swapped := NewDateRange(d, d)

	assert.False(t, swapped)
	assert.Equal(t, 1, r.Days())
	assert.True(t, r.Contains(d.Add(23*time.Hour)))
	assert.False(t, r.Contains(d.AddDate(0, 0, 1)))
}

func TestDateRange_Bounds(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	r, _ := NewDateRange(mustDate(t, "2024-01-02"), mustDate(t, "2024-01-03"))

	from, to := r.Bounds(ny)

	assert.Equal(t, time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC), from.UTC())
	assert.Equal(t, time.Date(2024, 1, 4, 4, 59, 59, int(999*time.Millisecond), time.UTC), to.UTC())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestParseDate_NeverYieldsZeroTime(t *testing.T) {
	_, err := ParseDate("0001-01-01")
	assert.Error(t, err)

	d, err := ParseDate("1900-01-01")
	require.NoError(t, err)
	r, _ := NewDateRange(d, d)
	assert.False(t, r.IsZero())
	assert.Equal(t, 1, r.Days())
}

func TestParseTimespan(t *testing.T) {
	ts, err := ParseTimespan(" Hour ")
	require.NoError(t, err)
	assert.Equal(t, Hour, ts)

	_, err = ParseTimespan("quarter")
	assert.Error(t, err)
}

func TestNewGranularity(t *testing.T) {
	g, err := NewGranularity(Minute, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Multiplier)
	assert.True(t, g.Chunked())
	assert.Equal(t, "1-minute", g.String())

	g, err = NewGranularity(Week, 1)
	require.NoError(t, err)
	assert.False(t, g.Chunked())
}

func TestSeriesAppend_StrictlyIncreasing(t *testing.T) {
	s := NewSeries(4)
	skipped := s.Append(
		NewBar(1000, 1, 1, 1, 1, 1, nil, nil),
		NewBar(2000, 1, 1, 1, 1, 1, nil, nil),
	)
	assert.Zero(t, skipped)

	skipped = s.Append(
		NewBar(2000, 1, 1, 1, 1, 1, nil, nil), // duplicate
		NewBar(1500, 1, 1, 1, 1, 1, nil, nil), // out of order
		NewBar(3000, 1, 1, 1, 1, 1, nil, nil),
	)
	assert.Equal(t, 2, skipped)
	require.Equal(t, 3, s.Len())

	bars := s.Bars()
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Timestamp.After(bars[i-1].Timestamp))
	}
	first, last, ok := s.Span()
	require.True(t, ok)
	assert.Equal(t, int64(1000), first.UnixMilli())
	assert.Equal(t, int64(3000), last.UnixMilli())
}

func TestSeriesBars_ReturnsCopy(t *testing.T) {
	s := NewSeries(1)
	s.Append(NewBar(1000, 1, 1, 1, 1, 5, nil, nil))

	bars := s.Bars()
	bars[0].Volume = 99

	assert.Equal(t, int64(5), s.At(0).Volume)
}

func TestSeriesBars_DoesNotShareTransactions(t *testing.T) {
	n := int64(7)
	s := NewSeries(1)
	s.Append(NewBar(1000, 1, 1, 1, 1, 5, nil, &n))

	*s.Bars()[0].Transactions = 99
	*s.At(0).Transactions = 98

	assert.Equal(t, int64(7), *s.Bars()[0].Transactions)
}

func TestEmptySeries(t *testing.T) {
	var s *Series
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Empty())
	assert.Nil(t, s.Bars())
}

func TestEstimatedBars(t *testing.T) {
	r, _ := NewDateRange(mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"))

	minute, _ := NewGranularity(Minute, 1)
	assert.Equal(t, 7393, EstimatedBars(r, minute)) // (7*960+1) + 10%

	five, _ := NewGranularity(Minute, 5)
	assert.Less(t, EstimatedBars(r, five), EstimatedBars(r, minute))

	long, _ := NewDateRange(mustDate(t, "2020-01-01"), mustDate(t, "2024-01-01"))
	assert.Equal(t, maxPrealloc, EstimatedBars(long, minute))

	assert.Zero(t, EstimatedBars(DateRange{}, minute))
}

const benchBars = 50 * 960

// BenchmarkSeriesAppendPrealloc appends a 50-day minute range into a pre-sized series.
func BenchmarkSeriesAppendPrealloc(b *testing.B) {
	r, _ := NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 19, 0, 0, 0, 0, time.UTC))
	g, _ := NewGranularity(Minute, 1)
	capacity := EstimatedBars(r, g)
	bars := benchInput()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewSeries(capacity)
		s.Append(bars...)
	}
}

// BenchmarkSeriesAppendNoPrealloc appends the same input into an empty series.
func BenchmarkSeriesAppendNoPrealloc(b *testing.B) {
	bars := benchInput()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewSeries(0)
		s.Append(bars...)
	}
}

func benchInput() []Bar {
	bars := make([]Bar, 0, benchBars)
	for j := 0; j < benchBars; j++ {
		bars = append(bars, NewBar(int64(j+1)*60000, 100, 101, 99, 100.5, 1000, nil, nil))
	}
	return bars
}
