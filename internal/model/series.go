package model

import "time"

// maxPrealloc bounds the capacity hint (about 504 days of 1-minute extended-hours bars).
const maxPrealloc = 500000

// EstimatedBars returns a pre-allocation capacity for r at g: days * bars/day + 10% buffer.
func EstimatedBars(r DateRange, g Granularity) int {
	days := r.Days()
	if days == 0 {
		return 0
	}
	n := int(float64(days)*g.BarsPerDay()) + 1
	n = n + n/10
	if n > maxPrealloc {
		n = maxPrealloc
	}
	return n
}

// Series is an ordered run of bars with strictly increasing timestamps.
// It owns its bars: Append copies in and accessors copy out.
type Series struct {
	bars []Bar
}

// NewSeries returns an empty series with room for capacity bars.
func NewSeries(capacity int) *Series {
	if capacity < 0 {
		capacity = 0
	}
	return &Series{bars: make([]Bar, 0, capacity)}
}

// Append adds bars in the given order. A bar whose timestamp is not after the
// current last bar is skipped; the number of skipped bars is returned.
func (s *Series) Append(bars ...Bar) (skipped int) {
	for _, b := range bars {
		if n := len(s.bars); n > 0 && !b.Timestamp.After(s.bars[n-1].Timestamp) {
			skipped++
			continue
		}
		s.bars = append(s.bars, detach(b))
	}
	return skipped
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// Empty reports whether the series holds no bars.
func (s *Series) Empty() bool { return s.Len() == 0 }

// At returns a copy of the i-th bar.
func (s *Series) At(i int) Bar { return detach(s.bars[i]) }

// Bars returns a copy of the bars in order. No pointer is shared with the series.
func (s *Series) Bars() []Bar {
	if s == nil {
		return nil
	}
	out := make([]Bar, len(s.bars))
	for i, b := range s.bars {
		out[i] = detach(b)
	}
	return out
}

// detach gives b its own Transactions value.
func detach(b Bar) Bar {
	if b.Transactions != nil {
		v := *b.Transactions
		b.Transactions = &v
	}
	return b
}

// Span returns the first and last timestamps; ok is false for an empty series.
func (s *Series) Span() (first, last time.Time, ok bool) {
	if s.Empty() {
		return time.Time{}, time.Time{}, false
	}
	return s.bars[0].Timestamp, s.bars[len(s.bars)-1].Timestamp, true
}
