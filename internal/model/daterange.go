package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted on every input surface.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates. Start and End are kept as midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// MinYear is the earliest year ParseDate accepts. No market data predates it,
// and it keeps every parsed date distinct from the zero time.
const MinYear = 1900

// ParseDate parses YYYY-MM-DD into a midnight UTC date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if t.Year() < MinYear {
		return time.Time{}, fmt.Errorf("parse date %q: year before %d", s, MinYear)
	}
	return t, nil
}

// Date truncates t to its calendar date as midnight UTC, keeping the date as seen in t's location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a range from two dates, swapping them when a is after b.
// swapped reports whether the order was corrected.
func NewDateRange(a, b time.Time) (r DateRange, swapped bool) {
	a, b = Date(a), Date(b)
	if a.After(b) {
		return DateRange{Start: b, End: a}, true
	}
	return DateRange{Start: a, End: b}, false
}

// IsZero reports whether the range was never set. A zero time is read as unset;
// ParseDate never yields one.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() || r.End.IsZero()
}

// Days returns the number of calendar days in the range, both ends included.
func (r DateRange) Days() int {
	if r.IsZero() || r.Start.After(r.End) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether the date of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Bounds returns the first and last instant of the range in loc.
// The end bound is the last millisecond of End so the whole day is requested.
func (r DateRange) Bounds(loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from = time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, loc)
	to = time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
	return from, to
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}
