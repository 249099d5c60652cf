package model

import (
	"fmt"
	"strings"
)

// Timespan is the aggregate bucket unit understood by the provider.
type Timespan string

const (
	Minute Timespan = "minute"
	Hour   Timespan = "hour"
	Day    Timespan = "day"
	Week   Timespan = "week"
	Month  Timespan = "month"
)

// Timespans lists supported units in menu order.
var Timespans = []Timespan{Minute, Hour, Day, Week, Month}

// ParseTimespan accepts a unit name case-insensitively.
func ParseTimespan(s string) (Timespan, error) {
	ts := Timespan(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Timespans {
		if t == ts {
			return t, nil
		}
	}
	return "", fmt.Errorf("unsupported timespan %q (use: minute, hour, day, week, month)", s)
}

// Granularity is a timespan with a positive multiplier, e.g. 5-minute bars.
type Granularity struct {
	Timespan   Timespan
	Multiplier int
}

// NewGranularity validates ts and clamps multiplier to at least 1.
func NewGranularity(ts Timespan, multiplier int) (Granularity, error) {
	if _, err := ParseTimespan(string(ts)); err != nil {
		return Granularity{}, err
	}
	if multiplier < 1 {
		multiplier = 1
	}
	return Granularity{Timespan: ts, Multiplier: multiplier}, nil
}

// Chunked reports whether ranges at this granularity must be split to stay under the per-request cap.
func (g Granularity) Chunked() bool {
	return g.Timespan == Minute || g.Timespan == Hour
}

// BarsPerDay is a rough upper bound of bars one trading day produces (extended hours, 960 minutes).
func (g Granularity) BarsPerDay() float64 {
	m := g.Multiplier
	if m < 1 {
		m = 1
	}
	switch g.Timespan {
	case Minute:
		return 960 / float64(m)
	case Hour:
		return 16 / float64(m)
	case Day:
		return 1 / float64(m)
	case Week:
		return 1 / (7 * float64(m))
	case Month:
		return 1 / (28 * float64(m))
	default:
		return 1
	}
}

func (g Granularity) String() string {
	return fmt.Sprintf("%d-%s", g.Multiplier, g.Timespan)
}

// Chunk is one sub-range dispatched as a single bounded request.
type Chunk struct {
	Index       int
	Range       DateRange
	Granularity Granularity
}

func (c Chunk) String() string {
	return fmt.Sprintf("#%d %s %s", c.Index+1, c.Range, c.Granularity)
}
