package fetch

import "polybars/internal/model"

const (
	// DefaultMinuteChunkDays keeps a 1-minute request well under 50k rows at equity market-hours density.
	DefaultMinuteChunkDays = 7
	// DefaultHourChunkDays is the same heuristic for hourly bars.
	DefaultHourChunkDays = 30
)

// ChunkPolicy caps the calendar-day span of one request per chunked timespan.
// The defaults assume equity market hours; 24h markets want smaller caps.
type ChunkPolicy struct {
	MinuteDays int
	HourDays   int
}

// DefaultChunkPolicy returns the 7/30 day heuristic.
func DefaultChunkPolicy() ChunkPolicy {
	return ChunkPolicy{MinuteDays: DefaultMinuteChunkDays, HourDays: DefaultHourChunkDays}
}

// CapDays returns the span cap for g, or 0 when g is fetched in one request.
func (p ChunkPolicy) CapDays(g model.Granularity) int {
	var days int
	switch g.Timespan {
	case model.Minute:
		days = p.MinuteDays
		if days <= 0 {
			days = DefaultMinuteChunkDays
		}
	case model.Hour:
		days = p.HourDays
		if days <= 0 {
			days = DefaultHourChunkDays
		}
	}
	return days
}

// Plan splits r into contiguous, non-overlapping, ascending chunks whose union is r.
// Each chunk spans at most CapDays calendar days, both ends included.
// A zero range yields no chunks.
func (p ChunkPolicy) Plan(r model.DateRange, g model.Granularity) []model.Chunk {
	if r.IsZero() {
		return nil
	}
	if r.Start.After(r.End) {
		r, _ = model.NewDateRange(r.Start, r.End)
	}

	capDays := p.CapDays(g)
	if capDays == 0 {
		return []model.Chunk{{Index: 0, Range: r, Granularity: g}}
	}

	chunks := make([]model.Chunk, 0, r.Days()/capDays+1)
	for cursor := r.Start; !cursor.After(r.End); {
		end := cursor.AddDate(0, 0, capDays-1)
		if end.After(r.End) {
			end = r.End
		}
		chunks = append(chunks, model.Chunk{
			Index:       len(chunks),
			Range:       model.DateRange{Start: cursor, End: end},
			Granularity: g,
		})
		cursor = end.AddDate(0, 0, 1)
	}
	return chunks
}
