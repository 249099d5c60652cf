package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// ReportFileName is written into the data dir after each fetch.
const ReportFileName = ".lastfetch.report.json"

type chunkEntry struct {
	Index     int    `json:"index"`
	DateRange string `json:"date_range"`
	Status    Status `json:"status"`
	Bars      int    `json:"bars"`
	Dropped   int    `json:"dropped,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Millis    int64  `json:"duration_ms"`
}

type reportFile struct {
	RunID       string       `json:"run_id"`
	Ticker      string       `json:"ticker"`
	Granularity string       `json:"granularity"`
	DateRange   string       `json:"date_range"`
	Swapped     bool         `json:"swapped,omitempty"`
	Bars        int          `json:"bars"`
	Complete    bool         `json:"complete"`
	Chunks      []chunkEntry `json:"chunks"`
}

func newReport(res *Result) reportFile {
	rep := reportFile{
		RunID:       res.RunID,
		Ticker:      res.Ticker,
		Granularity: res.Granularity.String(),
		DateRange:   res.Range.String(),
		Swapped:     res.Swapped,
		Bars:        res.Series.Len(),
		Complete:    res.Complete(),
		Chunks:      make([]chunkEntry, len(res.Chunks)),
	}
	for i, c := range res.Chunks {
		e := chunkEntry{
			Index:     c.Chunk.Index + 1,
			DateRange: c.Chunk.Range.String(),
			Status:    c.Status,
			Bars:      c.Bars,
			Dropped:   c.Dropped,
			Millis:    c.Duration.Milliseconds(),
		}
		if c.Failure != nil {
			e.Kind = string(c.Failure.Kind)
			if c.Failure.Err != nil {
				e.Reason = c.Failure.Err.Error()
			}
		}
		rep.Chunks[i] = e
	}
	return rep
}

// WriteReport persists the per-chunk outcome of res into dir and returns the file path.
func WriteReport(dir string, res *Result) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	p := filepath.Join(dir, ReportFileName)
	data, err := json.MarshalIndent(newReport(res), "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", err
	}
	slog.Info("report wrote", "path", p, "chunks", len(res.Chunks))
	return p, nil
}

// RenderReport prints one row per chunk.
func RenderReport(w io.Writer, res *Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Range", "Status", "Bars", "Kind", "Duration"})
	for _, c := range res.Chunks {
		kind := ""
		if c.Failure != nil {
			kind = string(c.Failure.Kind)
		}
		table.Append([]string{
			strconv.Itoa(c.Chunk.Index + 1),
			c.Chunk.Range.String(),
			string(c.Status),
			strconv.Itoa(c.Bars),
			kind,
			c.Duration.Round(time.Millisecond).String(),
		})
	}
	table.Render()
}

// SummarizeFailures joins failed sub-ranges and their kinds into one line, truncated after five.
func SummarizeFailures(res *Result) string {
	failed := res.Failed()
	if len(failed) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failed {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Chunk.Range.String())
		b.WriteString(": ")
		b.WriteString(string(f.Failure.Kind))
		if i == 4 && len(failed) > 5 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failed)-5))
			break
		}
	}
	return b.String()
}
