// Package prompt collects a fetch request interactively on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"polybars/internal/fetch"
	"polybars/internal/model"
)

// MinuteMultipliers are the bar sizes offered for minute data.
var MinuteMultipliers = []int{1, 5, 15, 30}

// ValidateDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidateDate(s string) bool {
	_, err := model.ParseDate(s)
	return err == nil
}

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	now func() time.Time
}

// New creates a Prompter. Input ending early surfaces as io.EOF.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, now: time.Now}
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Ticker asks until a non-empty symbol is given and returns it upper-cased.
func (p *Prompter) Ticker() (string, error) {
	for {
		s, err := p.ask("Enter stock ticker symbol (e.g., AAPL): ")
		if err != nil {
			return "", err
		}
		if s != "" {
			return strings.ToUpper(s), nil
		}
		fmt.Fprintln(p.out, "Ticker cannot be empty.")
	}
}

// Date asks for a date until a valid one is given. Empty input picks def.
func (p *Prompter) Date(label string, def time.Time) (time.Time, error) {
	def = model.Date(def)
	for {
		s, err := p.ask(fmt.Sprintf("%s (default: %s, format: YYYY-MM-DD): ", label, def.Format(model.DateLayout)))
		if err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return def, nil
		}
		if d, err := model.ParseDate(s); err == nil {
			return d, nil
		}
		fmt.Fprintln(p.out, "Invalid date format. Please use YYYY-MM-DD format.")
	}
}

// Timespan shows the unit menu. Empty or unknown choices pick day.
func (p *Prompter) Timespan() (model.Timespan, error) {
	fmt.Fprintln(p.out, "\nSelect timespan for the data:")
	for i, ts := range model.Timespans {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, strings.ToUpper(string(ts[:1]))+string(ts[1:]))
	}
	s, err := p.ask(fmt.Sprintf("Enter your choice (1-%d, default is 3): ", len(model.Timespans)))
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(model.Timespans) {
		return model.Timespans[n-1], nil
	}
	return model.Day, nil
}

// Multiplier offers MinuteMultipliers for minute data and returns 1 for every other unit.
func (p *Prompter) Multiplier(ts model.Timespan) (int, error) {
	if ts != model.Minute {
		return 1, nil
	}
	fmt.Fprintln(p.out, "\nSelect minute interval:")
	for i, m := range MinuteMultipliers {
		fmt.Fprintf(p.out, "%d. %d-minute\n", i+1, m)
	}
	s, err := p.ask(fmt.Sprintf("Enter your choice (1-%d, default is 1): ", len(MinuteMultipliers)))
	if err != nil {
		return 0, err
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(MinuteMultipliers) {
		return MinuteMultipliers[n-1], nil
	}
	return 1, nil
}

// Confirm asks a y/n question. Anything but y or yes is no.
func (p *Prompter) Confirm(question string) (bool, error) {
	s, err := p.ask(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(s) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Request runs the full questionnaire. Start defaults to a year before today and end to today.
// A start after end is passed through; the engine swaps it.
func (p *Prompter) Request() (fetch.Request, error) {
	ticker, err := p.Ticker()
	if err != nil {
		return fetch.Request{}, err
	}

	today := model.Date(p.now())
	fmt.Fprintln(p.out, "\nEnter date range for historical data:")
	fmt.Fprintln(p.out, "Note: the Polygon free tier has limited history and allows 5 API calls per minute")
	start, err := p.Date("Enter start date", today.AddDate(0, 0, -365))
	if err != nil {
		return fetch.Request{}, err
	}
	end, err := p.Date("Enter end date", today)
	if err != nil {
		return fetch.Request{}, err
	}

	ts, err := p.Timespan()
	if err != nil {
		return fetch.Request{}, err
	}
	if ts == model.Minute || ts == model.Hour {
		fmt.Fprintln(p.out, "\nNote: minute and hour data are capped at 50,000 results per request;")
		fmt.Fprintln(p.out, "large date ranges are fetched in chunks.")
	}
	mult, err := p.Multiplier(ts)
	if err != nil {
		return fetch.Request{}, err
	}

	return fetch.Request{
		Ticker:      ticker,
		Start:       start,
		End:         end,
		Granularity: model.Granularity{Timespan: ts, Multiplier: mult},
	}, nil
}
