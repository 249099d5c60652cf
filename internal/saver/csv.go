package saver

import (
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"polybars/internal/model"
)

// csvRow keeps decimals exact and leaves absent optionals as empty cells.
type csvRow struct {
	Timestamp    string `csv:"timestamp"`
	Open         string `csv:"open"`
	High         string `csv:"high"`
	Low          string `csv:"low"`
	Close        string `csv:"close"`
	Volume       int64  `csv:"volume"`
	VWAP         string `csv:"vwap"`
	Transactions string `csv:"transactions"`
}

// TimestampLayout renders bar starts in UTC with millisecond precision.
const TimestampLayout = "2006-01-02 15:04:05.000"

// CSVExporter writes a header row followed by one row per bar; timestamps are UTC.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return "csv" }

func (CSVExporter) Save(bars []model.Bar, path string) error {
	rows := make([]*csvRow, len(bars))
	for i, b := range bars {
		r := &csvRow{
			Timestamp: b.Timestamp.UTC().Format(TimestampLayout),
			Open:      b.Open.String(),
			High:      b.High.String(),
			Low:       b.Low.String(),
			Close:     b.Close.String(),
			Volume:    b.Volume,
		}
		if b.HasVWAP() {
			r.VWAP = b.VWAP.Decimal.String()
		}
		if b.HasTransactions() {
			r.Transactions = strconv.FormatInt(*b.Transactions, 10)
		}
		rows[i] = r
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
