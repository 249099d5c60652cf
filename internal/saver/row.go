package saver

import "polybars/internal/model"

// barRow is the flat DTO for Parquet and JSON files. Pointer fields become optional columns and stay nil when absent.
type barRow struct {
	Timestamp    int64    `json:"t" parquet:"t"`
	Open         float64  `json:"o" parquet:"o"`
	High         float64  `json:"h" parquet:"h"`
	Low          float64  `json:"l" parquet:"l"`
	Close        float64  `json:"c" parquet:"c"`
	Volume       int64    `json:"v" parquet:"v"`
	VWAP         *float64 `json:"vw,omitempty" parquet:"vw"`
	Transactions *int64   `json:"n,omitempty" parquet:"n"`
}

func toRows(bars []model.Bar) []barRow {
	rows := make([]barRow, len(bars))
	for i, b := range bars {
		r := barRow{
			Timestamp: b.TimestampMillis(),
			Open:      b.Open.InexactFloat64(),
			High:      b.High.InexactFloat64(),
			Low:       b.Low.InexactFloat64(),
			Close:     b.Close.InexactFloat64(),
			Volume:    b.Volume,
		}
		if b.HasVWAP() {
			vw := b.VWAP.Decimal.InexactFloat64()
			r.VWAP = &vw
		}
		if b.HasTransactions() {
			n := *b.Transactions
			r.Transactions = &n
		}
		rows[i] = r
	}
	return rows
}
