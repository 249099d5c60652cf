package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLCV aggregate for a fixed interval.
// Shared by provider, engine and exporters; treat it as a value and never mutate it after construction.
type Bar struct {
	Timestamp    time.Time           `json:"t"` // interval start, UTC, millisecond precision
	Open         decimal.Decimal     `json:"o"`
	High         decimal.Decimal     `json:"h"`
	Low          decimal.Decimal     `json:"l"`
	Close        decimal.Decimal     `json:"c"`
	Volume       int64               `json:"v"`
	VWAP         decimal.NullDecimal `json:"vw"` // volume weighted average price, optional
	Transactions *int64              `json:"n"`  // number of transactions, optional
}

// NewBar builds a Bar from provider values. Timestamp is in Unix milliseconds.
// vwap and transactions may be nil when the provider omitted them.
func NewBar(tsMillis int64, open, high, low, close float64, volume int64, vwap *float64, transactions *int64) Bar {
	b := Bar{
		Timestamp: time.UnixMilli(tsMillis).UTC(),
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(close),
		Volume:    volume,
	}
	if vwap != nil {
		b.VWAP = decimal.NewNullDecimal(decimal.NewFromFloat(*vwap))
	}
	if transactions != nil {
		n := *transactions
		b.Transactions = &n
	}
	return b
}

// TimestampMillis returns the bar start in Unix milliseconds.
func (b Bar) TimestampMillis() int64 {
	return b.Timestamp.UnixMilli()
}

// HasVWAP reports whether the provider supplied a VWAP.
func (b Bar) HasVWAP() bool { return b.VWAP.Valid }

// HasTransactions reports whether the provider supplied a transaction count.
func (b Bar) HasTransactions() bool { return b.Transactions != nil }

// ValidationError names the field of a Bar that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s: %s", e.Field, e.Message)
}

// Validate checks prices are positive, volume and transactions are non-negative
// and the high/low envelope contains open and close.
func (b Bar) Validate() error {
	if b.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "timestamp cannot be zero"}
	}
	prices := []struct {
		name string
		v    decimal.Decimal
	}{{"open", b.Open}, {"high", b.High}, {"low", b.Low}, {"close", b.Close}}
	for _, p := range prices {
		if !p.v.IsPositive() {
			return &ValidationError{Field: p.name, Message: fmt.Sprintf("%s price must be greater than 0, got %s", p.name, p.v)}
		}
	}
	if b.Volume < 0 {
		return &ValidationError{Field: "volume", Message: "volume must be greater than or equal to 0"}
	}
	if b.Transactions != nil && *b.Transactions < 0 {
		return &ValidationError{Field: "transactions", Message: "transactions must be greater than or equal to 0"}
	}
	if maxOC := decimal.Max(b.Open, b.Close); b.High.LessThan(maxOC) {
		return &ValidationError{Field: "high", Message: fmt.Sprintf("high (%s) must be >= max(open, close) (%s)", b.High, maxOC)}
	}
	if minOC := decimal.Min(b.Open, b.Close); b.Low.GreaterThan(minOC) {
		return &ValidationError{Field: "low", Message: fmt.Sprintf("low (%s) must be <= min(open, close) (%s)", b.Low, minOC)}
	}
	return nil
}
