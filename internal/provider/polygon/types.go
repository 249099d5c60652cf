package polygon

import (
	"encoding/json"
	"fmt"
	"strconv"

	"polybars/internal/model"
)

// RawBar is one aggregate record as the provider returns it.
// VWAP and Transactions are nil when the provider omits them.
type RawBar struct {
	Timestamp    int64          `json:"t"` // Unix timestamp in milliseconds
	Open         float64        `json:"o"`
	High         float64        `json:"h"`
	Low          float64        `json:"l"`
	Close        float64        `json:"c"`
	Volume       FlexibleInt64  `json:"v"`
	VWAP         *float64       `json:"vw,omitempty"`
	Transactions *FlexibleInt64 `json:"n,omitempty"`
}

// ToBar converts RawBar to model.Bar
func (rb RawBar) ToBar() model.Bar {
	var n *int64
	if rb.Transactions != nil {
		v := rb.Transactions.Int64()
		n = &v
	}
	return model.NewBar(rb.Timestamp, rb.Open, rb.High, rb.Low, rb.Close, rb.Volume.Int64(), rb.VWAP, n)
}

// AggregatesResponse is Polygon API response with next_url
type AggregatesResponse struct {
	Ticker       string   `json:"ticker"`
	QueryCount   int      `json:"queryCount"`
	ResultsCount int      `json:"resultsCount"`
	Adjusted     bool     `json:"adjusted"`
	Results      []RawBar `json:"results"`
	Status       string   `json:"status"`
	RequestID    string   `json:"request_id"`
	Count        int      `json:"count"`
	NextURL      string   `json:"next_url,omitempty"`
	Message      string   `json:"message,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// FlexibleInt64 parses int, float (scientific notation) or quoted number to int64
type FlexibleInt64 int64

// UnmarshalJSON parses int or float
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexibleInt64(int64(val))
		return nil
	}

	var floatVal float64
	if err := json.Unmarshal(data, &floatVal); err == nil {
		*f = FlexibleInt64(int64(floatVal))
		return nil
	}

	return fmt.Errorf("cannot parse as int64: %s", string(data))
}

// Int64 returns int64 value
func (f FlexibleInt64) Int64() int64 {
	return int64(f)
}
