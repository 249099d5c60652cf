package polygon

import (
	"context"
	"fmt"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"polybars/internal/model"
)

// MaxLimit is the per-request result cap of the aggregates endpoint.
const MaxLimit = 50000

// AggsQuery is one aggregates request over an absolute time window.
type AggsQuery struct {
	Ticker     string
	Multiplier int
	Timespan   model.Timespan
	From       time.Time
	To         time.Time
	Limit      int
	Adjusted   bool
}

// AggsClient returns at most q.Limit aggregate records for q in ascending
// time order, from a single page.
type AggsClient interface {
	ListAggs(ctx context.Context, q AggsQuery) ([]RawBar, error)
}

// SDKClient serves AggsClient through the official polygon-io client.
type SDKClient struct {
	client *polygonrest.Client
}

// NewSDKClient builds a client authenticated with apiKey.
func NewSDKClient(apiKey string) *SDKClient {
	return &SDKClient{client: polygonrest.New(apiKey)}
}

// ListAggs reads the SDK iterator up to the limit, so it never requests a
// second page.
func (c *SDKClient) ListAggs(ctx context.Context, q AggsQuery) ([]RawBar, error) {
	limit := limitOrMax(q.Limit)
	params := models.ListAggsParams{
		Ticker:     q.Ticker,
		Multiplier: q.Multiplier,
		Timespan:   models.Timespan(q.Timespan),
		From:       models.Millis(q.From),
		To:         models.Millis(q.To),
	}.WithOrder(models.Asc).WithAdjusted(q.Adjusted).WithLimit(limit)

	iter := c.client.ListAggs(ctx, params)

	var out []RawBar
	for len(out) < limit && iter.Next() {
		out = append(out, fromAgg(iter.Item()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list aggs %s: %w", q.Ticker, err)
	}
	return out, nil
}

// fromAgg maps the SDK record. The SDK decodes absent vw and n as zero,
// and a real bar never has zero of either, so zero means absent.
func fromAgg(a models.Agg) RawBar {
	rb := RawBar{
		Timestamp: time.Time(a.Timestamp).UnixMilli(),
		Open:      a.Open,
		High:      a.High,
		Low:       a.Low,
		Close:     a.Close,
		Volume:    FlexibleInt64(int64(a.Volume)),
	}
	if a.VWAP != 0 {
		vw := a.VWAP
		rb.VWAP = &vw
	}
	if a.Transactions != 0 {
		n := FlexibleInt64(a.Transactions)
		rb.Transactions = &n
	}
	return rb
}

func limitOrMax(n int) int {
	if n <= 0 || n > MaxLimit {
		return MaxLimit
	}
	return n
}
