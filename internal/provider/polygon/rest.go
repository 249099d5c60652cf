package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public Polygon REST endpoint.
const DefaultBaseURL = "https://api.polygon.io"

// StatusError is a non-200 response. Body keeps the provider's error text
// (e.g. NOT_AUTHORIZED) for classification.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API status %d: %s", e.StatusCode, e.Body)
}

// RESTClient calls the aggregates endpoint directly, one request per query.
// It never retries and never follows next_url.
type RESTClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewRESTClient builds a client for baseURL (DefaultBaseURL when empty).
func NewRESTClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *RESTClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTClient{
		client:  newHTTPClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// buildAggregatesRequest builds the first-page GET (adjusted, limit, sort).
func (c *RESTClient) buildAggregatesRequest(ctx context.Context, q AggsQuery) (*http.Request, error) {
	rawURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/%d/%s/%d/%d",
		c.baseURL, url.PathEscape(q.Ticker), q.Multiplier, q.Timespan, q.From.UnixMilli(), q.To.UnixMilli())
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	qs := u.Query()
	qs.Set("adjusted", strconv.FormatBool(q.Adjusted))
	qs.Set("limit", strconv.Itoa(limitOrMax(q.Limit)))
	qs.Set("sort", "asc")
	u.RawQuery = qs.Encode()
	return c.newRequest(ctx, u.String())
}

// newRequest authenticates with a bearer header so the key never shows up in URL errors.
func (c *RESTClient) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doAggregatesRequest runs one GET. DELAYED is accepted: the data is
// valid, only its recency is limited by the plan.
func (c *RESTClient) doAggregatesRequest(req *http.Request) (*AggregatesResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var result AggregatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	switch result.Status {
	case "OK":
	case "DELAYED":
		c.logger.Debug("aggregates delayed", "ticker", result.Ticker, "request_id", result.RequestID)
	default:
		msg := result.Error
		if msg == "" {
			msg = result.Message
		}
		return nil, fmt.Errorf("API status not OK: %s %s", result.Status, msg)
	}
	return &result, nil
}

// ListAggs fetches the first page of q. A next_url in the response means the
// window held more than q.Limit base aggregates; the rest is dropped and logged.
func (c *RESTClient) ListAggs(ctx context.Context, q AggsQuery) ([]RawBar, error) {
	req, err := c.buildAggregatesRequest(ctx, q)
	if err != nil {
		return nil, err
	}
	resp, err := c.doAggregatesRequest(req)
	if err != nil {
		return nil, err
	}
	if resp.NextURL != "" {
		c.logger.Warn("next_url ignored, window exceeds result limit",
			"ticker", q.Ticker, "from", q.From, "to", q.To, "bars", len(resp.Results))
	}
	return resp.Results, nil
}
