package provider

import (
	"fmt"
	"log/slog"
	"time"

	"polybars/internal/provider/polygon"
)

// Backend selects how PolygonProvider talks to the API.
type Backend string

const (
	BackendSDK  Backend = "sdk"
	BackendREST Backend = "rest"
)

// PolygonOptions configures NewPolygonProvider.
type PolygonOptions struct {
	APIKey   string
	Backend  Backend
	BaseURL  string // REST backend only
	Timeout  time.Duration
	Limit    int
	Adjusted bool
	Location *time.Location
}

// PolygonProvider is a DataProvider implementation backed by the Polygon API.
// It embeds *polygon.Fetcher to expose FetchRange with minimal boilerplate.
type PolygonProvider struct {
	*polygon.Fetcher
	backend Backend
}

// NewPolygonProvider creates a new Polygon-backed DataProvider.
// An empty API key is not rejected here: the provider answers it with NOT_AUTHORIZED.
func NewPolygonProvider(opts PolygonOptions, logger *slog.Logger) (*PolygonProvider, error) {
	var client polygon.AggsClient
	switch opts.Backend {
	case BackendSDK, "":
		opts.Backend = BackendSDK
		client = polygon.NewSDKClient(opts.APIKey)
	case BackendREST:
		client = polygon.NewRESTClient(opts.BaseURL, opts.APIKey, opts.Timeout, logger)
	default:
		return nil, fmt.Errorf("unknown polygon backend %q (use sdk or rest)", opts.Backend)
	}
	f := polygon.NewFetcher(client, polygon.FetcherConfig{
		Limit:    opts.Limit,
		Adjusted: opts.Adjusted,
		Location: opts.Location,
	}, logger)
	return &PolygonProvider{Fetcher: f, backend: opts.Backend}, nil
}

// GetName returns provider name
func (p *PolygonProvider) GetName() string {
	return "Polygon (" + string(p.backend) + ")"
}

// Close closes connections
func (p *PolygonProvider) Close() error {
	return nil
}
