package provider

import (
	"context"

	"polybars/internal/model"
)

// DataProvider is the abstraction used by the application when accessing a data source.
// FetchRange serves one chunk; implementations own their client and its cleanup.
type DataProvider interface {
	GetName() string
	FetchRange(ctx context.Context, ticker string, ch model.Chunk) ([]model.Bar, error)
	Close() error
}
