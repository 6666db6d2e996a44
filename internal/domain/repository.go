package domain

import (
	"context"
	"time"
)

// Fetcher defines the interface for outbound page retrieval.
// Implementations carry their own per-call timeout; a failed or non-2xx
// fetch is an error, a timed-out probe is simply "not reachable".
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Probe(ctx context.Context, url string) bool
}

// CacheRepository defines the interface for caching extraction results
type CacheRepository interface {
	Get(ctx context.Context, key string) (*BrandContext, error)
	Set(ctx context.Context, key string, value *BrandContext, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// BrandRepository defines the interface for durable persistence of
// extraction results, keyed by storefront URL (unique)
type BrandRepository interface {
	Save(ctx context.Context, url string, ctxData *BrandContext) error
	GetByURL(ctx context.Context, url string) (*BrandContext, error)
}

// CatalogClient defines the interface for retrieving the storefront's
// machine-readable product feed. Never fails: any error yields an empty list.
type CatalogClient interface {
	FetchProducts(ctx context.Context, baseURL string) []Product
}
