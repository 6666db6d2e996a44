package shopify

import (
	"context"
	"log"
	"strings"

	"github.com/shopsight/backend/internal/domain"
)

// feedPath is the well-known relative path of the storefront product feed
const feedPath = "/products.json"

// CatalogClient retrieves and normalizes the storefront product feed.
// It implements domain.CatalogClient.
type CatalogClient struct {
	fetcher domain.Fetcher
	debug   bool
}

// NewCatalogClient creates a new catalog client
func NewCatalogClient(fetcher domain.Fetcher) *CatalogClient {
	return &CatalogClient{fetcher: fetcher}
}

// SetDebug enables debug logging of feed outcomes
func (c *CatalogClient) SetDebug(debug bool) {
	c.debug = debug
}

// FetchProducts fetches base + /products.json and maps it into canonical
// products. Every failure mode (unreachable feed, non-200 status, unparsable
// body) is a soft-fail yielding an empty list.
func (c *CatalogClient) FetchProducts(ctx context.Context, baseURL string) []domain.Product {
	feedURL := strings.TrimRight(baseURL, "/") + feedPath

	body, err := c.fetcher.Get(ctx, feedURL)
	if err != nil {
		if c.debug {
			log.Printf("[CATALOG] %s not available: %v", feedURL, err)
		}
		return []domain.Product{}
	}

	products, err := decodeFeed(body)
	if err != nil {
		if c.debug {
			log.Printf("[CATALOG] %s returned non-json: %v", feedURL, err)
		}
		return []domain.Product{}
	}

	if c.debug {
		log.Printf("[CATALOG] %s returned %d products", feedURL, len(products))
	}
	return products
}
