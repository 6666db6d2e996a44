package shopify

import (
	"encoding/json"

	"github.com/shopsight/backend/internal/domain"
)

// feedEnvelope accepts the product array under either of the two top-level
// keys observed in the wild. Entries stay raw so one malformed record
// cannot poison the whole feed.
type feedEnvelope struct {
	Products []json.RawMessage `json:"products"`
	Items    []json.RawMessage `json:"items"`
}

// feedProduct is the loosely-typed shape of one feed entry. All fields are
// optional; absent ones map to zero values, never errors.
type feedProduct struct {
	ID       *int64           `json:"id"`
	Title    *string          `json:"title"`
	Handle   *string          `json:"handle"`
	Variants []map[string]any `json:"variants"`
	Images   []feedImage      `json:"images"`
}

type feedImage struct {
	Src *string `json:"src"`
}

// decodeFeed parses a product feed body into canonical products.
// Individual entries that fail to decode are skipped.
func decodeFeed(body []byte) ([]domain.Product, error) {
	var env feedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	raw := env.Products
	if len(raw) == 0 {
		raw = env.Items
	}

	products := make([]domain.Product, 0, len(raw))
	for _, entry := range raw {
		var fp feedProduct
		if err := json.Unmarshal(entry, &fp); err != nil {
			continue
		}
		products = append(products, mapProduct(fp))
	}
	return products, nil
}

// mapProduct converts a feed entry into the domain model
func mapProduct(fp feedProduct) domain.Product {
	p := domain.Product{
		ID:       fp.ID,
		Variants: fp.Variants,
	}
	if fp.Title != nil {
		p.Title = *fp.Title
	}
	if fp.Handle != nil {
		p.Handle = *fp.Handle
	}
	images := make([]string, 0, len(fp.Images))
	for _, img := range fp.Images {
		if img.Src != nil && *img.Src != "" {
			images = append(images, *img.Src)
		}
	}
	p.Images = images
	return p
}
