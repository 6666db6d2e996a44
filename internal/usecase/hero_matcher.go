package usecase

import (
	"regexp"
	"strings"

	"github.com/shopsight/backend/internal/domain"
)

// productHandleRegex extracts the handle segment from a product URL
var productHandleRegex = regexp.MustCompile(`/products/([^/?#]+)`)

// HeroMatcher reconciles product-card candidates from the page against the
// canonical catalog, producing the deduplicated list of featured products.
type HeroMatcher struct{}

// NewHeroMatcher creates a new hero matcher
func NewHeroMatcher() *HeroMatcher {
	return &HeroMatcher{}
}

// Match resolves each candidate, in encounter order, first by handle lookup
// and then by title-substring search over the catalog. The result is
// deduplicated by identity key, keeping first occurrences, and is always a
// subset of the catalog. An empty catalog matches nothing.
func (m *HeroMatcher) Match(cards []domain.ProductCard, catalog []domain.Product) []domain.Product {
	if len(catalog) == 0 {
		return []domain.Product{}
	}

	byHandle := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		if p.Handle != "" {
			byHandle[strings.ToLower(p.Handle)] = p
		}
	}

	var heroes []domain.Product
	for _, card := range cards {
		if handle := extractHandle(card.Href); handle != "" {
			if p, ok := byHandle[handle]; ok {
				heroes = append(heroes, p)
				continue
			}
		}

		text := strings.ToLower(card.Text)
		for _, p := range catalog {
			if p.Title != "" && strings.Contains(text, strings.ToLower(p.Title)) {
				heroes = append(heroes, p)
				break
			}
		}
	}

	return dedupeByIdentity(heroes)
}

// extractHandle pulls the lowercased /products/<segment> handle out of an
// href, or "" when the href is not a product link
func extractHandle(href string) string {
	m := productHandleRegex.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// dedupeByIdentity drops repeated identity keys, preserving encounter order
func dedupeByIdentity(products []domain.Product) []domain.Product {
	seen := make(map[string]bool, len(products))
	unique := make([]domain.Product, 0, len(products))
	for _, p := range products {
		key := p.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}
	return unique
}
