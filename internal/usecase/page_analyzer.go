package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopsight/backend/internal/domain"
)

// Package-level compiled regex patterns for entity extraction.
// Both scan the raw markup, not the rendered text, so matches inside
// comments and attributes count.
var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRegex = regexp.MustCompile(`\+?\d[\d\-\s()]{6,}\d`)
)

// productCardSelectors are the known product-grid class selectors, scanned
// in this order. Candidates accumulate across all selectors; deduplication
// happens later in the hero matcher.
var productCardSelectors = []string{
	".product-card",
	".product",
	".featured-product",
	".grid-item",
	".product-grid-item",
}

// socialPlatforms maps each supported platform to the host substrings that
// identify it in an anchor href.
var socialPlatforms = []struct {
	name  string
	hosts []string
}{
	{"instagram", []string{"instagram.com"}},
	{"facebook", []string{"facebook.com"}},
	{"twitter", []string{"twitter.com", "x.com"}},
	{"tiktok", []string{"tiktok.com"}},
	{"youtube", []string{"youtube.com"}},
}

// PageAnalyzer turns raw storefront HTML into a bundle of extraction
// signals. It never fails: unparsable markup yields empty signals.
type PageAnalyzer struct{}

// NewPageAnalyzer creates a new page analyzer
func NewPageAnalyzer() *PageAnalyzer {
	return &PageAnalyzer{}
}

// Analyze extracts all page signals from raw HTML
func (a *PageAnalyzer) Analyze(rawHTML string) *domain.PageSignals {
	signals := &domain.PageSignals{
		Links:  make(map[string]string),
		Social: make(map[string]string),
	}

	// Entity regexes run over the raw markup even when parsing fails
	signals.Emails = dedupeSorted(emailRegex.FindAllString(rawHTML, -1))
	signals.Phones = dedupeSorted(phoneRegex.FindAllString(rawHTML, -1))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return signals
	}

	signals.Title = cleanText(doc.Find("title").First().Text())
	a.collectLinks(doc, signals)
	signals.ProductCards = a.collectProductCards(doc)
	signals.AboutText = a.extractAboutText(doc)

	return signals
}

// collectLinks builds the link table and the social handle map in one pass
// over all anchors. Both are last-write-wins in document order.
func (a *PageAnalyzer) collectLinks(doc *goquery.Document, signals *domain.PageSignals) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := cleanText(s.Text())
		signals.Links[text] = href

		for _, platform := range socialPlatforms {
			for _, host := range platform.hosts {
				if strings.Contains(href, host) {
					signals.Social[platform.name] = href
					break
				}
			}
		}
	})
}

// collectProductCards scans the selector table in priority order, then the
// product-handle data attribute. No dedup at this stage.
func (a *PageAnalyzer) collectProductCards(doc *goquery.Document) []domain.ProductCard {
	var cards []domain.ProductCard

	for _, sel := range productCardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			anchor := card.Find("a[href]").First()
			if anchor.Length() == 0 {
				return
			}
			href, _ := anchor.Attr("href")
			cards = append(cards, domain.ProductCard{
				Href: href,
				Text: cleanText(anchor.Text()),
			})
		})
	}

	doc.Find("[data-product-handle]").Each(func(_ int, s *goquery.Selection) {
		handle, _ := s.Attr("data-product-handle")
		cards = append(cards, domain.ProductCard{
			Href: handle,
			Text: cleanText(s.Text()),
		})
	})

	return cards
}

// extractAboutText prefers paragraphs/divs whose id or class mentions
// "about" (up to the first three, concatenated), falling back to the meta
// description tag.
func (a *PageAnalyzer) extractAboutText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		class, _ := s.Attr("class")
		if !strings.Contains(strings.ToLower(id), "about") &&
			!strings.Contains(strings.ToLower(class), "about") {
			return true
		}
		parts = append(parts, cleanText(s.Text()))
		return len(parts) < 3
	})
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		return desc
	}
	return ""
}

// cleanText trims and collapses whitespace in extracted node text
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// dedupeSorted removes duplicates and sorts, so repeated runs over the same
// markup produce identical output
func dedupeSorted(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}
