package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopsight/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// importantLinkTriggers lists the extra link categories resolved from the
// link table, with the substring that triggers each on visible text or href
var importantLinkTriggers = []struct {
	category    string
	textTrigger string
	hrefTrigger string
}{
	{"order_tracking", "track", "track"},
	{"contact", "contact", "contact"},
	{"blog", "blog", "/blogs"},
}

// InsightsServiceConfig holds configuration for the insights service
type InsightsServiceConfig struct {
	CacheTTL           time.Duration
	TotalTimeout       time.Duration
	ProbeConcurrency   int
	EnableDebugLogging bool
}

// InsightsService orchestrates the extraction pipeline:
// fetch -> analyze -> normalize -> resolve -> match -> extract -> assemble.
type InsightsService struct {
	fetcher  domain.Fetcher
	catalog  domain.CatalogClient
	cache    domain.CacheRepository
	store    domain.BrandRepository // optional; nil disables persistence
	analyzer *PageAnalyzer
	policies *PolicyResolver
	matcher  *HeroMatcher
	faqs     *FAQExtractor

	cacheTTL     time.Duration
	totalTimeout time.Duration
	debug        bool
}

// NewInsightsService creates a new insights service with dependencies
func NewInsightsService(
	fetcher domain.Fetcher,
	catalog domain.CatalogClient,
	cache domain.CacheRepository,
	store domain.BrandRepository,
	config InsightsServiceConfig,
) *InsightsService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	totalTimeout := config.TotalTimeout
	if totalTimeout == 0 {
		totalTimeout = 45 * time.Second
	}

	return &InsightsService{
		fetcher:      fetcher,
		catalog:      catalog,
		cache:        cache,
		store:        store,
		analyzer:     NewPageAnalyzer(),
		policies:     NewPolicyResolver(fetcher, config.ProbeConcurrency),
		matcher:      NewHeroMatcher(),
		faqs:         NewFAQExtractor(),
		cacheTTL:     cacheTTL,
		totalTimeout: totalTimeout,
		debug:        config.EnableDebugLogging,
	}
}

// Extract runs the full pipeline for one storefront URL.
// The only hard failures are a missing URL and total unreachability after
// the www-prefix retry; everything else soft-fails to defaults.
func (s *InsightsService) Extract(ctx context.Context, rawURL string) (*domain.BrandContext, error) {
	websiteURL := strings.TrimSpace(rawURL)
	if websiteURL == "" {
		return nil, domain.ErrInvalidRequest
	}
	if !strings.HasPrefix(websiteURL, "http") {
		websiteURL = "https://" + websiteURL
	}

	ctx, cancel := context.WithTimeout(ctx, s.totalTimeout)
	defer cancel()

	// Serve repeat extractions from cache within the TTL
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, websiteURL); err == nil && cached != nil {
			if s.debug {
				log.Printf("[INSIGHTS] cache hit for %s", websiteURL)
			}
			return cached, nil
		}
	}

	// Fetch the homepage, retrying once with a www. prefix: bare apex
	// domains frequently only resolve on the www host.
	body, err := s.fetcher.Get(ctx, websiteURL)
	if err != nil && strings.HasPrefix(websiteURL, "https://") && !strings.Contains(websiteURL, "www.") {
		alt := strings.Replace(websiteURL, "https://", "https://www.", 1)
		if altBody, altErr := s.fetcher.Get(ctx, alt); altErr == nil {
			websiteURL = alt
			body, err = altBody, nil
		}
	}
	if err != nil {
		if s.debug {
			log.Printf("[INSIGHTS] %s unreachable: %v", websiteURL, err)
		}
		return nil, domain.ErrUnreachable
	}

	html := string(body)

	// The catalog feed is independent of page analysis and runs
	// concurrently with it; its URL depends on the post-retry host, so it
	// cannot start before the page fetch settles.
	var products []domain.Product
	var g errgroup.Group
	g.Go(func() error {
		products = s.catalog.FetchProducts(ctx, websiteURL)
		return nil
	})

	signals := s.analyzer.Analyze(html)

	var faqs []domain.FaqEntry
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html)); docErr == nil {
		faqs = s.faqs.Extract(doc)
	} else {
		faqs = []domain.FaqEntry{}
	}

	policies := s.policies.Resolve(ctx, websiteURL, signals.Links)
	g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	heroes := s.matcher.Match(signals.ProductCards, products)

	result := &domain.BrandContext{
		WebsiteURL:     websiteURL,
		StoreTitle:     optional(signals.Title),
		AboutText:      optional(signals.AboutText),
		Products:       products,
		HeroProducts:   heroes,
		Policies:       policies,
		Faqs:           faqs,
		SocialHandles:  signals.Social,
		Contact: domain.ContactInfo{
			Emails:    orEmpty(signals.Emails),
			Phones:    orEmpty(signals.Phones),
			Addresses: []string{},
		},
		ImportantLinks: resolveImportantLinks(websiteURL, signals.Links),
		Metadata: domain.Metadata{
			FoundProductsCount: len(products),
			FoundHeroCount:     len(heroes),
		},
	}

	s.persist(ctx, websiteURL, result)

	return result, nil
}

// persist caches and stores the result. Both are best-effort: failures are
// logged and swallowed, never surfaced to the caller.
func (s *InsightsService) persist(ctx context.Context, websiteURL string, result *domain.BrandContext) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, websiteURL, result, s.cacheTTL); err != nil && s.debug {
			log.Printf("[INSIGHTS] cache write failed for %s: %v", websiteURL, err)
		}
	}
	if s.store != nil {
		if err := s.store.Save(ctx, websiteURL, result); err != nil {
			log.Printf("[STORE] persist failed for %s: %v", websiteURL, err)
		}
	}
}

// resolveImportantLinks scans the link table for the extra categories.
// First match wins per category, over a key-sorted view of the table.
func resolveImportantLinks(baseURL string, links map[string]string) map[string]string {
	keys := make([]string, 0, len(links))
	for k := range links {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string)
	for _, trigger := range importantLinkTriggers {
		for _, k := range keys {
			href := links[k]
			if href == "" {
				continue
			}
			text := strings.ToLower(k)
			hrefLower := strings.ToLower(href)
			if strings.Contains(text, trigger.textTrigger) || strings.Contains(hrefLower, trigger.hrefTrigger) {
				out[trigger.category] = resolveURL(baseURL, href)
				break
			}
		}
	}
	return out
}

// optional maps "" to nil so absent scalars serialize as null
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orEmpty replaces a nil slice with an empty one so collections always
// serialize as arrays
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
