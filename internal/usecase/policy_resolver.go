package usecase

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/shopsight/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// policyPatterns lists, per fixed category and in declared priority order,
// the path substrings that identify a policy link. The same paths double as
// probe candidates when the link table has no match.
var policyPatterns = []struct {
	name  string
	paths []string
}{
	{"privacy_policy", []string{"/policies/privacy-policy", "/policies/privacy-policy/"}},
	{"refund_policy", []string{"/policies/refund-policy", "/policies/refund-policy/", "/policies/returns", "/policies/return-policy"}},
	{"terms_of_service", []string{"/policies/terms-of-service", "/policies/terms-of-service/"}},
}

// PolicyResolver maps the three fixed policy categories to resolved URLs,
// preferring the page's own links and probing well-known paths as fallback.
type PolicyResolver struct {
	fetcher          domain.Fetcher
	probeConcurrency int
}

// NewPolicyResolver creates a new policy resolver
func NewPolicyResolver(fetcher domain.Fetcher, probeConcurrency int) *PolicyResolver {
	if probeConcurrency < 1 {
		probeConcurrency = 1
	}
	return &PolicyResolver{fetcher: fetcher, probeConcurrency: probeConcurrency}
}

// Resolve returns a PolicyLinks with exactly the three fixed categories,
// each either an absolute URL or nil. Categories with a link-table match are
// never probed; the rest probe their candidate paths concurrently, with ties
// broken by declared pattern order.
func (r *PolicyResolver) Resolve(ctx context.Context, baseURL string, links map[string]string) domain.PolicyLinks {
	results := make([]*string, len(policyPatterns))

	var g errgroup.Group
	for i, category := range policyPatterns {
		if resolved := matchLinkTable(baseURL, links, category.paths); resolved != "" {
			results[i] = &resolved
			continue
		}
		g.Go(func() error {
			results[i] = r.probeCategory(ctx, baseURL, category.paths)
			return nil
		})
	}
	g.Wait()

	return domain.PolicyLinks{
		PrivacyPolicy:  results[0],
		RefundPolicy:   results[1],
		TermsOfService: results[2],
	}
}

// matchLinkTable scans the link table for an href containing one of the
// category's path substrings. First match wins, over a key-sorted view of
// the table so repeated runs resolve identically.
func matchLinkTable(baseURL string, links map[string]string, paths []string) string {
	keys := make([]string, 0, len(links))
	for k := range links {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		href := links[k]
		if href == "" {
			continue
		}
		for _, path := range paths {
			if strings.Contains(href, path) {
				return resolveURL(baseURL, href)
			}
		}
	}
	return ""
}

// probeCategory issues reachability checks for each candidate path with
// bounded fan-out. The first reachable candidate in declared order wins
// regardless of probe completion order.
func (r *PolicyResolver) probeCategory(ctx context.Context, baseURL string, paths []string) *string {
	base := strings.TrimRight(baseURL, "/")

	reachable := make([]bool, len(paths))
	var g errgroup.Group
	g.SetLimit(r.probeConcurrency)
	for i, path := range paths {
		candidate := base + path
		g.Go(func() error {
			reachable[i] = r.fetcher.Probe(ctx, candidate)
			return nil
		})
	}
	g.Wait()

	for i, ok := range reachable {
		if ok {
			resolved := base + paths[i]
			return &resolved
		}
	}
	return nil
}

// resolveURL joins an href against the storefront base URL
func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
