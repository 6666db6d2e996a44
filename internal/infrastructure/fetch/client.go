package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopsight/backend/internal/domain"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read. Storefront
// homepages larger than this are truncated, not rejected.
const maxBodyBytes = 10 * 1024 * 1024

// Config holds the outbound HTTP settings for the client
type Config struct {
	Timeout      time.Duration
	ProbeTimeout time.Duration
	UserAgent    string
	RateLimit    float64 // requests per second
	RateBurst    int
}

// Client performs outbound storefront requests with a per-call timeout
// and a shared rate limiter. It implements domain.Fetcher.
type Client struct {
	httpClient  *http.Client
	probeClient *http.Client
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new fetch client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5.0
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 10
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		probeClient: &http.Client{Timeout: cfg.ProbeTimeout},
		userAgent:   cfg.UserAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// SetDebug enables debug logging of fetch outcomes
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Get fetches a URL and returns the response body.
// A non-200 status or transport error is reported as ErrFetchFailed;
// there are no retries at this layer.
func (c *Client) Get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.debug {
			log.Printf("[FETCH] GET %s failed: %v", reqURL, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if c.debug {
			log.Printf("[FETCH] GET %s returned status %d", reqURL, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}

	return body, nil
}

// Probe checks whether a URL is reachable within the probe timeout.
// Any transport error, timeout, or non-200 status counts as unreachable.
func (c *Client) Probe(ctx context.Context, reqURL string) bool {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		if c.debug {
			log.Printf("[FETCH] probe %s failed: %v", reqURL, err)
		}
		return false
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return resp.StatusCode == http.StatusOK
}
