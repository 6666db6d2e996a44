package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/config"
	"github.com/shopsight/backend/internal/domain"
	"github.com/shopsight/backend/internal/infrastructure/cache"
	"github.com/shopsight/backend/internal/infrastructure/shopify"
	"github.com/shopsight/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// setupTestRouter creates a test router with default configuration
func setupTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}

	// Pass nil for the insights service - handler returns 503 for the
	// extraction endpoint
	handler := NewHandler(nil)
	return SetupRouter(cfg, handler)
}

func TestRootEndpoint(t *testing.T) {
	router := setupTestRouter()

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("status = %v, want ok", response["status"])
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "shopsight-backend" {
			t.Errorf("service = %v, want shopsight-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestFetchInsightsEndpoint(t *testing.T) {
	t.Run("returns unavailable when service not configured", func(t *testing.T) {
		router := setupTestRouter()

		payload := `{"website_url":"https://acme.com"}`
		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		errorMsg, ok := response["error"].(string)
		if !ok {
			t.Errorf("error field is not a string: %v", response["error"])
		} else if !strings.Contains(errorMsg, "not configured") {
			t.Errorf("error = %q, want to contain 'not configured'", errorMsg)
		}
	})

	t.Run("validates HTTP method", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			req, _ := http.NewRequest(method, "/api/v1/insights/fetch", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})

	t.Run("requires correct path", func(t *testing.T) {
		router := setupTestRouter()

		incorrectPaths := []string{
			"/api/v1/insights",
			"/api/v1/insights/",
			"/api/insights/fetch",
			"/insights/fetch",
		}

		for _, path := range incorrectPaths {
			req, _ := http.NewRequest("POST", path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Path %s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for allowed origin", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}

		gotCreds := w.Header().Get("Access-Control-Allow-Credentials")
		if gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}
	})

	t.Run("insights endpoint has CORS for allowed origin", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		// Gin's default recovery returns 500
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/"},
		{"GET", "/health"},
		{"POST", "/api/v1/insights/fetch"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}

// --- Stub fetcher for testing with a real InsightsService ---

// stubFetcher serves canned pages keyed by URL
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := f.pages[url]; ok {
		return []byte(body), nil
	}
	return nil, domain.ErrFetchFailed
}

func (f *stubFetcher) Probe(ctx context.Context, url string) bool {
	_, ok := f.pages[url]
	return ok
}

// setupTestRouterWithService creates a test router with a real InsightsService
// backed by a stub fetcher
func setupTestRouterWithService(fetcher domain.Fetcher) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}

	insights := usecase.NewInsightsService(
		fetcher,
		shopify.NewCatalogClient(fetcher),
		cache.NewMemoryCache(),
		nil,
		usecase.InsightsServiceConfig{
			CacheTTL:         time.Hour,
			TotalTimeout:     10 * time.Second,
			ProbeConcurrency: 2,
		},
	)

	handler := NewHandler(insights)
	return SetupRouter(cfg, handler)
}

// TestFetchInsightsWithService tests the extraction endpoint with a real service
func TestFetchInsightsWithService(t *testing.T) {
	t.Run("returns brand context for reachable storefront", func(t *testing.T) {
		fetcher := &stubFetcher{pages: map[string]string{
			"https://acme.com": `<html><head><title>Acme Goods</title></head><body>
				<div class="product-card"><a href="/products/widget">Widget</a></div>
				<a href="/policies/privacy-policy">Privacy</a>
				</body></html>`,
			"https://acme.com/products.json": `{"products":[{"id":1,"title":"Widget","handle":"widget"}]}`,
		}}

		router := setupTestRouterWithService(fetcher)

		payload := `{"website_url":"https://acme.com"}`
		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["website_url"] != "https://acme.com" {
			t.Errorf("website_url = %v", response["website_url"])
		}
		if response["store_title"] != "Acme Goods" {
			t.Errorf("store_title = %v", response["store_title"])
		}

		policies, ok := response["policies"].(map[string]interface{})
		if !ok {
			t.Fatalf("policies = %v, want object", response["policies"])
		}
		for _, key := range []string{"privacy_policy", "refund_policy", "terms_of_service"} {
			if _, present := policies[key]; !present {
				t.Errorf("policies missing key %q", key)
			}
		}
		if policies["privacy_policy"] != "https://acme.com/policies/privacy-policy" {
			t.Errorf("privacy_policy = %v", policies["privacy_policy"])
		}

		metadata, ok := response["metadata"].(map[string]interface{})
		if !ok {
			t.Fatalf("metadata = %v, want object", response["metadata"])
		}
		if metadata["found_products_count"] != float64(1) {
			t.Errorf("found_products_count = %v, want 1", metadata["found_products_count"])
		}
		if metadata["found_hero_count"] != float64(1) {
			t.Errorf("found_hero_count = %v, want 1", metadata["found_hero_count"])
		}
	})

	t.Run("returns 400 for missing website_url", func(t *testing.T) {
		router := setupTestRouterWithService(&stubFetcher{pages: map[string]string{}})

		payload := `{}`
		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] == nil {
			t.Error("expected error field in response")
		}
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		router := setupTestRouterWithService(&stubFetcher{pages: map[string]string{}})

		payload := `{invalid json}`
		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 404 for unreachable storefront", func(t *testing.T) {
		router := setupTestRouterWithService(&stubFetcher{pages: map[string]string{}})

		payload := `{"website_url":"https://missing.example"}`
		req, _ := http.NewRequest("POST", "/api/v1/insights/fetch", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		errorMsg, ok := response["error"].(string)
		if !ok || !strings.Contains(errorMsg, "unreachable") {
			t.Errorf("error = %v, want unreachable message", response["error"])
		}
	})
}
