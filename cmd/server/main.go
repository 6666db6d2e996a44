package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopsight/backend/config"
	httpDelivery "github.com/shopsight/backend/internal/delivery/http"
	"github.com/shopsight/backend/internal/domain"
	"github.com/shopsight/backend/internal/infrastructure/cache"
	"github.com/shopsight/backend/internal/infrastructure/fetch"
	"github.com/shopsight/backend/internal/infrastructure/shopify"
	"github.com/shopsight/backend/internal/infrastructure/store"
	"github.com/shopsight/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopSight Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	fetcher := fetch.NewClient(fetch.Config{
		Timeout:      cfg.Fetch.Timeout,
		ProbeTimeout: cfg.Fetch.ProbeTimeout,
		UserAgent:    cfg.Fetch.UserAgent,
		RateLimit:    cfg.Fetch.RateLimit,
		RateBurst:    cfg.Fetch.RateBurst,
	})
	catalogClient := shopify.NewCatalogClient(fetcher)

	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		fetcher.SetDebug(true)
		catalogClient.SetDebug(true)
		log.Printf("Fetch debug mode enabled")
	}

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	var brandStore domain.BrandRepository
	if cfg.Store.Enabled {
		sqliteStore, err := store.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open brand store: %v", err)
		}
		defer sqliteStore.Close()
		brandStore = sqliteStore
		log.Printf("Persistence enabled: %s", cfg.Store.Path)
	} else {
		log.Printf("Persistence disabled")
	}

	// Initialize usecase layer
	insightsService := usecase.NewInsightsService(
		fetcher,
		catalogClient,
		memoryCache,
		brandStore,
		usecase.InsightsServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			TotalTimeout:       cfg.Extraction.TotalTimeout,
			ProbeConcurrency:   cfg.Extraction.ProbeConcurrency,
			EnableDebugLogging: debug,
		},
	)

	log.Printf("Extraction: total_timeout=%s, probe_concurrency=%d",
		cfg.Extraction.TotalTimeout, cfg.Extraction.ProbeConcurrency)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(insightsService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
