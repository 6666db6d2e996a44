package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Fetch      FetchConfig
	Extraction ExtractionConfig
	Cache      CacheConfig
	Store      StoreConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig holds outbound HTTP configuration
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second
	RateBurst    int           `mapstructure:"rate_burst"`
}

// ExtractionConfig holds pipeline-level configuration
type ExtractionConfig struct {
	TotalTimeout     time.Duration `mapstructure:"total_timeout"`
	ProbeConcurrency int           `mapstructure:"probe_concurrency"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds persistence configuration. Persistence is optional;
// when disabled extraction results are only returned to the caller.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopsight/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPSIGHT")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Fetch defaults
	v.SetDefault("fetch.timeout", "10s")
	v.SetDefault("fetch.probe_timeout", "5s")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; ShopSight/1.0; +https://example.com)")
	v.SetDefault("fetch.rate_limit", 5.0)
	v.SetDefault("fetch.rate_burst", 10)

	// Extraction defaults
	v.SetDefault("extraction.total_timeout", "45s")
	v.SetDefault("extraction.probe_concurrency", 4)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Store defaults
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "./shopsight.db")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got: %s", config.Fetch.Timeout)
	}

	if config.Fetch.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got: %s", config.Fetch.ProbeTimeout)
	}

	if config.Extraction.ProbeConcurrency < 1 {
		return fmt.Errorf("probe concurrency must be at least 1, got: %d", config.Extraction.ProbeConcurrency)
	}

	if config.Store.Enabled && config.Store.Path == "" {
		return fmt.Errorf("store path is required when persistence is enabled")
	}

	return nil
}
