// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(ctx, &cfg.Database)
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds MongoDB connection settings.
type DatabaseConfig struct {
	URI  string `koanf:"uri"`
	Name string `koanf:"name"`

	// Client timeouts. Every store call is bounded by these.
	ConnectTimeout         time.Duration `koanf:"connect_timeout"`
	SocketTimeout          time.Duration `koanf:"socket_timeout"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout"`

	MaxPoolSize uint64 `koanf:"max_pool_size"`
	RetryWrites bool   `koanf:"retry_writes"`

	// CircuitBreaker wraps catalog reads so a failing store is rejected fast.
	CircuitBreaker bool `koanf:"circuit_breaker"`

	// Breaker trip policy. Zero values take the breaker's defaults.
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `koanf:"breaker_open_timeout"`
}

// DatasetConfig holds the product dataset ingestion settings.
type DatasetConfig struct {
	// Path is the CSV file read by the ingestion pipeline.
	Path string `koanf:"path"`

	// IngestOnStartup runs the pipeline once when the server starts.
	IngestOnStartup bool `koanf:"ingest_on_startup"`
}

// RecommendConfig holds recommendation serving settings.
type RecommendConfig struct {
	ModelDir       string        `koanf:"model_dir"`
	ModelName      string        `koanf:"model_name"`
	DefaultTopN    int           `koanf:"default_top_n"`
	MaxTopN        int           `koanf:"max_top_n"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	LoadTimeout    time.Duration `koanf:"load_timeout"`
	CatalogTimeout time.Duration `koanf:"catalog_timeout"`
	CacheEnabled   bool          `koanf:"cache_enabled"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string `koanf:"backend"`

	// RedisURL is required when Backend is "redis", e.g. redis://localhost:6379/0.
	RedisURL string `koanf:"redis_url"`

	// KeyPrefix namespaces keys in a shared redis.
	KeyPrefix string `koanf:"key_prefix"`

	// MaxEntries bounds the memory backend. Zero means unbounded.
	MaxEntries int `koanf:"max_entries"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds API pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
	PageLinks       int `koanf:"page_links"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AdminToken protects the reload and ingest endpoints when set.
	AdminToken string `koanf:"admin_token"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load loads configuration from the default file locations and the
// environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
