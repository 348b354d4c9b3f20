// Fashintel - Fashion Catalog Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashintel

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config holds the recommendation engine configuration.
type Config struct {
	// Artifact controls where the model artifact is loaded from.
	Artifact ArtifactConfig `json:"artifact"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache configures the optional result cache.
	Cache CacheConfig `json:"cache"`
}

// ArtifactConfig locates the model artifact.
type ArtifactConfig struct {
	// Dir is the artifact store directory.
	// Default: "./models".
	Dir string `json:"dir"`

	// Name is the artifact family name inside Dir.
	// Default: "recommender".
	Name string `json:"name"`

	// ReloadInterval is how often the serving process re-checks the store for
	// a newer version. Zero disables periodic reloads.
	// Default: 5m.
	ReloadInterval time.Duration `json:"reload_interval"`

	// LoadTimeout bounds a single artifact load.
	// Default: 30s.
	LoadTimeout time.Duration `json:"load_timeout"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request does not specify top_n.
	// Default: 8.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the requested top_n.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`

	// CatalogTimeout bounds the catalog join of one request.
	// Default: 5s.
	CatalogTimeout time.Duration `json:"catalog_timeout"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether non-empty responses are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Artifact: ArtifactConfig{
			Dir:            "./models",
			Name:           "recommender",
			ReloadInterval: 5 * time.Minute,
			LoadTimeout:    30 * time.Second,
		},
		Limits: LimitsConfig{
			DefaultTopN:    8,
			MaxTopN:        100,
			CatalogTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Artifact.Dir == "" {
		return fmt.Errorf("artifact.dir is required")
	}
	if c.Artifact.Name == "" {
		return fmt.Errorf("artifact.name is required")
	}
	if c.Artifact.ReloadInterval < 0 {
		return fmt.Errorf("artifact.reload_interval must be non-negative, got %v", c.Artifact.ReloadInterval)
	}
	if c.Artifact.LoadTimeout <= 0 {
		return fmt.Errorf("artifact.load_timeout must be positive, got %v", c.Artifact.LoadTimeout)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.CatalogTimeout <= 0 {
		return fmt.Errorf("limits.catalog_timeout must be positive, got %v", c.Limits.CatalogTimeout)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type artifact struct {
		Dir            string `json:"dir"`
		Name           string `json:"name"`
		ReloadInterval string `json:"reload_interval"`
		LoadTimeout    string `json:"load_timeout"`
	}
	type limits struct {
		DefaultTopN    int    `json:"default_top_n"`
		MaxTopN        int    `json:"max_top_n"`
		CatalogTimeout string `json:"catalog_timeout"`
	}
	type cache struct {
		Enabled bool   `json:"enabled"`
		TTL     string `json:"ttl"`
	}
	return json.Marshal(struct {
		Artifact artifact `json:"artifact"`
		Limits   limits   `json:"limits"`
		Cache    cache    `json:"cache"`
	}{
		Artifact: artifact{
			Dir:            c.Artifact.Dir,
			Name:           c.Artifact.Name,
			ReloadInterval: c.Artifact.ReloadInterval.String(),
			LoadTimeout:    c.Artifact.LoadTimeout.String(),
		},
		Limits: limits{
			DefaultTopN:    c.Limits.DefaultTopN,
			MaxTopN:        c.Limits.MaxTopN,
			CatalogTimeout: c.Limits.CatalogTimeout.String(),
		},
		Cache: cache{
			Enabled: c.Cache.Enabled,
			TTL:     c.Cache.TTL.String(),
		},
	})
}

// ClampTopN applies the default and the upper limit to a requested top_n.
// Zero selects the default; negative values are returned unchanged so the
// scorer can reject them.
func (c *Config) ClampTopN(topN int) int {
	switch {
	case topN == 0:
		return c.Limits.DefaultTopN
	case topN > c.Limits.MaxTopN:
		return c.Limits.MaxTopN
	default:
		return topN
	}
}
