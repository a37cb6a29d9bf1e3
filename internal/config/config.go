// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package config loads and validates service configuration from layered
// sources: built-in defaults, an optional YAML file, and environment
// variables, in that order of precedence (env highest).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the service.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig locates the read-only startup artifacts.
type CatalogConfig struct {
	// MoviesPath is the JSON file holding catalog entries (id, title,
	// optional descriptive fields).
	MoviesPath string `koanf:"movies_path" validate:"required"`

	// TitlesPath is the JSON file holding the ordered title list.
	TitlesPath string `koanf:"titles_path" validate:"required"`

	// SimilarityPath is the JSON file holding the square similarity
	// matrix; row i carries the similarities of entry i to all entries.
	SimilarityPath string `koanf:"similarity_path" validate:"required"`
}

// TMDBConfig configures the external detail provider client.
type TMDBConfig struct {
	BaseURL      string `koanf:"base_url" validate:"required,url"`
	ImageBaseURL string `koanf:"image_base_url" validate:"required,url"`
	SiteBaseURL  string `koanf:"site_base_url" validate:"required,url"`

	// APIKey is the static credential sent with every provider request.
	APIKey string `koanf:"api_key" validate:"required"`

	// Timeout bounds each individual provider request.
	Timeout time.Duration `koanf:"timeout"`

	// MaxAttempts is the total number of tries per request, including
	// the first. Only 429 and 5xx responses are retried.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1"`

	// RetryBaseDelay seeds the exponential backoff between attempts.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimit caps outbound provider requests per second.
	// 0 disables client-side rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker guarding provider calls.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// FailureThreshold is the number of consecutive failures that trips
	// the breaker open.
	FailureThreshold uint32 `koanf:"failure_threshold"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRequests is the number of probe requests allowed half-open.
	MaxRequests uint32 `koanf:"max_requests"`
}

// EnrichConfig configures the detail cache and enrichment fan-out.
type EnrichConfig struct {
	// Workers is the bounded degree of parallelism when enriching a
	// candidate set.
	Workers int `koanf:"workers" validate:"min=1"`

	// CacheMaxEntries bounds the detail cache. 0 keeps the baseline
	// unbounded map; a positive value switches to an LRU store.
	CacheMaxEntries int `koanf:"cache_max_entries" validate:"min=0"`
}

// RecommendConfig configures the recommendation pipeline.
type RecommendConfig struct {
	// DefaultK is the number of similar entries returned per request.
	DefaultK int `koanf:"default_k" validate:"min=1"`
	MaxK     int `koanf:"max_k" validate:"min=1"`

	// FuzzyThreshold is the minimum similarity ratio a fuzzy title match
	// must strictly exceed to be accepted.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold" validate:"gt=0,lt=1"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			MoviesPath:     "data/movies.json",
			TitlesPath:     "data/titles.json",
			SimilarityPath: "data/similarity.json",
		},
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p",
			SiteBaseURL:    "https://www.themoviedb.org",
			APIKey:         "",
			Timeout:        10 * time.Second,
			MaxAttempts:    3,
			RetryBaseDelay: 1 * time.Second,
			RateLimit:      40, // TMDB's documented burst allowance per 10s window
			RateBurst:      10,
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				Timeout:          30 * time.Second,
				MaxRequests:      1,
			},
		},
		Enrich: EnrichConfig{
			Workers:         8,
			CacheMaxEntries: 0, // unbounded by default
		},
		Recommend: RecommendConfig{
			DefaultK:       10,
			MaxK:           50,
			FuzzyThreshold: 0.8,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8506,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", c.TMDB.Timeout)
	}
	if c.TMDB.RetryBaseDelay <= 0 {
		return fmt.Errorf("tmdb.retry_base_delay must be positive, got %s", c.TMDB.RetryBaseDelay)
	}
	if c.TMDB.RateLimit < 0 {
		return fmt.Errorf("tmdb.rate_limit must not be negative, got %f", c.TMDB.RateLimit)
	}
	if c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.default_k (%d) exceeds recommend.max_k (%d)",
			c.Recommend.DefaultK, c.Recommend.MaxK)
	}

	return nil
}
