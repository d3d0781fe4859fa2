// Package config defines the dashboard configuration and how it is loaded.
//
// Conventions:
//   - New(ctx) returns a Config holding every default.
//   - Load(ctx) layers a YAML file and NBADASH_* environment variables on top.
//   - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache backend names.
const (
	CacheBackendSQLite = "sqlite"
	CacheBackendFS     = "fs"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log line format: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8051".
	Addr string `koanf:"addr"`

	// CacheDir is the directory holding the disk cache.
	CacheDir string `koanf:"cache_dir"`
	// CacheBackend selects the disk cache implementation: sqlite or fs.
	CacheBackend string `koanf:"cache_backend"`
	// CacheTTLSeconds expires cached seasons after the given age; 0 keeps them forever.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// APIBaseURL is the stats API root, without trailing slash.
	APIBaseURL string `koanf:"api_base_url"`
	// APITimeoutMS bounds a single upstream request.
	APITimeoutMS int `koanf:"api_timeout_ms"`
	// APIMaxRetries caps retries of transient upstream failures.
	APIMaxRetries int `koanf:"api_max_retries"`
	// APIRateIntervalMS is the minimum spacing between upstream requests.
	APIRateIntervalMS int `koanf:"api_rate_interval_ms"`
	// APIRateBurst allows short bursts above the steady rate.
	APIRateBurst int `koanf:"api_rate_burst"`

	// FirstSeasonYear and LastSeasonYear bound the selectable seasons by start year.
	FirstSeasonYear int `koanf:"first_season_year"`
	LastSeasonYear  int `koanf:"last_season_year"`

	// SeasonType and PerMode are passed to the stats endpoint.
	SeasonType string `koanf:"season_type"`
	PerMode    string `koanf:"per_mode"`

	// PrefetchEnabled warms every season in the background at startup.
	PrefetchEnabled bool `koanf:"prefetch_enabled"`
	// WorkerCount sets the number of prefetch workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the prefetch queue.
	QueueSize int `koanf:"queue_size"`
}

// New creates a Config with defaults. The context is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8051",
		CacheDir:          "./cache",
		CacheBackend:      CacheBackendSQLite,
		CacheTTLSeconds:   0,
		APIBaseURL:        "https://stats.nba.com/stats",
		APITimeoutMS:      30_000,
		APIMaxRetries:     3,
		APIRateIntervalMS: 2_000,
		APIRateBurst:      1,
		FirstSeasonYear:   1990,
		LastSeasonYear:    2024,
		SeasonType:        "Regular Season",
		PerMode:           "Totals",
		PrefetchEnabled:   true,
		WorkerCount:       1,
		QueueSize:         64,
	}
}

// CacheTTL returns the cache expiry as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// APITimeout returns the per-request upstream timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// APIRateInterval returns the minimum spacing between upstream requests.
func (c *Config) APIRateInterval() time.Duration {
	return time.Duration(c.APIRateIntervalMS) * time.Millisecond
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CacheDir) == "":
		return fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	case c.CacheBackend != CacheBackendSQLite && c.CacheBackend != CacheBackendFS:
		return fmt.Errorf("%w: cache_backend must be %q or %q, got %q",
			ErrInvalidConfig, CacheBackendSQLite, CacheBackendFS, c.CacheBackend)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be >= 0", ErrInvalidConfig)
	case strings.TrimSpace(c.APIBaseURL) == "":
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	case c.APITimeoutMS <= 0:
		return fmt.Errorf("%w: api_timeout_ms must be > 0", ErrInvalidConfig)
	case c.APIMaxRetries < 0:
		return fmt.Errorf("%w: api_max_retries must be >= 0", ErrInvalidConfig)
	case c.APIRateIntervalMS < 0:
		return fmt.Errorf("%w: api_rate_interval_ms must be >= 0", ErrInvalidConfig)
	case c.APIRateBurst < 1:
		return fmt.Errorf("%w: api_rate_burst must be >= 1", ErrInvalidConfig)
	case c.FirstSeasonYear < 1946 || c.LastSeasonYear > 9998:
		return fmt.Errorf("%w: season years out of range", ErrInvalidConfig)
	case c.FirstSeasonYear > c.LastSeasonYear:
		return fmt.Errorf("%w: first_season_year %d after last_season_year %d",
			ErrInvalidConfig, c.FirstSeasonYear, c.LastSeasonYear)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be >= 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be >= 1", ErrInvalidConfig)
	}
	return nil
}
