package nbaapi

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the stats API root, e.g. "https://stats.nba.com/stats".
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds a single request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit spaces requests at least interval apart, allowing burst
// requests at once. A zero interval disables limiting.
func WithRateLimit(interval time.Duration, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}
		limit := rate.Inf
		if interval > 0 {
			limit = rate.Every(interval)
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithMaxRetries caps retries of transient failures; 0 disables retrying.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialBackoff sets the first retry delay; later delays grow exponentially.
func WithInitialBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.initialBackoff = d
		}
	}
}

// WithSeasonType sets the SeasonType query parameter.
func WithSeasonType(s string) Option {
	return func(c *Client) {
		if s != "" {
			c.seasonType = s
		}
	}
}

// WithPerMode sets the PerMode query parameter.
func WithPerMode(s string) Option {
	return func(c *Client) {
		if s != "" {
			c.perMode = s
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}
