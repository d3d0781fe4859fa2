package cache

import (
	"time"

	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

type storeConfig struct {
	now    func() time.Time
	logger logger.Logger
}

func defaultStoreConfig() storeConfig {
	return storeConfig{now: time.Now}
}

// Option configures a Store.
type Option func(*storeConfig)

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for store lifecycle messages.
func WithLogger(l logger.Logger) Option {
	return func(c *storeConfig) {
		c.logger = l
	}
}
