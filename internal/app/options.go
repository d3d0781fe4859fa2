package service

import (
	"time"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/cache"
	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream source of season rows.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithStore sets the disk cache. The service closes it on Stop.
func WithStore(store cache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithCacheTTL expires cached seasons after ttl; 0 keeps them forever.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithSeasonRange sets the selectable seasons by start year, inclusive.
func WithSeasonRange(first, last int) Option {
	return func(s *Service) {
		if first <= last {
			s.seasons = season.Range(first, last)
		}
	}
}

// WithStatsParams sets the season type and per-mode that key the cache.
// Fetchers exposing SeasonType and PerMode override these at Start.
func WithStatsParams(seasonType, perMode string) Option {
	return func(s *Service) {
		if seasonType != "" {
			s.seasonType = seasonType
		}
		if perMode != "" {
			s.perMode = perMode
		}
	}
}

// WithWorkerCount sets the number of prefetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the prefetch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPrefetch enables loading every season in the background at Start.
func WithPrefetch(enabled bool) Option {
	return func(s *Service) {
		s.prefetch = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
