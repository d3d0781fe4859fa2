// Package cache is the disk cache in front of the stats API.
//
// A Store keeps opaque values by key. Memoize wraps a fetch function so a
// value is fetched once and then served from the store, also across restarts.
package cache

import (
	"context"
	"strings"
	"time"
)

// Entry is one cached value.
type Entry struct {
	Key       string
	Value     []byte
	CreatedAt time.Time
	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Store provides read/write access to cached values.
type Store interface {
	// Get returns the entry for key. It returns ErrNotFound for unknown keys
	// and ErrExpired for entries past their expiry.
	Get(ctx context.Context, key string) (Entry, error)
	// Set stores value under key, replacing any previous entry. A ttl <= 0
	// stores an entry that never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an unknown key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys in ascending order, expired ones included.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// SeasonKey builds the cache key of one leaguedashteamstats call.
func SeasonKey(season, seasonType, perMode string) string {
	return strings.Join([]string{"leaguedashteamstats", season, seasonType, perMode}, ":")
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
