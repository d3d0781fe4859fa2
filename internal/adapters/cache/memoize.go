package cache

import (
	"context"
	"errors"
	"time"

	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

// FetchFunc produces the value to cache on a miss.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Memoize returns the cached slice stored under key, or calls fetch and
// stores its result. hit reports whether the value came from the store.
//
// Fetch errors and empty results are never stored. Entries that cannot be
// decoded, are expired or cannot be read count as misses and are replaced by
// the fresh result. A failing write does not fail the call.
func Memoize[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch FetchFunc[T]) (value []T, hit bool, err error) {
	entry, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var cached []T
		if decodeErr := json.Unmarshal(entry.Value, &cached); decodeErr == nil && len(cached) > 0 {
			metrics.RecordCacheLookup(metrics.LayerDisk, true)
			return cached, true, nil
		}
		metrics.RecordCacheError("decode")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
	default:
		metrics.RecordCacheError("get")
	}
	metrics.RecordCacheLookup(metrics.LayerDisk, false)

	fresh, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(fresh) == 0 {
		return fresh, false, nil
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		metrics.RecordCacheError("encode")
		return fresh, false, nil
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		metrics.RecordCacheError("set")
		return fresh, false, nil
	}
	metrics.RecordCacheWrite()
	return fresh, false, nil
}

// Open returns the store selected by backend ("sqlite" or "fs") rooted at dir.
func Open(ctx context.Context, backend, dir string, opts ...Option) (Store, error) {
	switch backend {
	case "", BackendSQLite:
		return NewSQLiteStore(ctx, dir, opts...)
	case BackendFS:
		return NewFSStore(ctx, dir, opts...)
	default:
		return nil, ErrUnknownBackend
	}
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFS     = "fs"
)
