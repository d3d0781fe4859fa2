package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound    = errors.New("cache entry not found")
	ErrExpired     = errors.New("cache entry expired")
	ErrInvalidKey  = errors.New("invalid cache key")
	ErrStoreClosed = errors.New("cache store closed")

	ErrUnknownBackend = errors.New("unknown cache backend")
)
