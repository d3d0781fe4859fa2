package service

import "errors"

var (
	// ErrUnknownSeason is returned for a season outside the configured range.
	ErrUnknownSeason = errors.New("season not available")

	// ErrNoData is returned when a season loaded but has no displayable rows.
	ErrNoData = errors.New("no data for season")

	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")

	// ErrMissingFetcher and ErrMissingStore are returned by Start when a
	// required dependency was not provided.
	ErrMissingFetcher = errors.New("service: no fetcher configured")
	ErrMissingStore   = errors.New("service: no cache store configured")
)
