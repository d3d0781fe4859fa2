package nbaapi

import (
	"errors"
	"fmt"
)

// Sentinel kinds for stats API errors.
var (
	ErrUpstreamStatus    = errors.New("stats api returned an error status")
	ErrMalformedResponse = errors.New("stats api response is malformed")
	ErrMissingColumn     = errors.New("stats api response is missing a column")
)

// StatusError carries the HTTP status of a failed stats API call.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUpstreamStatus, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUpstreamStatus }

// retryable reports whether a response status is worth retrying.
func retryable(code int) bool {
	return code == 429 || code >= 500
}
