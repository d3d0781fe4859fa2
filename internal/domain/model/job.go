package model

import "time"

// PrefetchJob asks a worker to load one season into the caches.
type PrefetchJob struct {
	Season     string
	EnqueuedAt time.Time
}
