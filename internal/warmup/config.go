package warmup

import (
	"errors"
	"time"
)

// Errors returned before any season is requested.
var (
	ErrNoSeasons  = errors.New("no seasons to warm")
	ErrUnhealthy  = errors.New("dashboard is not healthy")
	ErrBadSeasons = errors.New("malformed seasons response")
)

// Config holds configuration for a warmup run.
type Config struct {
	BaseURL string        // Base URL of the dashboard
	Seasons []string      // Seasons to warm; empty asks the dashboard for its list
	Workers int           // Number of concurrent workers
	Timeout time.Duration // Per-request timeout
	LogFile string        // Optional log file mirrored with stdout
	Verbose bool          // Log every season result
}

// Result is the outcome of warming one season.
type Result struct {
	Season   string
	Status   int
	Teams    int
	Duration time.Duration
	Err      error
}

// OK reports whether the season loaded.
func (r Result) OK() bool { return r.Err == nil && r.Status == statusOK }

// Stats summarizes a warmup run.
type Stats struct {
	Requested  int
	Successful int
	Failed     int
	Results    []Result
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Slowest    time.Duration
}

// Failures returns the results that did not load, in request order.
func (s *Stats) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}
