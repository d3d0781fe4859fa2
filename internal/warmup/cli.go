package warmup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging points the global logger at stdout, and at logFile too when
// one is given. The returned func closes the file.
func SetupLogging(logFile, format string, verbose bool) (func() error, error) {
	var w io.Writer = os.Stdout
	closeFn := func() error { return nil }

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closeFn = file.Close
	}

	if err := logger.InitWith(w, format); err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// Seasons resolves the season selection of the command line. An explicit
// comma separated list wins over a start year range; with neither, nil is
// returned and the dashboard's own list is used.
func Seasons(list string, first, last int) ([]string, error) {
	if list = strings.TrimSpace(list); list != "" {
		var out []string
		for _, raw := range strings.Split(list, ",") {
			s, err := season.Parse(strings.TrimSpace(raw))
			if err != nil {
				return nil, err
			}
			out = append(out, s.String())
		}
		return out, nil
	}
	if first == 0 && last == 0 {
		return nil, nil
	}
	if first == 0 {
		first = last
	}
	if last == 0 {
		last = first
	}
	if first > last {
		return nil, fmt.Errorf("%w: first year %d after last year %d", season.ErrInvalidSeason, first, last)
	}
	r := season.Range(first, last)
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = s.String()
	}
	return out, nil
}

// Usage is printed above the flag defaults by the warmup command.
const Usage = `NBA Dashboard Cache Warmer
==========================

Requests every season's team stats from a running dashboard so the
upstream data lands in the disk cache.

Usage:
  warmup [options]

Examples:
  # Warm every season the dashboard offers
  warmup

  # Warm the 2010s with four workers
  warmup --first 2010 --last 2019 --workers 4

  # Warm two seasons and keep a log file
  warmup --seasons 2023-24,2022-23 --log warmup.log

Options:
`
