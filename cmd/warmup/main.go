package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/angelnenov7/nba-dashboard/internal/warmup"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers    = 2
	defaultTimeout    = 2 * time.Minute
	defaultRunTimeout = 30 * time.Minute
)

func main() {
	os.Exit(run())
}

// run parses flags, warms the selected seasons and returns the exit code.
func run() int {
	var (
		baseURL   = flag.StringP("url", "u", "http://localhost:8051", "Base URL of the dashboard")
		seasons   = flag.StringP("seasons", "s", "", "Comma separated seasons, e.g. 2023-24,2022-23")
		first     = flag.Int("first", 0, "First season start year (with --last)")
		last      = flag.Int("last", 0, "Last season start year (with --first)")
		workers   = flag.IntP("workers", "w", defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		logFile   = flag.String("log", "", "Also write logs to this file")
		logFormat = flag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose   = flag.BoolP("verbose", "v", false, "Log every season result")
		help      = flag.BoolP("help", "h", false, "Show help")
	)
	flag.Usage = func() {
		os.Stderr.WriteString(warmup.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help {
		flag.Usage()
		return 0
	}

	closeLog, err := warmup.SetupLogging(*logFile, *logFormat, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closeLog() }()

	list, err := warmup.Seasons(*seasons, *first, *last)
	if err != nil {
		os.Stderr.WriteString("Invalid seasons: " + err.Error() + "\n")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	stats, err := warmup.Run(ctx, &warmup.Config{
		BaseURL: *baseURL,
		Seasons: list,
		Workers: *workers,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "warmup failed", logger.Error(err))
		return 1
	}
	if stats.Failed > 0 {
		return 1
	}
	return 0
}
