package warmup

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

// Run warms every configured season against a running dashboard. Individual
// season failures are counted in Stats; only setup problems return an error.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("warmup")

	log.Info(ctx, "starting cache warmup",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.checkHealth(ctx); err != nil {
		return nil, err
	}

	seasons := cfg.Seasons
	if len(seasons) == 0 {
		var err error
		if seasons, err = client.seasons(ctx); err != nil {
			return nil, fmt.Errorf("list seasons: %w", err)
		}
	}
	if len(seasons) == 0 {
		return nil, ErrNoSeasons
	}

	stats.Requested = len(seasons)
	stats.Results = make([]Result, len(seasons))

	workers := max(1, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range seasons {
		g.Go(func() error {
			res := client.warm(gctx, s)
			stats.Results[i] = res
			if cfg.Verbose {
				logResult(gctx, log, res)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range stats.Results {
		if r.OK() {
			stats.Successful++
		} else {
			stats.Failed++
		}
		stats.Slowest = max(stats.Slowest, r.Duration)
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, log, stats)
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("warmup interrupted: %w", err)
	}
	return stats, nil
}

func logResult(ctx context.Context, log logger.Logger, r Result) {
	fields := []logger.Field{
		logger.String("season", r.Season),
		logger.Int("status", r.Status),
		logger.Int("teams", r.Teams),
		logger.Duration("duration", r.Duration),
	}
	if !r.OK() {
		log.Warn(ctx, "season failed", append(fields, logger.Error(r.Err))...)
		return
	}
	log.Info(ctx, "season warmed", fields...)
}

// displayFinalStats logs the run summary and every failed season.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate float64
	if stats.Requested > 0 {
		successRate = float64(stats.Successful) / float64(stats.Requested) * percentageMultiplier
	}

	for _, r := range stats.Failures() {
		log.Warn(ctx, "season not warmed", logger.String("season", r.Season), logger.Error(r.Err))
	}
	log.Info(ctx, "final statistics",
		logger.Int("requested", stats.Requested),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Duration("slowest", stats.Slowest),
		logger.Float64("successRate", successRate))
}

const percentageMultiplier = 100
