// Package service provides the dashboard service behind the HTTP API: it
// loads season data through the memory and disk caches, aggregates it and
// prefetches seasons in the background.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/cache"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/mq/queue"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/mq/worker"
	"github.com/angelnenov7/nba-dashboard/internal/domain/dedupe"
	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/internal/domain/stats"
	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

const (
	defaultFirstSeason = 1990
	defaultLastSeason  = 2024
	defaultQueueSize   = 64
	defaultSeasonType  = "Regular Season"
	defaultPerMode     = "Totals"

	stopTimeout       = 10 * time.Second
	enqueueRetryDelay = 100 * time.Millisecond
)

// Fetcher returns the team totals of one season from upstream.
type Fetcher interface {
	LeagueDashTeamStats(ctx context.Context, season string) ([]model.TeamSeasonStats, error)
}

type loaded struct {
	rows []model.TeamSeasonStats
	at   time.Time
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher Fetcher
	store   cache.Store
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool
	group   singleflight.Group

	// Configuration
	ttl         time.Duration
	seasons     []season.Season
	seasonType  string
	perMode     string
	workerCount int
	queueSize   int
	prefetch    bool

	// Process memory layer
	dataMu sync.RWMutex
	data   map[season.Season]loaded

	// Counters for GetStats
	memoryHits      atomic.Int64
	diskHits        atomic.Int64
	upstreamFetches atomic.Int64
	loadErrors      atomic.Int64

	// State
	started bool
	runCtx  context.Context
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seasons:     season.Range(defaultFirstSeason, defaultLastSeason),
		seasonType:  defaultSeasonType,
		perMode:     defaultPerMode,
		workerCount: 1,
		queueSize:   defaultQueueSize,
		data:        make(map[season.Season]loaded),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the prefetch queue and workers and, when enabled, queues every
// season. Calling Start on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.fetcher == nil {
		return ErrMissingFetcher
	}
	if s.store == nil {
		return ErrMissingStore
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if p, ok := s.fetcher.(interface {
		SeasonType() string
		PerMode() string
	}); ok {
		s.seasonType, s.perMode = p.SeasonType(), p.PerMode()
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.runCtx, s.cancel = runCtx, cancel

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(len(s.seasons)))
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.queue = q
	s.pool = worker.NewPool(s.workerCount, q, loaderFunc(s.prefetchSeason),
		worker.WithLogger(s.logger),
		worker.WithDoneFunc(s.jobDone),
	)
	s.pool.Start(runCtx)
	s.started = true

	s.logger.Info(ctx, "dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("seasons", len(s.seasons)),
		logger.Bool("prefetch", s.prefetch),
		logger.String("seasonType", s.seasonType),
		logger.String("perMode", s.perMode),
	)

	if s.prefetch {
		go s.prefetchAll(runCtx)
	}
	return nil
}

// Stop drains the workers and closes the cache store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, store, cancelRun := s.pool, s.store, s.cancel
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping dashboard service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()
	if cancelRun != nil {
		cancelRun()
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	if err := store.Close(); err != nil {
		s.logger.Warn(ctx, "closing cache store", logger.Error(err))
	}
	s.logger.Info(ctx, "dashboard service stopped")
}

// Seasons returns the selectable seasons, newest first.
func (s *Service) Seasons() []season.Season {
	return append([]season.Season(nil), s.seasons...)
}

// DefaultSeason is the newest selectable season.
func (s *Service) DefaultSeason() season.Season {
	if len(s.seasons) == 0 {
		return ""
	}
	return s.seasons[0]
}

// LoadSeason returns the raw rows of one season from process memory, the
// disk cache or upstream, in that order. Concurrent loads of the same
// season share one upstream call.
func (s *Service) LoadSeason(ctx context.Context, sn season.Season) ([]model.TeamSeasonStats, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	if !season.Contains(s.seasons, sn) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSeason, sn)
	}
	if rows, ok := s.fromMemory(sn); ok {
		s.memoryHits.Add(1)
		metrics.RecordCacheLookup(metrics.LayerMemory, true)
		return rows, nil
	}
	metrics.RecordCacheLookup(metrics.LayerMemory, false)

	ch := s.group.DoChan(sn.String(), func() (any, error) {
		lctx, cancel := s.detach(ctx)
		defer cancel()
		return s.load(lctx, sn)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rows, _ := res.Val.([]model.TeamSeasonStats)
		return rows, nil
	}
}

// detach returns a context with the values of ctx that outlives it but is
// canceled when the service stops. A shared load must not fail because the
// request that started it went away.
func (s *Service) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	s.mu.RLock()
	run := s.runCtx
	s.mu.RUnlock()

	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if run == nil {
		return dctx, cancel
	}
	stop := context.AfterFunc(run, cancel)
	return dctx, func() {
		stop()
		cancel()
	}
}

func (s *Service) load(ctx context.Context, sn season.Season) ([]model.TeamSeasonStats, error) {
	if rows, ok := s.fromMemory(sn); ok {
		return rows, nil
	}

	key := cache.SeasonKey(sn.String(), s.seasonType, s.perMode)
	rows, hit, err := cache.Memoize(ctx, s.store, key, s.ttl, func(ctx context.Context) ([]model.TeamSeasonStats, error) {
		s.upstreamFetches.Add(1)
		return s.fetcher.LeagueDashTeamStats(ctx, sn.String())
	})
	if err != nil {
		s.loadErrors.Add(1)
		metrics.RecordErrorByComponent("service", "load_error")
		s.logger.Warn(ctx, "season load failed", logger.String("season", sn.String()), logger.Error(err))
		return nil, fmt.Errorf("load season %s: %w", sn, err)
	}
	if hit {
		s.diskHits.Add(1)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, sn)
	}

	s.dataMu.Lock()
	s.data[sn] = loaded{rows: rows, at: time.Now()}
	n := len(s.data)
	s.dataMu.Unlock()
	metrics.UpdateSeasonsLoaded(n)

	s.logger.Debug(ctx, "season loaded",
		logger.String("season", sn.String()),
		logger.Int("rows", len(rows)),
		logger.Bool("diskHit", hit),
	)
	return rows, nil
}

func (s *Service) fromMemory(sn season.Season) ([]model.TeamSeasonStats, bool) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	l, ok := s.data[sn]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(l.at) >= s.ttl {
		return nil, false
	}
	return l.rows, true
}

// loadAll loads every configured season. Seasons that fail are left out.
func (s *Service) loadAll(ctx context.Context) (stats.BySeason, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	out := make(stats.BySeason, len(s.seasons))
	for _, sn := range s.seasons {
		rows, err := s.LoadSeason(ctx, sn)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		out[sn] = rows
	}
	return out, nil
}

// TeamStats returns the per-game rows displayed for one season.
func (s *Service) TeamStats(ctx context.Context, sn season.Season) ([]types.TeamRow, error) {
	rows, err := s.LoadSeason(ctx, sn)
	if err != nil {
		return nil, err
	}
	out := stats.PerTeam(rows)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, sn)
	}
	return out, nil
}

// LeagueTrend returns league three-point attempts per game for every season
// that could be loaded, oldest first.
func (s *Service) LeagueTrend(ctx context.Context) ([]types.TrendPoint, error) {
	bySeason, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LeagueTrend(bySeason), nil
}

// TrendStatistics returns the per-season team distribution summary.
func (s *Service) TrendStatistics(ctx context.Context) ([]types.TrendStat, error) {
	bySeason, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TrendStatistics(bySeason), nil
}

// Export returns the export lines of one season.
func (s *Service) Export(ctx context.Context, sn season.Season) ([]model.ExportRow, error) {
	rows, err := s.LoadSeason(ctx, sn)
	if err != nil {
		return nil, err
	}
	return stats.ExportRows(rows), nil
}

// ExportAll returns the export lines of every season that could be loaded.
func (s *Service) ExportAll(ctx context.Context) ([]model.ExportRow, error) {
	bySeason, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ExportAll(bySeason), nil
}

// Enqueue submits a season for background loading. A season already queued
// reports true without queueing it again.
func (s *Service) Enqueue(ctx context.Context, sn season.Season) bool {
	if !s.isStarted() || !season.Contains(s.seasons, sn) {
		return false
	}
	if s.deduper.SeenAndRecord(ctx, sn.String()) {
		return true
	}
	if !s.queue.Enqueue(ctx, queue.Job{Season: sn.String(), EnqueuedAt: time.Now()}) {
		s.deduper.Unrecord(ctx, sn.String())
		return false
	}
	return true
}

func (s *Service) prefetchAll(ctx context.Context) {
	start := time.Now()
	queued := 0
	for _, sn := range s.seasons {
		for !s.Enqueue(ctx, sn) {
			if s.queue.IsClosed() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(enqueueRetryDelay):
			}
		}
		queued++
	}
	s.logger.Info(ctx, "prefetch queued",
		logger.Int("seasons", queued),
		logger.Duration("elapsed", time.Since(start)),
	)
}

func (s *Service) prefetchSeason(ctx context.Context, raw string) error {
	sn, err := season.Parse(raw)
	if err != nil {
		return err
	}
	_, err = s.LoadSeason(ctx, sn)
	return err
}

// jobDone lets a failed season be queued again.
func (s *Service) jobDone(ctx context.Context, j worker.Job, err error) {
	if err != nil && !errors.Is(err, ErrUnknownSeason) {
		s.deduper.Unrecord(ctx, j.Season)
	}
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.dataMu.RLock()
	seasonsLoaded := len(s.data)
	s.dataMu.RUnlock()

	out := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"prefetch":        s.prefetch,
		"seasons":         len(s.seasons),
		"seasonsLoaded":   seasonsLoaded,
		"cacheTTLSeconds": int64(s.ttl / time.Second),
		"memoryHits":      s.memoryHits.Load(),
		"diskHits":        s.diskHits.Load(),
		"upstreamFetches": s.upstreamFetches.Load(),
		"loadErrors":      s.loadErrors.Load(),
	}

	if s.started {
		ctx := context.Background()
		out["queueLength"] = s.queue.Len(ctx)
		out["seasonsQueued"] = s.deduper.Size()
		if keys, err := s.store.Keys(ctx); err == nil {
			out["cachedEntries"] = len(keys)
		}
	}
	return out
}

type loaderFunc func(ctx context.Context, season string) error

func (f loaderFunc) Prefetch(ctx context.Context, season string) error { return f(ctx, season) }
