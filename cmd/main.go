package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/cache"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/http/api"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/http/site"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/http/swagger"
	"github.com/angelnenov7/nba-dashboard/internal/adapters/nbaapi"
	app "github.com/angelnenov7/nba-dashboard/internal/app"
	"github.com/angelnenov7/nba-dashboard/internal/config"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

// HTTP server timeout constants. Trend and export requests may wait on
// several rate-limited upstream calls, so writes get a long deadline.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 5 * time.Minute
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "dashboard exited", logger.Error(err))
		os.Exit(1)
	}
}

// run serves the dashboard until ctx is canceled.
func run(ctx context.Context, cfg *config.Config) error {
	if err := configureLogging(cfg); err != nil {
		return err
	}
	log := logger.Get()

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// configureLogging applies the configured format and level. An invalid level
// falls back to info.
func configureLogging(cfg *config.Config) error {
	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(context.Background(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// newService opens the disk cache and builds the dashboard service around
// the stats API client.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	// The store outlives ctx; shutdown closes it through the service.
	store, err := cache.Open(context.WithoutCancel(ctx), cfg.CacheBackend, cfg.CacheDir, cache.WithLogger(log.Named("cache")))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	log.Info(ctx, "disk cache opened",
		logger.String("backend", cfg.CacheBackend),
		logger.String("dir", cfg.CacheDir),
		logger.Duration("ttl", cfg.CacheTTL()),
	)

	client := nbaapi.NewClient(
		nbaapi.WithBaseURL(cfg.APIBaseURL),
		nbaapi.WithTimeout(cfg.APITimeout()),
		nbaapi.WithMaxRetries(cfg.APIMaxRetries),
		nbaapi.WithRateLimit(cfg.APIRateInterval(), cfg.APIRateBurst),
		nbaapi.WithSeasonType(cfg.SeasonType),
		nbaapi.WithPerMode(cfg.PerMode),
		nbaapi.WithLogger(log.Named("nbaapi")),
	)

	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithFetcher(client),
		app.WithStore(store),
		app.WithCacheTTL(cfg.CacheTTL()),
		app.WithSeasonRange(cfg.FirstSeasonYear, cfg.LastSeasonYear),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithPrefetch(cfg.PrefetchEnabled),
	), nil
}

// newHandler registers every route on a fresh mux.
func newHandler(ctx context.Context, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc, api.WithLogger(log.Named("http"))).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics copies service counters into gauges.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if loaded, ok := stats["seasonsLoaded"].(int); ok {
		metrics.UpdateSeasonsLoaded(loaded)
	}
	if started, ok := stats["started"].(bool); ok && !started {
		metrics.UpdateWorkerActiveCount(0)
	}
}
