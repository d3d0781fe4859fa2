// Package nbaapi is a client for the official NBA statistics API (stats.nba.com).
package nbaapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

const (
	DefaultBaseURL = "https://stats.nba.com/stats"

	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	defaultRateInterval   = 2 * time.Second
	defaultSeasonType     = "Regular Season"
	defaultPerMode        = "Totals"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 16 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client fetches league statistics. It is safe for concurrent use; all calls
// share one rate limiter.
type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	limiter        *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	seasonType     string
	perMode        string
	logger         logger.Logger
}

// NewClient creates a stats API client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		http:           &http.Client{},
		timeout:        defaultTimeout,
		limiter:        rate.NewLimiter(rate.Every(defaultRateInterval), 1),
		maxRetries:     defaultMaxRetries,
		initialBackoff: defaultInitialBackoff,
		seasonType:     defaultSeasonType,
		perMode:        defaultPerMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeasonType returns the SeasonType parameter sent with every request.
func (c *Client) SeasonType() string { return c.seasonType }

// PerMode returns the PerMode parameter sent with every request.
func (c *Client) PerMode() string { return c.perMode }

// LeagueDashTeamStats returns the per-team totals of one season.
func (c *Client) LeagueDashTeamStats(ctx context.Context, season string) ([]model.TeamSeasonStats, error) {
	endpoint := c.baseURL + leagueDashTeamStatsPath + "?" +
		leagueDashTeamStatsParams(season, c.seasonType, c.perMode).Encode()

	var rows []model.TeamSeasonStats
	op := func() error {
		var err error
		rows, err = c.fetchTeamStats(ctx, season, endpoint)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	notify := func(err error, next time.Duration) {
		metrics.RecordUpstreamRetry()
		if c.logger != nil {
			c.logger.Warn(ctx, "stats api call failed, retrying",
				logger.String("season", season),
				logger.Duration("backoff", next),
				logger.Error(err),
			)
		}
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		metrics.RecordErrorByComponent("nbaapi", errorType(err))
		return nil, fmt.Errorf("leaguedashteamstats %s: %w", season, err)
	}
	return rows, nil
}

// fetchTeamStats performs one attempt. Errors that retrying cannot fix are
// wrapped in backoff.Permanent.
func (c *Client) fetchTeamStats(ctx context.Context, season, endpoint string) ([]model.TeamSeasonStats, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	setHeaders(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest("error", elapsed)
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(strconv.Itoa(resp.StatusCode), elapsed)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		statusErr := &StatusError{Code: resp.StatusCode}
		if retryable(resp.StatusCode) {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	var payload statsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}
	rs, err := payload.teamStats()
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	rows, err := decodeTeamStats(season, rs)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return rows, nil
}

// setHeaders makes the request look like it comes from nba.com; the API
// stalls requests without these.
func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func errorType(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.Code)
	case errors.Is(err, ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
