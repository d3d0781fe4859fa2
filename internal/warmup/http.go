package warmup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const statusOK = http.StatusOK

// httpClient wraps http.Client with context-aware GETs.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get fetches path and returns the status and body.
func (c *httpClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// checkHealth verifies the dashboard answers its metrics endpoint.
func (c *httpClient) checkHealth(ctx context.Context) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != statusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// seasons asks the dashboard for its selectable seasons.
func (c *httpClient) seasons(ctx context.Context) ([]string, error) {
	status, body, err := c.get(ctx, "/api/seasons")
	if err != nil {
		return nil, err
	}
	if status != statusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadSeasons, status)
	}
	var payload struct {
		Seasons []string `json:"seasons"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSeasons, err)
	}
	return payload.Seasons, nil
}

// warm requests the team rows of one season so the dashboard loads and caches it.
func (c *httpClient) warm(ctx context.Context, season string) Result {
	start := time.Now()
	status, body, err := c.get(ctx, "/api/teams?season="+url.QueryEscape(season))
	res := Result{Season: season, Status: status, Duration: time.Since(start), Err: err}
	if err != nil {
		return res
	}
	if status != statusOK {
		res.Err = fmt.Errorf("season %s: status %d", season, status)
		return res
	}
	var rows []types.TeamRow
	if err := json.Unmarshal(body, &rows); err != nil {
		res.Err = fmt.Errorf("season %s: decode teams: %w", season, err)
		return res
	}
	res.Teams = len(rows)
	return res
}
