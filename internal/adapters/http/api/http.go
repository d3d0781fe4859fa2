// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	service "github.com/angelnenov7/nba-dashboard/internal/app"
	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
	"github.com/angelnenov7/nba-dashboard/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes written in errorResponse.Code.
const (
	codeBadRequest    = "bad_request"
	codeNoData        = "no_data"
	codeUpstreamError = "upstream_error"
	codeInternalError = "internal_error"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Seasons lists the selectable seasons, newest first.
	Seasons() []season.Season
	DefaultSeason() season.Season

	TeamStats(ctx context.Context, s season.Season) ([]types.TeamRow, error)
	LeagueTrend(ctx context.Context) ([]types.TrendPoint, error)
	TrendStatistics(ctx context.Context) ([]types.TrendStat, error)

	Export(ctx context.Context, s season.Season) ([]model.ExportRow, error)
	ExportAll(ctx context.Context) ([]model.ExportRow, error)
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	seasonsHandler   *SeasonsHandler
	teamsHandler     *TeamsHandler
	trendHandler     *TrendHandler
	chartsHandler    *ChartsHandler
	exportHandler    *ExportHandler

	logger logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for access logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		seasonsHandler:   NewSeasonsHandler(deps),
		teamsHandler:     NewTeamsHandler(deps),
		trendHandler:     NewTrendHandler(deps),
		chartsHandler:    NewChartsHandler(deps),
		exportHandler:    NewExportHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", s.route("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", s.route("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/api/seasons", s.route("seasons", s.seasonsHandler.HandleSeasons))
	mux.HandleFunc("/api/teams", s.route("teams", s.teamsHandler.HandleTeams))
	mux.HandleFunc("/api/trend", s.route("trend", s.trendHandler.HandleTrend))
	mux.HandleFunc("/api/trend/stats", s.route("trend_stats", s.trendHandler.HandleTrendStats))
	mux.HandleFunc("/charts/", s.route("charts", s.chartsHandler.HandleChart))
	mux.HandleFunc("/export.csv", s.route("export", s.exportHandler.HandleExport))
	mux.HandleFunc("/", s.route("dashboard", s.dashboardHandler.HandleDashboard))
}

func (s *Server) route(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return RequestIDMiddleware(AccessLogMiddleware(s.logger, MetricsMiddleware(h, endpoint)))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, season.ErrInvalidSeason),
		errors.Is(err, service.ErrUnknownSeason):
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
	case errors.Is(err, ErrNoData), errors.Is(err, service.ErrNoData):
		writeError(w, http.StatusNotFound, codeNoData, err)
	case errors.Is(err, ErrUpstream):
		writeError(w, http.StatusBadGateway, codeUpstreamError, err)
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, err)
	}
}

// serviceError tags a data service failure with ErrUpstream unless it
// already carries a kind writeFailure maps on its own.
func serviceError(op string, err error) error {
	switch {
	case errors.Is(err, season.ErrInvalidSeason),
		errors.Is(err, service.ErrUnknownSeason),
		errors.Is(err, service.ErrNoData),
		errors.Is(err, service.ErrNotStarted):
		return Wrap(op, err)
	}
	return WrapKind(op, ErrUpstream, err)
}

// selectedSeason reads ?season=, falling back to the default season.
func selectedSeason(r *http.Request, deps Dependencies) (season.Season, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	if raw == "" {
		return deps.DefaultSeason(), nil
	}
	s, err := season.Parse(raw)
	if err != nil {
		return "", err
	}
	if !season.Contains(deps.Seasons(), s) {
		return "", service.ErrUnknownSeason
	}
	return s, nil
}
