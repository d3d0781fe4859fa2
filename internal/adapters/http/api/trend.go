package api

import (
	"net/http"
)

// TrendHandler serves the league-wide trend across seasons.
type TrendHandler struct {
	deps Dependencies
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(deps Dependencies) *TrendHandler {
	return &TrendHandler{deps: deps}
}

// HandleTrend handles GET /api/trend requests.
func (h *TrendHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trend"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, err := h.deps.LeagueTrend(r.Context())
	if err != nil {
		writeFailure(w, serviceError(op, err))
		return
	}
	if len(points) == 0 {
		writeFailure(w, NewKind(op, ErrNoData))
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleTrendStats handles GET /api/trend/stats requests.
func (h *TrendHandler) HandleTrendStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trend_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	trend, err := h.deps.TrendStatistics(r.Context())
	if err != nil {
		writeFailure(w, serviceError(op, err))
		return
	}
	if len(trend) == 0 {
		writeFailure(w, NewKind(op, ErrNoData))
		return
	}
	writeJSON(w, http.StatusOK, trend)
}
