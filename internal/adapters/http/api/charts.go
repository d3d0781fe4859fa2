package api

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/charts"
)

// Chart names served under /charts/.
const (
	chartPoints = "points"
	chartThrees = "threes"
	chartTrend  = "trend"
)

// ChartsHandler renders the dashboard charts.
type ChartsHandler struct {
	deps Dependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleChart handles GET /charts/{points,threes,trend}.{svg,png} requests.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	file := strings.TrimPrefix(r.URL.Path, "/charts/")
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	format, err := charts.ParseFormat(ext)
	if err != nil || ext == "" || strings.Contains(file, "/") {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	switch name {
	case chartPoints, chartThrees:
		s, err := selectedSeason(r, h.deps)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		rows, err := h.deps.TeamStats(r.Context(), s)
		if err != nil {
			writeFailure(w, serviceError(op, err))
			return
		}
		if name == chartPoints {
			err = charts.PointsPerGame(&buf, format, s.String(), rows)
		} else {
			err = charts.ThreesPerGame(&buf, format, s.String(), rows)
		}
		if err != nil {
			writeFailure(w, renderError(op, err))
			return
		}
	case chartTrend:
		points, err := h.deps.LeagueTrend(r.Context())
		if err != nil {
			writeFailure(w, serviceError(op, err))
			return
		}
		if err := charts.ThreePointTrend(&buf, format, points); err != nil {
			writeFailure(w, renderError(op, err))
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func renderError(op string, err error) error {
	if errors.Is(err, charts.ErrNoData) {
		return WrapKind(op, ErrNoData, err)
	}
	return WrapKind(op, ErrRender, err)
}
