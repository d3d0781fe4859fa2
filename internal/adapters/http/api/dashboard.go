package api

import (
	"bytes"
	"net/http"

	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
)

type dashboardPage struct {
	Title    string
	Seasons  []season.Season
	Selected season.Season
	Error    string
}

// DashboardHandler serves the dashboard page.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /?season=YYYY-YY requests. Any other path is
// not found.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	if r.Method != http.MethodGet || r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := dashboardPage{
		Title:   "NBA Style Evolution Dashboard",
		Seasons: h.deps.Seasons(),
	}
	status := http.StatusOK
	s, err := selectedSeason(r, h.deps)
	if err != nil {
		status = http.StatusBadRequest
		page.Selected = h.deps.DefaultSeason()
		page.Error = "Unknown season " + r.URL.Query().Get("season")
	} else {
		page.Selected = s
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		writeFailure(w, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
