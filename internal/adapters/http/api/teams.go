package api

import (
	"net/http"
)

// TeamsHandler serves the per-team rows of one season.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleTeams handles GET /api/teams?season=YYYY-YY requests.
func (h *TeamsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_teams"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
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
	writeJSON(w, http.StatusOK, rows)
}
