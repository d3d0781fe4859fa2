package api

import (
	"net/http"

	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
)

type seasonsResponse struct {
	Seasons []season.Season `json:"seasons"`
	Default season.Season   `json:"default"`
}

// SeasonsHandler lists the selectable seasons.
type SeasonsHandler struct {
	deps Dependencies
}

// NewSeasonsHandler creates a new seasons handler.
func NewSeasonsHandler(deps Dependencies) *SeasonsHandler {
	return &SeasonsHandler{deps: deps}
}

// HandleSeasons handles GET /api/seasons requests.
func (h *SeasonsHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, seasonsResponse{
		Seasons: h.deps.Seasons(),
		Default: h.deps.DefaultSeason(),
	})
}
