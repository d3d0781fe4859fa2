package api

import (
	"bytes"
	"mime"
	"net/http"
	"strings"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/export"
	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
)

// ExportHandler serves the CSV download of the displayed data.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleExport handles GET /export.csv?season=<season|all> requests.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var (
		rows []model.ExportRow
		name string
		err  error
	)
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("season")), export.AllSeasons) {
		name = export.Filename(export.AllSeasons)
		rows, err = h.deps.ExportAll(r.Context())
	} else {
		s, perr := selectedSeason(r, h.deps)
		if perr != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, perr))
			return
		}
		name = export.Filename(s.String())
		rows, err = h.deps.Export(r.Context(), s)
	}
	if err != nil {
		writeFailure(w, serviceError(op, err))
		return
	}
	if len(rows) == 0 {
		writeFailure(w, NewKind(op, ErrNoData))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows); err != nil {
		writeFailure(w, WrapKind(op, ErrRender, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
