// Package export writes the displayed team data as CSV.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

// AllSeasons selects the export of every loaded season.
const AllSeasons = "all"

// ContentType is the media type of the export.
const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []model.ExportRow) error {
	if rows == nil {
		rows = []model.ExportRow{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		metrics.RecordErrorByComponent("export", "marshal_error")
		return fmt.Errorf("write csv: %w", err)
	}
	metrics.RecordExportRows(len(rows))
	return nil
}

// Filename is the download name for a season export, or for every season
// when season is empty or AllSeasons.
func Filename(season string) string {
	if season == "" || season == AllSeasons {
		return "nba_stats.csv"
	}
	return "nba_stats_" + season + ".csv"
}
