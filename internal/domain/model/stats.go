// Package model contains domain models passed between layers.
package model

// TeamSeasonStats is one team's season totals as returned by the stats API.
// The JSON form is what the disk cache stores.
type TeamSeasonStats struct {
	Season   string  `json:"season"`
	TeamID   int64   `json:"team_id"`
	TeamName string  `json:"team_name"`
	GP       int     `json:"gp"`
	PTS      float64 `json:"pts"`
	FG3M     float64 `json:"fg3m"`
	FG3A     float64 `json:"fg3a"`
	FG3Pct   float64 `json:"fg3_pct"`
}

// ExportRow is one CSV line of the data export.
type ExportRow struct {
	Season      string  `csv:"SEASON"`
	TeamID      int64   `csv:"TEAM_ID"`
	TeamName    string  `csv:"TEAM_NAME"`
	GP          int     `csv:"GP"`
	PTS         float64 `csv:"PTS"`
	FG3M        float64 `csv:"FG3M"`
	FG3A        float64 `csv:"FG3A"`
	FG3Pct      float64 `csv:"FG3_PCT"`
	PtsPerGame  float64 `csv:"PTS_PER_GAME"`
	FG3MPerGame float64 `csv:"FG3M_PER_GAME"`
}
