// Package types contains the read shapes served by the dashboard API.
package types

// TeamRow is one bar of the per-team charts.
type TeamRow struct {
	Season      string  `json:"season"`
	TeamID      int64   `json:"team_id"`
	TeamName    string  `json:"team_name"`
	GP          int     `json:"gp"`
	PtsPerGame  float64 `json:"pts_per_game"`
	FG3MPerGame float64 `json:"fg3m_per_game"`
}

// TrendPoint is the league-wide three-point attempt rate for one season.
type TrendPoint struct {
	Season      string  `json:"season"`
	FG3APerGame float64 `json:"fg3a_per_game"`
	Teams       int     `json:"teams"`
	GamesPlayed int     `json:"games_played"`
	FG3ATotal   float64 `json:"fg3a_total"`
}

// TrendStat summarizes the team distribution of one season.
type TrendStat struct {
	Season    string  `json:"season"`
	FG3AMean  float64 `json:"fg3a_mean"`
	FG3AStd   float64 `json:"fg3a_std"`
	FG3PctAvg float64 `json:"fg3_pct_mean"`
	PTSMean   float64 `json:"pts_mean"`
}
