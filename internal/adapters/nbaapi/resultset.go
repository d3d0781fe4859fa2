package nbaapi

import (
	"fmt"

	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
)

const teamStatsResultSet = "LeagueDashTeamStats"

// Columns read from the team stats result set.
const (
	colTeamID   = "TEAM_ID"
	colTeamName = "TEAM_NAME"
	colGP       = "GP"
	colPTS      = "PTS"
	colFG3M     = "FG3M"
	colFG3A     = "FG3A"
	colFG3Pct   = "FG3_PCT"
)

var requiredColumns = []string{colTeamID, colTeamName, colGP, colPTS, colFG3M, colFG3A, colFG3Pct}

type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (r statsResponse) teamStats() (resultSet, error) {
	if len(r.ResultSets) == 0 {
		return resultSet{}, fmt.Errorf("%w: no result sets", ErrMalformedResponse)
	}
	for _, rs := range r.ResultSets {
		if rs.Name == teamStatsResultSet {
			return rs, nil
		}
	}
	return r.ResultSets[0], nil
}

// decodeTeamStats maps rows by header name so column order changes upstream
// do not shift values.
func decodeTeamStats(season string, rs resultSet) ([]model.TeamSeasonStats, error) {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	out := make([]model.TeamSeasonStats, 0, len(rs.RowSet))
	for n, raw := range rs.RowSet {
		if len(raw) < len(rs.Headers) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d headers",
				ErrMalformedResponse, n, len(raw), len(rs.Headers))
		}
		name := value[string](raw[idx[colTeamName]])
		if name == "" {
			continue
		}
		out = append(out, model.TeamSeasonStats{
			Season:   season,
			TeamID:   int64(value[float64](raw[idx[colTeamID]])),
			TeamName: name,
			GP:       int(value[float64](raw[idx[colGP]])),
			PTS:      value[float64](raw[idx[colPTS]]),
			FG3M:     value[float64](raw[idx[colFG3M]]),
			FG3A:     value[float64](raw[idx[colFG3A]]),
			FG3Pct:   value[float64](raw[idx[colFG3Pct]]),
		})
	}
	return out, nil
}

func maybe[T any](x any) *T {
	if x, ok := x.(T); ok {
		return &x
	}
	return nil
}

// value returns the zero value for nulls and unexpected types.
func value[T any](x any) T {
	if p := maybe[T](x); p != nil {
		return *p
	}
	var zero T
	return zero
}
