// Package stats turns raw team season totals into the values the dashboard shows.
//
// All functions are pure. Rows are unique by team name within a season
// (first occurrence wins) and rows without games played never produce
// per-game values.
package stats

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/angelnenov7/nba-dashboard/internal/domain/dedupe"
	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/internal/domain/season"
	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
)

// BySeason groups raw rows by season identifier.
type BySeason map[season.Season][]model.TeamSeasonStats

// Unique drops repeated team names, keeping the first occurrence.
func Unique(rows []model.TeamSeasonStats) []model.TeamSeasonStats {
	seen := dedupe.NewInMemoryDeduper()
	out := make([]model.TeamSeasonStats, 0, len(rows))
	for _, r := range rows {
		if seen.SeenAndRecord(context.Background(), r.TeamName) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// displayed returns the rows shown for a season: unique, GP > 0, sorted by team name.
func displayed(rows []model.TeamSeasonStats) []model.TeamSeasonStats {
	out := Unique(rows)
	out = slices.DeleteFunc(out, func(r model.TeamSeasonStats) bool { return r.GP <= 0 })
	slices.SortStableFunc(out, func(a, b model.TeamSeasonStats) int {
		return strings.Compare(a.TeamName, b.TeamName)
	})
	return out
}

// PerTeam computes points and three-pointers made per game for every team.
func PerTeam(rows []model.TeamSeasonStats) []types.TeamRow {
	shown := displayed(rows)
	out := make([]types.TeamRow, 0, len(shown))
	for _, r := range shown {
		gp := float64(r.GP)
		out = append(out, types.TeamRow{
			Season:      r.Season,
			TeamID:      r.TeamID,
			TeamName:    r.TeamName,
			GP:          r.GP,
			PtsPerGame:  r.PTS / gp,
			FG3MPerGame: r.FG3M / gp,
		})
	}
	return out
}

// LeagueTrend computes the league three-point attempts per game of each
// season as total attempts over total games. Seasons without games are
// skipped. The result is ordered oldest season first.
func LeagueTrend(bySeason BySeason) []types.TrendPoint {
	out := make([]types.TrendPoint, 0, len(bySeason))
	for _, s := range sortedSeasons(bySeason) {
		rows := Unique(bySeason[s])
		var gp, teams int
		var fg3a float64
		for _, r := range rows {
			if r.GP <= 0 {
				continue
			}
			teams++
			gp += r.GP
			fg3a += r.FG3A
		}
		if gp == 0 {
			continue
		}
		out = append(out, types.TrendPoint{
			Season:      s.String(),
			FG3APerGame: fg3a / float64(gp),
			Teams:       teams,
			GamesPlayed: gp,
			FG3ATotal:   fg3a,
		})
	}
	return out
}

// TrendStatistics summarizes the team distribution of every season: mean and
// sample standard deviation of FG3A totals, mean FG3_PCT and mean PTS, each
// rounded to two decimals. Empty seasons are skipped.
func TrendStatistics(bySeason BySeason) []types.TrendStat {
	out := make([]types.TrendStat, 0, len(bySeason))
	for _, s := range sortedSeasons(bySeason) {
		rows := Unique(bySeason[s])
		if len(rows) == 0 {
			continue
		}
		fg3a := make([]float64, len(rows))
		pct := make([]float64, len(rows))
		pts := make([]float64, len(rows))
		for i, r := range rows {
			fg3a[i], pct[i], pts[i] = r.FG3A, r.FG3Pct, r.PTS
		}
		out = append(out, types.TrendStat{
			Season:    s.String(),
			FG3AMean:  Round2(mean(fg3a)),
			FG3AStd:   Round2(sampleStd(fg3a)),
			FG3PctAvg: Round2(mean(pct)),
			PTSMean:   Round2(mean(pts)),
		})
	}
	return out
}

// ExportRows returns one export line per displayed team row, in display order.
func ExportRows(rows []model.TeamSeasonStats) []model.ExportRow {
	shown := displayed(rows)
	out := make([]model.ExportRow, 0, len(shown))
	for _, r := range shown {
		gp := float64(r.GP)
		out = append(out, model.ExportRow{
			Season:      r.Season,
			TeamID:      r.TeamID,
			TeamName:    r.TeamName,
			GP:          r.GP,
			PTS:         r.PTS,
			FG3M:        r.FG3M,
			FG3A:        r.FG3A,
			FG3Pct:      r.FG3Pct,
			PtsPerGame:  Round2(r.PTS / gp),
			FG3MPerGame: Round2(r.FG3M / gp),
		})
	}
	return out
}

// ExportAll returns the export lines of every season, newest season first.
func ExportAll(bySeason BySeason) []model.ExportRow {
	seasons := sortedSeasons(bySeason)
	slices.Reverse(seasons)
	var out []model.ExportRow
	for _, s := range seasons {
		out = append(out, ExportRows(bySeason[s])...)
	}
	return out
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedSeasons(bySeason BySeason) []season.Season {
	keys := make([]season.Season, 0, len(bySeason))
	for s := range bySeason {
		keys = append(keys, s)
	}
	return season.Ascending(keys)
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// sampleStd uses n-1 in the denominator; fewer than two values give 0.
func sampleStd(v []float64) float64 {
	if len(v) < 2 {
		return 0
	}
	m := mean(v)
	var ss float64
	for _, x := range v {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v)-1))
}
