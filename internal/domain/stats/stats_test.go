package stats_test

import (
	"testing"

	"github.com/angelnenov7/nba-dashboard/internal/domain/model"
	"github.com/angelnenov7/nba-dashboard/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRows() []model.TeamSeasonStats {
	return []model.TeamSeasonStats{
		{Season: "2023-24", TeamID: 2, TeamName: "Denver Nuggets", GP: 82, PTS: 9581, FG3M: 951, FG3A: 2605, FG3Pct: 0.365},
		{Season: "2023-24", TeamID: 1, TeamName: "Boston Celtics", GP: 82, PTS: 9887, FG3M: 1351, FG3A: 3527, FG3Pct: 0.383},
		{Season: "2023-24", TeamID: 9, TeamName: "Boston Celtics", GP: 1, PTS: 1, FG3M: 1, FG3A: 1, FG3Pct: 1},
		{Season: "2023-24", TeamID: 3, TeamName: "Expansion Team", GP: 0, PTS: 0, FG3M: 0, FG3A: 0},
	}
}

func TestPerTeam(t *testing.T) {
	Convey("Given totals rows for a season", t, func() {
		rows := stats.PerTeam(sampleRows())

		Convey("Then per-game values are totals divided by games played", func() {
			So(rows, ShouldHaveLength, 2)
			So(rows[0].TeamName, ShouldEqual, "Boston Celtics")
			So(rows[0].PtsPerGame, ShouldAlmostEqual, 9887.0/82, 1e-9)
			So(rows[0].FG3MPerGame, ShouldAlmostEqual, 1351.0/82, 1e-9)
			So(rows[1].TeamName, ShouldEqual, "Denver Nuggets")
			So(rows[1].PtsPerGame, ShouldAlmostEqual, 9581.0/82, 1e-9)
		})

		Convey("Then the first occurrence of a duplicate name wins", func() {
			So(rows[0].TeamID, ShouldEqual, 1)
		})

		Convey("Then rows without games are excluded", func() {
			for _, r := range rows {
				So(r.TeamName, ShouldNotEqual, "Expansion Team")
			}
		})
	})

	Convey("Given no rows", t, func() {
		So(stats.PerTeam(nil), ShouldBeEmpty)
	})
}

func TestLeagueTrend(t *testing.T) {
	Convey("Given rows for several seasons", t, func() {
		bySeason := stats.BySeason{
			"2023-24": sampleRows(),
			"1990-91": {
				{Season: "1990-91", TeamName: "A", GP: 82, FG3A: 400},
				{Season: "1990-91", TeamName: "B", GP: 82, FG3A: 600},
			},
			"1991-92": {{Season: "1991-92", TeamName: "A", GP: 0, FG3A: 10}},
		}
		points := stats.LeagueTrend(bySeason)

		Convey("Then seasons are ascending and empty seasons skipped", func() {
			So(points, ShouldHaveLength, 2)
			So(points[0].Season, ShouldEqual, "1990-91")
			So(points[1].Season, ShouldEqual, "2023-24")
		})

		Convey("Then the value is total attempts over total games", func() {
			So(points[0].FG3APerGame, ShouldAlmostEqual, 1000.0/164, 1e-9)
			So(points[0].GamesPlayed, ShouldEqual, 164)
			So(points[1].FG3APerGame, ShouldAlmostEqual, (3527.0+2605)/164, 1e-9)
		})
	})

	Convey("Given a season with a team that played no games", t, func() {
		bySeason := stats.BySeason{
			"1995-96": {
				{Season: "1995-96", TeamName: "A", GP: 82, FG3A: 820},
				{Season: "1995-96", TeamName: "B", GP: 82, FG3A: 1640},
				{Season: "1995-96", TeamName: "Expansion", GP: 0, FG3A: 5},
			},
		}
		points := stats.LeagueTrend(bySeason)

		Convey("Then only teams with games are counted", func() {
			So(points, ShouldHaveLength, 1)
			So(points[0].Teams, ShouldEqual, 2)
			So(points[0].GamesPlayed, ShouldEqual, 164)
			So(points[0].FG3ATotal, ShouldEqual, 2460)
			So(points[0].FG3APerGame, ShouldAlmostEqual, 15.0, 1e-9)
		})
	})
}

func TestTrendStatistics(t *testing.T) {
	Convey("Given rows for one season", t, func() {
		bySeason := stats.BySeason{
			"2000-01": {
				{TeamName: "A", FG3A: 1000, FG3Pct: 0.35, PTS: 7000},
				{TeamName: "B", FG3A: 1200, FG3Pct: 0.36, PTS: 7100},
				{TeamName: "C", FG3A: 1400, FG3Pct: 0.341, PTS: 7333},
			},
			"2001-02": {{TeamName: "Solo", FG3A: 900, FG3Pct: 0.3, PTS: 6000}},
		}
		got := stats.TrendStatistics(bySeason)

		Convey("Then means and the sample deviation are rounded to two decimals", func() {
			So(got, ShouldHaveLength, 2)
			So(got[0].Season, ShouldEqual, "2000-01")
			So(got[0].FG3AMean, ShouldEqual, 1200)
			So(got[0].FG3AStd, ShouldEqual, 200)
			So(got[0].FG3PctAvg, ShouldEqual, 0.35)
			So(got[0].PTSMean, ShouldEqual, 7144.33)
		})

		Convey("Then a single team has zero deviation", func() {
			So(got[1].FG3AStd, ShouldEqual, 0)
			So(got[1].FG3AMean, ShouldEqual, 900)
		})
	})
}

func TestExportRows(t *testing.T) {
	Convey("Given displayed rows", t, func() {
		raw := sampleRows()
		shown := stats.PerTeam(raw)
		export := stats.ExportRows(raw)

		Convey("Then the export has one line per displayed team", func() {
			So(export, ShouldHaveLength, len(shown))
			for i := range shown {
				So(export[i].TeamName, ShouldEqual, shown[i].TeamName)
				So(export[i].PtsPerGame, ShouldEqual, stats.Round2(shown[i].PtsPerGame))
			}
		})

		Convey("Then exporting all seasons lists the newest season first", func() {
			all := stats.ExportAll(stats.BySeason{
				"1990-91": {{Season: "1990-91", TeamName: "A", GP: 1, PTS: 100}},
				"2023-24": raw,
			})
			So(all, ShouldHaveLength, 3)
			So(all[0].Season, ShouldEqual, "2023-24")
			So(all[2].Season, ShouldEqual, "1990-91")
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Given values to round", t, func() {
		So(stats.Round2(1.005), ShouldBeBetweenOrEqual, 1.0, 1.01)
		So(stats.Round2(2.675), ShouldBeBetweenOrEqual, 2.67, 2.68)
		So(stats.Round2(-1.234), ShouldEqual, -1.23)
		So(stats.Round2(7144.333), ShouldEqual, 7144.33)
	})
}
