package charts_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/angelnenov7/nba-dashboard/internal/adapters/charts"
	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func teamRows() []types.TeamRow {
	return []types.TeamRow{
		{Season: "2023-24", TeamName: "Boston Celtics", GP: 82, PtsPerGame: 120.57, FG3MPerGame: 16.48},
		{Season: "2023-24", TeamName: "Denver Nuggets", GP: 82, PtsPerGame: 116.84, FG3MPerGame: 11.6},
		{Season: "2023-24", TeamName: "Golden State Warriors", GP: 82, PtsPerGame: 117.84, FG3MPerGame: 14.8},
	}
}

// textElement returns the opening <text ...> tag of the element whose body is body.
func textElement(svg, body string) string {
	end := strings.Index(svg, ">"+body+"</text>")
	if end < 0 {
		return ""
	}
	start := strings.LastIndex(svg[:end], "<text")
	if start < 0 {
		return ""
	}
	return svg[start : end+1]
}

func TestParseFormat(t *testing.T) {
	Convey("ParseFormat", t, func() {
		f, err := charts.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, charts.FormatSVG)

		f, err = charts.ParseFormat(".PNG")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, charts.FormatPNG)
		So(f.ContentType(), ShouldEqual, "image/png")
		So(charts.FormatSVG.ContentType(), ShouldEqual, "image/svg+xml")

		_, err = charts.ParseFormat("gif")
		So(errors.Is(err, charts.ErrUnknownFormat), ShouldBeTrue)
	})
}

func TestBarCharts(t *testing.T) {
	Convey("Given team rows for a season", t, func() {
		rows := teamRows()

		Convey("When the points chart is rendered as SVG", func() {
			var buf bytes.Buffer
			err := charts.PointsPerGame(&buf, charts.FormatSVG, "2023-24", rows)

			Convey("Then it carries the title and every team label", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "<svg")
				So(out, ShouldContainSubstring, "Team Points Per Game - 2023-24")
				So(out, ShouldContainSubstring, "Golden State Warriors")
			})

			Convey("Then the title is horizontal and team labels are rotated whole", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				title := textElement(out, "Team Points Per Game - 2023-24")
				So(title, ShouldNotBeEmpty)
				So(title, ShouldNotContainSubstring, "rotate(")

				label := textElement(out, "Golden State Warriors")
				So(label, ShouldNotBeEmpty)
				So(label, ShouldContainSubstring, "rotate(45")
				So(out, ShouldNotContainSubstring, ">Golden State<")
			})
		})

		Convey("When the threes chart is rendered as PNG", func() {
			var buf bytes.Buffer
			err := charts.ThreesPerGame(&buf, charts.FormatPNG, "2023-24", rows)

			Convey("Then a PNG image is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
			})
		})

		Convey("When the threes chart is rendered as SVG", func() {
			var buf bytes.Buffer
			So(charts.ThreesPerGame(&buf, charts.FormatSVG, "2023-24", rows), ShouldBeNil)

			Convey("Then its title is not rotated either", func() {
				title := textElement(buf.String(), "Team Three Pointers Made Per Game - 2023-24")
				So(title, ShouldNotBeEmpty)
				So(title, ShouldNotContainSubstring, "rotate(")
			})
		})

		Convey("When every value is zero", func() {
			var buf bytes.Buffer
			zero := []types.TeamRow{{TeamName: "A"}, {TeamName: "B"}}
			err := charts.ThreesPerGame(&buf, charts.FormatSVG, "1990-91", zero)

			Convey("Then the chart still renders", func() {
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given no rows", t, func() {
		var buf bytes.Buffer
		err := charts.PointsPerGame(&buf, charts.FormatSVG, "2023-24", nil)
		So(errors.Is(err, charts.ErrNoData), ShouldBeTrue)
		So(buf.Len(), ShouldEqual, 0)
	})
}

func TestThreePointTrend(t *testing.T) {
	Convey("Given league trend points", t, func() {
		points := []types.TrendPoint{
			{Season: "1990-91", FG3APerGame: 6.6},
			{Season: "1991-92", FG3APerGame: 7.1},
			{Season: "2023-24", FG3APerGame: 35.1},
		}

		Convey("When rendered as SVG", func() {
			var buf bytes.Buffer
			err := charts.ThreePointTrend(&buf, charts.FormatSVG, points)

			Convey("Then the title, season ticks and trend legend are present", func() {
				So(err, ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, "Evolution of NBA 3-Point Attempts Per Game")
				So(out, ShouldContainSubstring, "1990-91")
				So(out, ShouldContainSubstring, ">Trend<")
			})
		})

		Convey("When rendered as PNG", func() {
			var buf bytes.Buffer
			So(charts.ThreePointTrend(&buf, charts.FormatPNG, points), ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
		})
	})

	Convey("Given a single season", t, func() {
		single := []types.TrendPoint{{Season: "2024-25", FG3APerGame: 37.6}}

		Convey("Then the SVG renders with the season tick and no trend line", func() {
			var buf bytes.Buffer
			So(charts.ThreePointTrend(&buf, charts.FormatSVG, single), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "2024-25")
			So(buf.String(), ShouldNotContainSubstring, ">Trend<")
		})

		Convey("Then the PNG renders too", func() {
			var buf bytes.Buffer
			So(charts.ThreePointTrend(&buf, charts.FormatPNG, single), ShouldBeNil)
			So(bytes.HasPrefix(buf.Bytes(), pngMagic), ShouldBeTrue)
		})
	})

	Convey("Given no points", t, func() {
		var buf bytes.Buffer
		So(errors.Is(charts.ThreePointTrend(&buf, charts.FormatSVG, nil), charts.ErrNoData), ShouldBeTrue)
	})
}
