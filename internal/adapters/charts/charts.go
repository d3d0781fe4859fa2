// Package charts renders the dashboard charts as SVG or PNG.
package charts

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/angelnenov7/nba-dashboard/internal/domain/types"
	"github.com/angelnenov7/nba-dashboard/pkg/metrics"
)

// Format is a chart output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const (
	defaultHeight = 520
	minWidth      = 960
	barWidth      = 22
	barSpacing    = 10
	markerRadius  = 4
	labelRotation = 45.0
	titleFontSize = 14
	titleTop      = 10
)

var (
	barColor   = drawing.ColorFromHex("1f77b4")
	trendColor = drawing.ColorFromHex("d62728")
)

// ParseFormat maps a file extension (with or without the dot) to a Format.
// An empty string yields FormatSVG.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// ContentType returns the HTTP media type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) renderer() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// PointsPerGame renders team points per game for one season.
func PointsPerGame(w io.Writer, f Format, season string, rows []types.TeamRow) error {
	return renderBars(w, f, "points", "Team Points Per Game - "+season, "Points Per Game", rows,
		func(r types.TeamRow) float64 { return r.PtsPerGame })
}

// ThreesPerGame renders team three-pointers made per game for one season.
func ThreesPerGame(w io.Writer, f Format, season string, rows []types.TeamRow) error {
	return renderBars(w, f, "threes", "Team Three Pointers Made Per Game - "+season, "3PM Per Game", rows,
		func(r types.TeamRow) float64 { return r.FG3MPerGame })
}

func renderBars(w io.Writer, f Format, name, title, axis string, rows []types.TeamRow, value func(types.TeamRow) float64) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	start := time.Now()

	bars := make([]chart.Value, 0, len(rows))
	top := 0.0
	for _, r := range rows {
		v := value(r)
		top = math.Max(top, v)
		bars = append(bars, chart.Value{
			Label: r.TeamName,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if top <= 0 {
		top = 1
	}

	width := len(rows)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}

	bc := chart.BarChart{
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 160},
		},
		Canvas:     chart.Style{FillColor: drawing.ColorWhite},
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis: chart.Style{
			TextRotationDegrees: labelRotation,
			TextWrap:            chart.TextWrapNone,
			FontSize:            9,
		},
		YAxis: chart.YAxis{
			Name:  axis,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	// BarChart draws its own title with whatever rotation the y axis name left behind.
	bc.Elements = []chart.Renderable{titleElement(title, width)}
	if err := bc.Render(f.renderer(), w); err != nil {
		metrics.RecordErrorByComponent("charts", "render_error")
		return fmt.Errorf("render %s chart: %w", name, err)
	}
	metrics.RecordChartRender(name, float64(time.Since(start).Milliseconds()))
	return nil
}

// titleElement draws title centered at the top of a canvas of the given width.
func titleElement(title string, width int) chart.Renderable {
	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		r.ClearTextRotation()
		r.SetFont(defaults.Font)
		r.SetFontColor(drawing.ColorBlack)
		r.SetFontSize(titleFontSize)
		tb := r.MeasureText(title)
		r.Text(title, (width-tb.Width())/2, titleTop+tb.Height())
	}
}

// ThreePointTrend renders league three-point attempts per game across
// seasons as markers joined by a line, plus a linear trend line.
func ThreePointTrend(w io.Writer, f Format, points []types.TrendPoint) error {
	if len(points) == 0 {
		return ErrNoData
	}
	start := time.Now()

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	// The x range comes from the ticks; blank ticks half a slot outside the
	// data keep it non-zero for a single season.
	ticks := make([]chart.Tick, 0, len(points)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.FG3APerGame
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Season})
		lo = math.Min(lo, p.FG3APerGame)
		hi = math.Max(hi, p.FG3APerGame)
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(points)) - 0.5})
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}

	line := chart.ContinuousSeries{
		Name: "3PA per game",
		Style: chart.Style{
			StrokeColor: barColor,
			StrokeWidth: 2,
			DotColor:    barColor,
			DotWidth:    markerRadius,
		},
		XValues: xs,
		YValues: ys,
	}
	series := []chart.Series{line}
	if len(points) > 1 {
		series = append(series, &chart.LinearRegressionSeries{
			Name: "Trend",
			Style: chart.Style{
				StrokeColor:     trendColor,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
			},
			InnerSeries: line,
		})
	}

	ch := chart.Chart{
		Title:      "Evolution of NBA 3-Point Attempts Per Game",
		TitleStyle: chart.Style{FontSize: 14},
		Background: chart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 80},
		},
		Canvas: chart.Style{FillColor: drawing.ColorWhite},
		Width:  minWidth + 240,
		Height: defaultHeight,
		XAxis: chart.XAxis{
			Name:  "Season",
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(points)) - 0.5},
			Ticks: ticks,
			Style: chart.Style{TextRotationDegrees: labelRotation, FontSize: 9},
		},
		YAxis: chart.YAxis{
			Name:  "3PA Per Game",
			Range: &chart.ContinuousRange{Min: math.Max(0, lo-pad), Max: hi + pad},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(f.renderer(), w); err != nil {
		metrics.RecordErrorByComponent("charts", "render_error")
		return fmt.Errorf("render trend chart: %w", err)
	}
	metrics.RecordChartRender("trend", float64(time.Since(start).Milliseconds()))
	return nil
}
