package export

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/datasynth/engine"
)

// ============================================================================
// CHART IMAGE — ChartResult → SVG / PNG
// ============================================================================
// bar  → chart.BarChart
// pie  → chart.PieChart
// line → chart.Chart with one ContinuousSeries over category indices
// Entry colors come from ChartResult.Colors so the image matches the
// on-screen palette (Others in neutral grey).
// ============================================================================

// ImageFormat selects the renderer.
type ImageFormat string

const (
	FormatSVG ImageFormat = "svg"
	FormatPNG ImageFormat = "png"
)

// Default image size in pixels.
const (
	DefaultImageWidth  = 1024
	DefaultImageHeight = 576
)

// FormatFromPath picks the image format from a file extension. Anything
// other than .png renders as SVG.
func FormatFromPath(path string) ImageFormat {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return FormatPNG
	}
	return FormatSVG
}

func (f ImageFormat) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// RenderChart draws res to w.
func RenderChart(w io.Writer, res *engine.ChartResult, format ImageFormat) error {
	if res == nil || res.Len() == 0 {
		return ErrEmptyDataset
	}

	title := fmt.Sprintf("%s by %s", res.YLabel, res.XLabel)
	var err error
	switch res.Config.Type {
	case engine.ChartPie:
		err = renderPie(w, res, title, format)
	case engine.ChartLine:
		err = renderLine(w, res, title, format)
	default:
		err = renderBar(w, res, title, format)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", res.Config.Type, err)
	}
	return nil
}

func renderBar(w io.Writer, res *engine.ChartResult, title string, format ImageFormat) error {
	bars := make([]chart.Value, len(res.Points))
	for i, p := range res.Points {
		bars[i] = chart.Value{
			Label: p.X,
			Value: p.Y,
			Style: chart.Style{FillColor: colorAt(res, i), StrokeColor: colorAt(res, i)},
		}
	}
	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      DefaultImageWidth,
		Height:     DefaultImageHeight,
		BarWidth:   barWidth(len(bars)),
		BarSpacing: 8,
		YAxis:      chart.YAxis{Range: valueRange(pointValues(res))},
		Bars:       bars,
	}
	return bc.Render(format.provider(), w)
}

func renderPie(w io.Writer, res *engine.ChartResult, title string, format ImageFormat) error {
	values := make([]chart.Value, len(res.Slices))
	for i, s := range res.Slices {
		values[i] = chart.Value{
			Label: s.Name,
			Value: s.Value,
			Style: chart.Style{FillColor: colorAt(res, i)},
		}
	}
	pc := chart.PieChart{
		Title:  title,
		Width:  DefaultImageHeight,
		Height: DefaultImageHeight,
		Values: values,
	}
	return pc.Render(format.provider(), w)
}

func renderLine(w io.Writer, res *engine.ChartResult, title string, format ImageFormat) error {
	xs := make([]float64, len(res.Points))
	ys := make([]float64, len(res.Points))
	ticks := make([]chart.Tick, len(res.Points))
	for i, p := range res.Points {
		xs[i] = float64(i)
		ys[i] = p.Y
		ticks[i] = chart.Tick{Value: float64(i), Label: p.X}
	}

	// a single point has no x extent; pad the range so the axis renders
	xRange := &chart.ContinuousRange{Min: 0, Max: float64(len(xs) - 1)}
	if len(xs) == 1 {
		xRange = &chart.ContinuousRange{Min: -1, Max: 1}
	}

	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      DefaultImageWidth,
		Height:     DefaultImageHeight,
		XAxis:      chart.XAxis{Name: res.XLabel, Ticks: ticks, Range: xRange},
		YAxis:      chart.YAxis{Name: res.YLabel, Range: valueRange(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    res.YLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: colorAt(res, 0),
					StrokeWidth: 2,
					DotColor:    colorAt(res, 0),
					DotWidth:    4,
				},
			},
		},
	}
	return ch.Render(format.provider(), w)
}

func colorAt(res *engine.ChartResult, i int) drawing.Color {
	if i < len(res.Colors) {
		return drawing.ColorFromHex(strings.TrimPrefix(res.Colors[i], "#"))
	}
	return chart.DefaultColors[i%len(chart.DefaultColors)]
}

func pointValues(res *engine.ChartResult) []float64 {
	out := make([]float64, len(res.Points))
	for i, p := range res.Points {
		out[i] = p.Y
	}
	return out
}

// valueRange spans zero and every value. An all-zero series gets a unit
// range so tick generation has a non-empty domain.
func valueRange(values []float64) *chart.ContinuousRange {
	r := &chart.ContinuousRange{}
	for _, v := range values {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	if r.Min == r.Max {
		r.Max = r.Min + 1
	}
	return r
}

func barWidth(n int) int {
	switch {
	case n <= 5:
		return 80
	case n <= 10:
		return 50
	default:
		return 30
	}
}
