package reports

import (
	"bytes"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
)

// ChartPoint is one plotted reading
type ChartPoint struct {
	TestID uint
	Label  string // Jalali DD/MM
	Value  int
}

// ReferenceLine is a horizontal clinical threshold drawn on the chart
type ReferenceLine struct {
	Value  int
	Label  string
	Color  color.RGBA
	Dashes []vg.Length
}

// ReferenceLines are drawn on every chart, lowest first. Labels are English
// because the bundled chart fonts have no Persian glyphs.
var ReferenceLines = []ReferenceLine{
	{Value: stats.HypoglycemiaFloor, Label: "Normal low", Color: color.RGBA{G: 128, A: 255}, Dashes: []vg.Length{vg.Points(6), vg.Points(4)}},
	{Value: stats.FastingNormalMax, Label: "Fasting normal high", Color: color.RGBA{B: 255, A: 255}, Dashes: []vg.Length{vg.Points(8), vg.Points(3), vg.Points(2), vg.Points(3)}},
	{Value: stats.NormalMax, Label: "Normal high", Color: color.RGBA{R: 255, G: 165, A: 255}, Dashes: []vg.Length{vg.Points(2), vg.Points(3)}},
	{Value: stats.DangerThreshold, Label: "Danger", Color: color.RGBA{R: 255, A: 255}, Dashes: []vg.Length{vg.Points(6), vg.Points(4)}},
}

// ChartData is everything a chart plots, independent of styling
type ChartData struct {
	Points     []ChartPoint
	References []ReferenceLine
}

var (
	lineColor   = color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 255}
	fillColor   = color.RGBA{R: 0x2E, G: 0x86, B: 0xAB, A: 0x33}
	markerColor = color.RGBA{R: 0xFF, G: 0x6B, B: 0x6B, A: 255}
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 7 * vg.Inch
)

// ChartData sorts a copy of tests by creation time and derives the plotted
// points. Equal timestamps keep their input order.
func (r *Renderer) ChartData(tests []domain.GlucoseTest) ChartData {
	sorted := slices.Clone(tests)
	slices.SortStableFunc(sorted, func(a, b domain.GlucoseTest) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	points := make([]ChartPoint, 0, len(sorted))
	for _, t := range sorted {
		points = append(points, ChartPoint{
			TestID: t.ID,
			Label:  r.conv.DayMonth(t.CreatedAt),
			Value:  t.Glucose,
		})
	}
	return ChartData{Points: points, References: slices.Clone(ReferenceLines)}
}

// Chart renders tests as a PNG line chart
func (r *Renderer) Chart(tests []domain.GlucoseTest) Artifact {
	return r.guard("chart", len(tests), func() ([]byte, error) {
		return drawChart(r.ChartData(tests))
	})
}

func drawChart(data ChartData) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Monthly blood glucose"
	p.X.Label.Text = "Date (day/month)"
	p.Y.Label.Text = "Blood glucose (mg/dL)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(data.Points))
	labels := make([]string, len(data.Points))
	values := make([]string, len(data.Points))
	maxValue := 0
	for i, pt := range data.Points {
		xys[i].X = float64(i)
		xys[i].Y = float64(pt.Value)
		labels[i] = pt.Label
		values[i] = strconv.Itoa(pt.Value)
		maxValue = max(maxValue, pt.Value)
	}

	for _, ref := range data.References {
		y := float64(ref.Value)
		fn := plotter.NewFunction(func(float64) float64 { return y })
		fn.LineStyle.Color = ref.Color
		fn.LineStyle.Width = vg.Points(2)
		fn.LineStyle.Dashes = ref.Dashes
		p.Add(fn)
		p.Legend.Add(ref.Label, fn)
		maxValue = max(maxValue, ref.Value)
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = lineColor
	line.LineStyle.Width = vg.Points(3)
	line.FillColor = fillColor
	points.GlyphStyle.Color = markerColor
	points.GlyphStyle.Radius = vg.Points(5)
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: values})
	if err != nil {
		return nil, err
	}
	valueLabels.Offset = vg.Point{X: -vg.Points(6), Y: vg.Points(8)}
	p.Add(valueLabels)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Y.Max = math.Ceil(float64(maxValue)*1.1/10) * 10
	if len(xys) == 1 {
		p.X.Min, p.X.Max = -1, 1
	}
	p.Legend.Top = true

	w, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
