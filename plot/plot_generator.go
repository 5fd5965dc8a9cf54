package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to plot")

var (
	histogramFill   = drawing.ColorFromHex("4c72b0").WithAlpha(120)
	histogramStroke = drawing.ColorFromHex("4c72b0")
	densityStroke   = drawing.ColorFromHex("1f3d7a")
	outlierColor    = drawing.ColorFromHex("555555")
)

// DrawHistogram renders the bins as touching bars with the density curve on top.
func DrawHistogram(data dataHistogramForGraph) ([]byte, error) {
	if data.lenXValues() == 0 {
		return nil, ErrNoData
	}
	stepX, stepY := data.generateStepValues()
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "count",
			XValues: stepX,
			YValues: stepY,
			Style: chart.Style{
				StrokeColor: histogramStroke,
				StrokeWidth: 1,
				FillColor:   histogramFill,
			},
		},
	}
	if len(data.density) > 1 {
		densX, densY := data.generateDensityValues()
		series = append(series, chart.ContinuousSeries{
			Name:    "density",
			XValues: densX,
			YValues: densY,
			Style: chart.Style{
				StrokeColor: densityStroke,
				StrokeWidth: 2,
			},
		})
	}

	ticks := data.generateGrid()
	minX, maxX := data.xRange()
	graph := chart.Chart{
		Title: data.GetNameGraph(),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  30,
				Bottom: 20,
			},
			FillColor: drawing.ColorWhite,
		},
		Width:  1024,
		Height: 600,
		XAxis: chart.XAxis{
			Name:           data.nameXAxis,
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: axisFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: ticks[len(ticks)-1].Value},
			Ticks: ticks,
			GridMajorStyle: chart.Style{
				StrokeColor:     drawing.ColorFromHex("dddddd"),
				StrokeWidth:     1,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
		Series: series,
	}

	return render(graph)
}

// DrawBoxPlot renders a horizontal box plot: the box spans Q1..Q3 with the
// median marked, whiskers reach the fences and outliers are drawn as dots.
func DrawBoxPlot(box models.BoxStats, nameXAxis, nameGraph string) ([]byte, error) {
	const (
		boxLow, boxHigh = 0.3, 0.7
		capLow, capHigh = 0.4, 0.6
		middle          = 0.5
	)
	minX, maxX := box.LowerWhisker, box.UpperWhisker
	for _, o := range box.Outliers {
		minX = math.Min(minX, o)
		maxX = math.Max(maxX, o)
	}
	pad := (maxX - minX) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(minX)*0.05, 0.5)
	}

	line := chart.Style{StrokeColor: histogramStroke, StrokeWidth: 2}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "box",
			XValues: []float64{box.Q1, box.Q3, box.Q3, box.Q1, box.Q1},
			YValues: []float64{boxLow, boxLow, boxHigh, boxHigh, boxLow},
			Style:   line,
		},
		chart.ContinuousSeries{
			Name:    "median",
			XValues: []float64{box.Median, box.Median},
			YValues: []float64{boxLow, boxHigh},
			Style:   chart.Style{StrokeColor: densityStroke, StrokeWidth: 3},
		},
		chart.ContinuousSeries{
			Name:    "lower whisker",
			XValues: []float64{box.LowerWhisker, box.Q1, box.LowerWhisker, box.LowerWhisker},
			YValues: []float64{middle, middle, capLow, capHigh},
			Style:   line,
		},
		chart.ContinuousSeries{
			Name:    "upper whisker",
			XValues: []float64{box.Q3, box.UpperWhisker, box.UpperWhisker, box.UpperWhisker},
			YValues: []float64{middle, middle, capLow, capHigh},
			Style:   line,
		},
	}
	if len(box.Outliers) > 0 {
		ys := make([]float64, len(box.Outliers))
		for i := range ys {
			ys[i] = middle
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "outliers",
			XValues: box.Outliers,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				StrokeWidth: 1,
				DotWidth:    4,
				DotColor:    outlierColor,
			},
		})
	}

	graph := chart.Chart{
		Title: nameGraph,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  30,
				Bottom: 20,
			},
			FillColor: drawing.ColorWhite,
		},
		Width:  1024,
		Height: 360,
		XAxis: chart.XAxis{
			Name:           nameXAxis,
			Range:          &chart.ContinuousRange{Min: minX - pad, Max: maxX + pad},
			ValueFormatter: axisFormatter,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}

	return render(graph)
}

// DrawPlotBar renders a categorical bar chart with labels tilted by 45 degrees.
func DrawPlotBar(data dataForGraph) ([]byte, error) {
	if len(data.getYValues()) == 0 {
		return nil, ErrNoData
	}
	barValues := data.generateBarValues()
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(60)
	ticks := data.generateGrid()

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.Background = chart.Style{
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
			Left:   20,
		},
		FillColor: drawing.ColorWhite,
	}
	bar.Height = height + paddingX
	bar.Width = width
	bar.BarWidth = barWidthFor(width, len(barValues))
	bar.BarSpacing = bar.BarWidth / 4
	if bar.BarSpacing < 1 {
		bar.BarSpacing = 1
	}
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Name: data.getNameYAxis(),
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: ticks[len(ticks)-1].Value,
		},
		Style: chart.Style{
			StrokeWidth: 1,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		Ticks: ticks,
		GridMajorStyle: chart.Style{
			StrokeColor:     drawing.ColorFromHex("dddddd"),
			StrokeWidth:     1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         1,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: 45,
		FontSize:            12,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func render(graph chart.Chart) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	graph.Background.StrokeWidth = 1
	graph.Background.StrokeColor = drawing.ColorFromHex("efefef")

	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func axisFormatter(v interface{}) string {
	if vf, isFloat := v.(float64); isFloat {
		return trimFloat(vf)
	}
	return ""
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e9 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func barWidthFor(width, bars int) int {
	usable := float64(width-150) / float64(bars)
	w := int(usable * 0.8)
	switch {
	case w > 60:
		return 60
	case w < 2:
		return 2
	}
	return w
}

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}

	if maxValue < 1e-10 {
		return 1e-10
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))

	// normalized lies in [1, 10)
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}

	finalStep := step * magnitude

	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}

	return finalStep
}

// generateTicks returns evenly spaced ticks from 0 to the first grid line at
// or above max.
func generateTicks(max float64) []chart.Tick {
	gridStep := calculateGridStep(max)
	if gridStep <= 0 {
		return []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	}
	steps := int(math.Ceil(max/gridStep - 1e-9))
	if steps < 1 {
		steps = 1
	}
	ticks := make([]chart.Tick, 0, steps+1)
	for i := 0; i <= steps; i++ {
		v := float64(i) * gridStep
		ticks = append(ticks, chart.Tick{Value: v, Label: trimFloat(v)})
	}
	return ticks
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	// labels are tilted by 45 degrees
	return int(float64(count)*6) + 30
}
