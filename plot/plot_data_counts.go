package plot

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pivolan/eda_dashboard/domain/models"
)

const (
	maxChartWidth  = 3000
	maxChartHeight = 1200
	minChartWidth  = 640
)

var countBarColor = drawing.ColorFromHex("4c72b0")

// dataCountsForGraph is a count plot: one bar per category.
type dataCountsForGraph struct {
	xValues   []string
	yValues   []float64
	nameXAxis string
	nameYAxis string
	nameGraph string
}

func NewDataCountsForGraph(counts []models.ValueCount, nameXAxis, nameGraph string) dataCountsForGraph {
	d := dataCountsForGraph{
		xValues:   make([]string, len(counts)),
		yValues:   make([]float64, len(counts)),
		nameXAxis: nameXAxis,
		nameYAxis: "count",
		nameGraph: nameGraph,
	}
	for i, c := range counts {
		d.xValues[i] = c.Value
		d.yValues[i] = float64(c.Count)
	}
	return d
}
func (d dataCountsForGraph) GetNameGraph() string {
	if d.nameGraph == "" {
		return "Count of " + d.nameXAxis
	}
	return d.nameGraph
}
func (d dataCountsForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataCountsForGraph) getYValues() []float64 {
	return d.yValues
}

func (d dataCountsForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataCountsForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || d.lenXValues() <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if d.lenXValues() < 10 {
		x = 1.5
	}

	const (
		paddingY     = 100        // room for the Y axis and its labels
		spacingRatio = 0.2        // gap between bars relative to bar width
		aspectRatio  = 9.0 / 16.0 // default width:height
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenXValues()) + paddingY
	width = int(totalWidth*x) + paddingY
	width = int(math.Max(minChartWidth, math.Min(maxChartWidth, float64(width))))
	height = int(math.Min(maxChartHeight, float64(width)*aspectRatio))
	return width, height
}

func (d dataCountsForGraph) generateBarValues() []chart.Value {
	bars := make([]chart.Value, 0, len(d.xValues))
	for i := range d.xValues {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: d.xValues[i],
			Style: chart.Style{
				FillColor:   countBarColor,
				StrokeColor: countBarColor,
			},
		})
	}
	return bars
}

func (d dataCountsForGraph) generateGrid() []chart.Tick {
	return generateTicks(findMaxValue(d.yValues))
}
