package plot

import (
	"github.com/wcharczuk/go-chart/v2"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// dataHistogramForGraph holds histogram bins [xStart, xEnd) with counts and
// an optional density curve already scaled to counts.
type dataHistogramForGraph struct {
	xStart, xEnd []float64
	yValues      []float64
	density      []models.DensityPoint
	nameXAxis    string
	nameGraph    string
}

func NewDataHistogramForGraph(bins []models.HistogramData, density []models.DensityPoint, nameXAxis, nameGraph string) dataHistogramForGraph {
	d := dataHistogramForGraph{
		xStart:    make([]float64, len(bins)),
		xEnd:      make([]float64, len(bins)),
		yValues:   make([]float64, len(bins)),
		density:   density,
		nameXAxis: nameXAxis,
		nameGraph: nameGraph,
	}
	for i, b := range bins {
		d.xStart[i] = b.RangeStart
		d.xEnd[i] = b.RangeEnd
		d.yValues[i] = float64(b.Count)
	}
	return d
}
func (d dataHistogramForGraph) GetNameGraph() string {
	return d.nameGraph
}

func (d dataHistogramForGraph) lenXValues() int {
	return len(d.xStart)
}

// findMaxValue covers both the bars and the density curve.
func (d dataHistogramForGraph) findMaxValue() float64 {
	max := findMaxValue(d.yValues)
	for _, p := range d.density {
		if p.Y > max {
			max = p.Y
		}
	}
	return max
}

func (d dataHistogramForGraph) xRange() (float64, float64) {
	return d.xStart[0], d.xEnd[d.lenXValues()-1]
}

// generateStepValues traces the outline of the bars so that a filled
// continuous series draws them edge to edge.
func (d dataHistogramForGraph) generateStepValues() (xs, ys []float64) {
	n := d.lenXValues()
	xs = make([]float64, 0, 2*n+2)
	ys = make([]float64, 0, 2*n+2)
	xs = append(xs, d.xStart[0])
	ys = append(ys, 0)
	for i := 0; i < n; i++ {
		xs = append(xs, d.xStart[i], d.xEnd[i])
		ys = append(ys, d.yValues[i], d.yValues[i])
	}
	xs = append(xs, d.xEnd[n-1])
	ys = append(ys, 0)
	return xs, ys
}

func (d dataHistogramForGraph) generateDensityValues() (xs, ys []float64) {
	xs = make([]float64, len(d.density))
	ys = make([]float64, len(d.density))
	for i, p := range d.density {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func (d dataHistogramForGraph) generateGrid() []chart.Tick {
	return generateTicks(d.findMaxValue())
}
