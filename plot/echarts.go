package plot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// coolwarm endpoints and midpoint
var coolwarm = []string{"#3b4cc0", "#dddddd", "#b40426"}

// present/missing colours of the null mask
var missingColors = []string{"#1a1530", "#fbe7d6"}

var hueColors = []string{"#4c72b0", "#dd8452", "#55a868", "#c44e52", "#8172b3", "#937860"}

// noValue is how echarts expects an empty cell.
const noValue = "-"

// Frame is a self-contained echarts HTML document and its canvas size in pixels.
type Frame struct {
	HTML   []byte
	Width  int
	Height int
}

// CorrelationHeatmap renders an annotated Pearson matrix as an HTML document.
// Undefined coefficients are left blank.
func CorrelationHeatmap(cm *models.CorrelationMatrix, title string) (*Frame, error) {
	if cm == nil || len(cm.Columns) == 0 {
		return nil, ErrNoData
	}
	n := len(cm.Columns)
	data := make([]opts.HeatMapData, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var v interface{} = noValue
			if r := cm.Values[i][j]; !math.IsNaN(r) {
				v = math.Round(r*100) / 100
			}
			// row i is drawn top-down
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, n - 1 - i, v}})
		}
	}

	width, height := 320+70*n, 160+70*n
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			ChartID:   "correlation",
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      cm.Columns,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      reversed(cm.Columns),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Interval: "0"},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: coolwarm},
		}),
	)
	hm.AddSeries("correlation", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)

	return renderEcharts(hm, width, height)
}

// maxHeatmapRows bounds the rows of the missing-value heatmap.
const maxHeatmapRows = 500

// bucketMask folds consecutive rows of mask into at most maxRows buckets. A
// bucket cell is missing when any row in the bucket is missing there. starts
// holds the first source row of every bucket.
func bucketMask(mask [][]bool, maxRows int) (buckets [][]bool, starts []int) {
	rows := len(mask)
	if maxRows <= 0 || rows <= maxRows {
		starts = make([]int, rows)
		for r := range starts {
			starts[r] = r
		}
		return mask, starts
	}
	size := (rows + maxRows - 1) / maxRows
	for start := 0; start < rows; start += size {
		end := start + size
		if end > rows {
			end = rows
		}
		merged := make([]bool, len(mask[start]))
		for _, row := range mask[start:end] {
			for c, missing := range row {
				if c < len(merged) && missing {
					merged[c] = true
				}
			}
		}
		buckets = append(buckets, merged)
		starts = append(starts, start)
	}
	return buckets, starts
}

// MissingHeatmap renders the [row][column] null mask. Row labels and the
// colour legend are hidden. Tables longer than maxHeatmapRows are drawn in
// row buckets.
func MissingHeatmap(columns []string, mask [][]bool, title string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, ErrNoData
	}
	mask, starts := bucketMask(mask, maxHeatmapRows)
	rows := len(mask)
	data := make([]opts.HeatMapData, 0, rows*len(columns))
	for r, row := range mask {
		for c, missing := range row {
			v := 0
			if missing {
				v = 1
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, rows - 1 - r, v}})
		}
	}
	yLabels := make([]string, rows)
	for r := range yLabels {
		yLabels[r] = strconv.Itoa(starts[rows-1-r])
	}

	width, height := 200+60*len(columns), 420
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			ChartID:   "missing",
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      columns,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      yLabels,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:    opts.Bool(false),
			Min:     0,
			Max:     1,
			InRange: &opts.VisualMapInRange{Color: missingColors},
		}),
	)
	hm.AddSeries("missing", data)

	return renderEcharts(hm, width, height)
}

// GroupedBar renders one bar series per hue value over the x categories.
func GroupedBar(gc *models.GroupedCount, nameXAxis, nameHue, title string) (*Frame, error) {
	if gc == nil || len(gc.XValues) == 0 || len(gc.HueValues) == 0 {
		return nil, ErrNoData
	}
	width, height := 900, 500
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			ChartID:   "grouped",
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: nameXAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(gc.XValues)
	for h, hue := range gc.HueValues {
		items := make([]opts.BarData, len(gc.XValues))
		for x := range gc.XValues {
			items[x] = opts.BarData{Value: gc.Counts[h][x]}
		}
		bar.AddSeries(fmt.Sprintf("%s=%s", nameHue, hue), items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hueColors[h%len(hueColors)]}),
		)
	}

	return renderEcharts(bar, width, height)
}

type echartsRenderer interface {
	Render(w io.Writer) error
}

func renderEcharts(c echartsRenderer, width, height int) (*Frame, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return &Frame{HTML: buf.Bytes(), Width: width, Height: height}, nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
