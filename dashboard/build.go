package dashboard

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/eda_dashboard/analyzer"
	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/logger"
	"github.com/pivolan/eda_dashboard/plot"
)

const DefaultPreviewRows = 5

type Options struct {
	PreviewRows int
}

func DefaultOptions() Options {
	return Options{PreviewRows: DefaultPreviewRows}
}

// Build computes the dashboard for t with default options.
func Build(t *models.Table, sel models.Selection) (*View, error) {
	return BuildWithOptions(t, sel, DefaultOptions())
}

// BuildWithOptions computes every section from scratch. The result depends
// only on its arguments; nothing is cached between calls.
func BuildWithOptions(t *models.Table, sel models.Selection, opt Options) (*View, error) {
	if t == nil {
		return nil, errors.New("dashboard: no table")
	}
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = DefaultPreviewRows
	}

	partition := analyzer.Classify(t)
	sel = ResolveSelection(partition, sel)
	v := &View{
		FileName:  t.Name,
		Partition: partition,
		Selection: sel,
		Success:   SuccessMessage,
	}

	v.Sections = append(v.Sections,
		previewSection(t, opt.PreviewRows),
		shapeSection(t),
		typesSection(t),
		summarySection(t, partition),
		missingSection(t),
	)

	if len(partition.Numeric) > 1 {
		s, err := correlationSection(t, partition.Numeric)
		if err != nil {
			return nil, err
		}
		v.Sections = append(v.Sections, s)
	}

	v.Sections = append(v.Sections, distributionSections(t, partition, sel.Numeric)...)
	v.Sections = append(v.Sections, countSection(t, partition, sel.Categorical))

	target, err := targetSections(t)
	if err != nil {
		return nil, err
	}
	v.Sections = append(v.Sections, target...)
	v.Sections = append(v.Sections, missingHeatmapSection(t))

	return v, nil
}

// ResolveSelection replaces names that are not in the matching partition with
// the first entry of that partition, or "" when it is empty.
func ResolveSelection(p models.Partition, sel models.Selection) models.Selection {
	return models.Selection{
		Numeric:     pick(sel.Numeric, p.Numeric),
		Categorical: pick(sel.Categorical, p.Other),
	}
}

func pick(name string, options []string) string {
	if name != "" && go_utils.InArray(name, options) {
		return name
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}

func previewSection(t *models.Table, n int) Section {
	header := append([]string{""}, t.ColumnNames()...)
	rows := analyzer.Preview(t, n)
	grid := &Grid{Header: header, Rows: make([][]string, len(rows))}
	for i, r := range rows {
		grid.Rows[i] = append([]string{strconv.Itoa(i)}, r...)
	}
	return Section{ID: SectionPreview, Title: "Dataset Preview", Grid: grid}
}

func shapeSection(t *models.Table) Section {
	rows, cols := analyzer.Shape(t)
	return Section{
		ID:      SectionShape,
		Title:   "Dataset Shape",
		Metrics: []Metric{{Label: "Rows", Value: rows}, {Label: "Columns", Value: cols}},
	}
}

func typesSection(t *models.Table) Section {
	grid := &Grid{Header: []string{"", "Data Type"}}
	for _, d := range analyzer.Types(t) {
		grid.Rows = append(grid.Rows, []string{d.Name, d.Type})
	}
	return Section{ID: SectionTypes, Title: "Column Data Types", Grid: grid}
}

// summarySection lays describe(include="all") out with one row per column.
// Statistic groups that apply to no column are left out.
func summarySection(t *models.Table, p models.Partition) Section {
	withCategorical := len(p.Other) > 0
	withNumeric := len(p.Numeric) > 0

	header := []string{"", "count"}
	if withCategorical {
		header = append(header, "unique", "top", "freq")
	}
	if withNumeric {
		header = append(header, "mean", "std", "min", "25%", "50%", "75%", "max")
	}

	grid := &Grid{Header: header}
	for _, s := range analyzer.Describe(t) {
		row := []string{s.Name, strconv.Itoa(s.Count)}
		if withCategorical {
			top := s.Top
			if top == "" {
				top = "NaN"
			}
			row = append(row, formatStat(s.Unique), top, formatStat(s.Freq))
		}
		if withNumeric {
			row = append(row,
				formatStat(s.Mean), formatStat(s.Std), formatStat(s.Min),
				formatStat(s.Q25), formatStat(s.Q50), formatStat(s.Q75), formatStat(s.Max),
			)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return Section{ID: SectionSummary, Title: "Summary Statistics", Grid: grid}
}

func formatStat(v float64) string {
	return analyzer.FormatFloat(v)
}

func missingSection(t *models.Table) Section {
	counts := analyzer.MissingCounts(t)
	grid := &Grid{Header: []string{"", "Missing"}}
	for _, c := range counts {
		grid.Rows = append(grid.Rows, []string{c.Name, strconv.Itoa(c.Count)})
	}
	grid.Footer = []string{"Total", strconv.Itoa(analyzer.TotalMissing(counts))}
	return Section{ID: SectionMissing, Title: "Missing Values", Grid: grid}
}

func correlationSection(t *models.Table, numeric []string) (Section, error) {
	cm, err := analyzer.Correlation(t, numeric)
	if err != nil {
		return Section{}, fmt.Errorf("correlation: %w", err)
	}
	grid := &Grid{Header: append([]string{""}, cm.Columns...)}
	for i, name := range cm.Columns {
		row := []string{name}
		for _, r := range cm.Values[i] {
			row = append(row, formatCorrelation(r))
		}
		grid.Rows = append(grid.Rows, row)
	}

	s := Section{ID: SectionCorrelation, Title: "Correlation Heatmap", Grid: grid}
	frame, err := plot.CorrelationHeatmap(cm, "Correlation Heatmap")
	if err != nil {
		chartFailed(&s, fmt.Errorf("correlation heatmap: %w", err))
		return s, nil
	}
	s.Chart = frameChart("correlation_heatmap", frame)
	return s, nil
}

func formatCorrelation(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64)
}

func distributionSections(t *models.Table, p models.Partition, name string) []Section {
	hist := Section{
		ID:    SectionHistogram,
		Title: "Numerical Feature Distribution",
		Picker: &Picker{
			Param:    "num",
			Label:    "Select Numerical Column",
			Options:  p.Numeric,
			Selected: name,
		},
	}
	box := Section{ID: SectionBoxplot, Title: "Outlier Detection (Boxplot)"}

	if name == "" {
		hist.Notice = "No numerical columns to plot."
		box.Notice = hist.Notice
		return []Section{hist, box}
	}
	col, _ := t.Column(name)
	values := analyzer.Finite(col.NonMissing())
	if len(values) == 0 {
		hist.Notice = fmt.Sprintf("Column %s has no values to plot.", name)
		box.Notice = hist.Notice
		return []Section{hist, box}
	}

	if err := histogramChart(&hist, name, values); err != nil {
		chartFailed(&hist, err)
	}
	if err := boxChart(&box, name, values); err != nil {
		chartFailed(&box, err)
	}
	return []Section{hist, box}
}

func histogramChart(s *Section, name string, values []float64) error {
	bins, err := analyzer.Histogram(values)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", name, err)
	}
	density := analyzer.Density(values, bins[0].RangeEnd-bins[0].RangeStart)
	png, err := plot.DrawHistogram(plot.NewDataHistogramForGraph(bins, density, name, "Distribution of "+name))
	if err != nil {
		return fmt.Errorf("histogram %s: %w", name, err)
	}
	s.Chart = &Chart{Name: "histogram_" + name, Format: ChartPNG, Data: png}
	s.Grid = &Grid{Header: []string{"bin", "count"}}
	for _, b := range bins {
		s.Grid.Rows = append(s.Grid.Rows, []string{
			fmt.Sprintf("[%s, %s)", trimBound(b.RangeStart), trimBound(b.RangeEnd)),
			strconv.Itoa(b.Count),
		})
	}
	return nil
}

func boxChart(s *Section, name string, values []float64) error {
	stats, err := analyzer.Box(values)
	if err != nil {
		return fmt.Errorf("boxplot %s: %w", name, err)
	}
	png, err := plot.DrawBoxPlot(stats, name, "Boxplot of "+name)
	if err != nil {
		return fmt.Errorf("boxplot %s: %w", name, err)
	}
	s.Chart = &Chart{Name: "boxplot_" + name, Format: ChartPNG, Data: png}
	s.Grid = &Grid{
		Header: []string{"lower whisker", "Q1", "median", "Q3", "upper whisker", "outliers"},
		Rows: [][]string{{
			formatStat(stats.LowerWhisker), formatStat(stats.Q1), formatStat(stats.Median),
			formatStat(stats.Q3), formatStat(stats.UpperWhisker), strconv.Itoa(len(stats.Outliers)),
		}},
	}
	return nil
}

// chartFailed replaces a section's chart and grid with a notice.
func chartFailed(s *Section, err error) {
	logger.Warn("section %s: %v", s.ID, err)
	s.Chart, s.Grid = nil, nil
	s.Notice = "Chart could not be drawn: " + err.Error()
}

func trimBound(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func countSection(t *models.Table, p models.Partition, name string) Section {
	s := Section{
		ID:    SectionCountplot,
		Title: "Categorical Feature Distribution",
		Picker: &Picker{
			Param:    "cat",
			Label:    "Select Categorical Column",
			Options:  p.Other,
			Selected: name,
		},
	}
	if name == "" {
		s.Notice = "No categorical columns to plot."
		return s
	}
	col, _ := t.Column(name)
	chart, grid, err := countPlot(col, "count_"+name)
	if err != nil {
		chartFailed(&s, err)
		return s
	}
	if chart == nil {
		s.Notice = fmt.Sprintf("Column %s has no values to plot.", name)
		return s
	}
	s.Chart, s.Grid = chart, grid
	return s
}

// countPlot returns a nil chart when the column has no values.
func countPlot(col *models.Column, chartName string) (*Chart, *Grid, error) {
	counts := analyzer.CategoryCounts(col)
	if len(counts) == 0 {
		return nil, nil, nil
	}
	png, err := plot.DrawPlotBar(plot.NewDataCountsForGraph(counts, col.Name, "Count of "+col.Name))
	if err != nil {
		return nil, nil, fmt.Errorf("count plot %s: %w", col.Name, err)
	}
	grid := &Grid{Header: []string{col.Name, "count"}}
	for _, c := range counts {
		grid.Rows = append(grid.Rows, []string{c.Value, strconv.FormatInt(c.Count, 10)})
	}
	return &Chart{Name: chartName, Format: ChartPNG, Data: png}, grid, nil
}

func targetSections(t *models.Table) ([]Section, error) {
	status, ok := t.Column(LoanStatusColumn)
	if !ok {
		return nil, nil
	}
	s := Section{ID: SectionLoanStatus, Title: "Loan Status Analysis"}
	chart, grid, err := countPlot(status, "loan_status")
	switch {
	case err != nil:
		chartFailed(&s, err)
	case chart == nil:
		s.Notice = fmt.Sprintf("Column %s has no values to plot.", LoanStatusColumn)
	default:
		s.Chart, s.Grid = chart, grid
	}
	sections := []Section{s}

	if _, ok := t.Column(CreditHistoryColumn); !ok {
		return sections, nil
	}
	vs := Section{ID: SectionLoanVsCredit, Title: "Loan Status vs Credit History"}
	gc, err := analyzer.GroupedCounts(t, CreditHistoryColumn, LoanStatusColumn)
	if err != nil {
		return nil, err
	}
	if len(gc.XValues) == 0 || len(gc.HueValues) == 0 {
		vs.Notice = "No rows with both Credit_History and Loan_Status."
		return append(sections, vs), nil
	}
	frame, err := plot.GroupedBar(gc, CreditHistoryColumn, LoanStatusColumn, "Loan Status vs Credit History")
	if err != nil {
		chartFailed(&vs, fmt.Errorf("loan status vs credit history: %w", err))
		return append(sections, vs), nil
	}
	vs.Chart = frameChart("loan_status_vs_credit_history", frame)
	vs.Grid = &Grid{Header: append([]string{CreditHistoryColumn + " \\ " + LoanStatusColumn}, gc.HueValues...)}
	for x, label := range gc.XValues {
		row := []string{label}
		for h := range gc.HueValues {
			row = append(row, strconv.FormatInt(gc.Counts[h][x], 10))
		}
		vs.Grid.Rows = append(vs.Grid.Rows, row)
	}
	return append(sections, vs), nil
}

func missingHeatmapSection(t *models.Table) Section {
	s := Section{ID: SectionMissingHeatmap, Title: "Missing Values Heatmap"}
	frame, err := plot.MissingHeatmap(t.ColumnNames(), analyzer.MissingMatrix(t), "Missing Values Heatmap")
	if err != nil {
		chartFailed(&s, fmt.Errorf("missing heatmap: %w", err))
		return s
	}
	s.Chart = frameChart("missing_values_heatmap", frame)
	return s
}

func frameChart(name string, f *plot.Frame) *Chart {
	return &Chart{Name: name, Format: ChartHTML, Data: f.HTML, Width: f.Width, Height: f.Height}
}
