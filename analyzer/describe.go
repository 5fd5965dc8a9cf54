package analyzer

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// Shape returns the number of rows and columns.
func Shape(t *models.Table) (rows, cols int) {
	return t.Rows, len(t.Columns)
}

// Types lists every column with its dtype-style label.
func Types(t *models.Table) []models.ColumnDescriptor {
	out := make([]models.ColumnDescriptor, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = models.ColumnDescriptor{Name: c.Name, Kind: c.Kind, Type: c.Kind.TypeLabel()}
	}
	return out
}

// Describe summarises every column. Numeric columns get the moment and
// quantile statistics, the rest get unique/top/freq.
func Describe(t *models.Table) []models.ColumnSummary {
	out := make([]models.ColumnSummary, len(t.Columns))
	for i := range t.Columns {
		c := &t.Columns[i]
		if c.Kind.IsNumeric() {
			out[i] = describeNumeric(c)
		} else {
			out[i] = describeCategorical(c)
		}
	}
	return out
}

func emptySummary(name string) models.ColumnSummary {
	nan := math.NaN()
	return models.ColumnSummary{
		Name: name, Unique: nan, Freq: nan,
		Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}
}

func describeNumeric(c *models.Column) models.ColumnSummary {
	s := emptySummary(c.Name)
	numbers := c.NonMissing()
	s.Count = len(numbers)
	if len(numbers) == 0 {
		return s
	}

	sorted := make([]float64, len(numbers))
	copy(sorted, numbers)
	sort.Float64s(sorted)

	s.Mean, _ = stats.Mean(numbers)
	s.Min, _ = stats.Min(numbers)
	s.Max, _ = stats.Max(numbers)
	if len(numbers) > 1 {
		s.Std, _ = stats.StandardDeviationSample(numbers)
	}
	s.Q25 = calculateQuantile(sorted, 0.25)
	s.Q50 = calculateQuantile(sorted, 0.5)
	s.Q75 = calculateQuantile(sorted, 0.75)
	return s
}

func describeCategorical(c *models.Column) models.ColumnSummary {
	s := emptySummary(c.Name)
	present := c.Present()
	s.Count = len(present)
	counts := ValueCounts(c)
	s.Unique = float64(len(counts))
	if len(counts) > 0 {
		s.Top = counts[0].Value
		s.Freq = float64(counts[0].Count)
	}
	return s
}

// MissingCounts returns the number of missing cells per column in table order.
func MissingCounts(t *models.Table) []models.MissingCount {
	out := make([]models.MissingCount, len(t.Columns))
	for i, c := range t.Columns {
		n := 0
		for _, m := range c.Missing {
			if m {
				n++
			}
		}
		out[i] = models.MissingCount{Name: c.Name, Count: n}
	}
	return out
}

// TotalMissing sums MissingCounts.
func TotalMissing(counts []models.MissingCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// Preview returns up to n leading rows rendered as display strings.
// Missing cells are shown as NaN.
func Preview(t *models.Table, n int) [][]string {
	if n > t.Rows {
		n = t.Rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		for j := range t.Columns {
			row[j] = FormatCell(&t.Columns[j], i)
		}
		rows[i] = row
	}
	return rows
}

// FormatCell renders one cell the way the preview table shows it.
func FormatCell(c *models.Column, row int) string {
	if c.Missing[row] {
		return "NaN"
	}
	if c.Kind == models.KindFloat {
		return FormatFloat(c.Numbers[row])
	}
	return c.Values[row]
}

// FormatFloat prints a float with at least one decimal, so 25 reads as 25.0.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
