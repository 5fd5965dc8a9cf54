package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// ValueCounts counts the non-missing values of a column, most frequent
// first. Ties keep the order in which values first appear.
func ValueCounts(c *models.Column) []models.ValueCount {
	counts := CategoryCounts(c)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// CategoryCounts counts the non-missing values of a column in plotting
// order: numeric and bool columns ascending by value, others by first
// appearance.
func CategoryCounts(c *models.Column) []models.ValueCount {
	labels, index := categoryOrder(c)
	counts := make([]models.ValueCount, len(labels))
	for i, l := range labels {
		counts[i].Value = l
	}
	for _, idx := range index {
		if idx >= 0 {
			counts[idx].Count++
		}
	}
	return counts
}

// categoryOrder returns the distinct display labels of a column and, for each
// row, the position of its label (-1 when missing).
func categoryOrder(c *models.Column) ([]string, []int) {
	index := make([]int, len(c.Values))
	positions := make(map[string]int)
	var labels []string
	var keys []float64
	sortable := c.Kind.IsNumeric() || c.Kind == models.KindBool

	for row := range c.Values {
		if c.Missing[row] {
			index[row] = -1
			continue
		}
		label := FormatCell(c, row)
		pos, ok := positions[label]
		if !ok {
			pos = len(labels)
			positions[label] = pos
			labels = append(labels, label)
			if sortable {
				keys = append(keys, sortKey(c, row))
			}
		}
		index[row] = pos
	}

	if !sortable {
		return labels, index
	}

	order := make([]int, len(labels))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })
	remap := make([]int, len(labels))
	sortedLabels := make([]string, len(labels))
	for newPos, oldPos := range order {
		remap[oldPos] = newPos
		sortedLabels[newPos] = labels[oldPos]
	}
	for row, pos := range index {
		if pos >= 0 {
			index[row] = remap[pos]
		}
	}
	return sortedLabels, index
}

func sortKey(c *models.Column, row int) float64 {
	if c.Kind == models.KindBool {
		if strings.EqualFold(c.Values[row], "true") {
			return 1
		}
		return 0
	}
	return c.Numbers[row]
}

// GroupedCounts counts rows per (x, hue) pair. Rows missing either value are
// skipped. Both axes use plotting order.
func GroupedCounts(t *models.Table, x, hue string) (*models.GroupedCount, error) {
	xc, ok := t.Column(x)
	if !ok {
		return nil, fmt.Errorf("grouped counts: unknown column %q", x)
	}
	hc, ok := t.Column(hue)
	if !ok {
		return nil, fmt.Errorf("grouped counts: unknown column %q", hue)
	}

	xLabels, xIndex := categoryOrder(xc)
	hueLabels, hueIndex := categoryOrder(hc)
	counts := make([][]int64, len(hueLabels))
	for h := range counts {
		counts[h] = make([]int64, len(xLabels))
	}
	for row := 0; row < t.Rows; row++ {
		xi, hi := xIndex[row], hueIndex[row]
		if xi < 0 || hi < 0 {
			continue
		}
		counts[hi][xi]++
	}
	return &models.GroupedCount{XValues: xLabels, HueValues: hueLabels, Counts: counts}, nil
}

// MissingMatrix returns the null mask as [row][column].
func MissingMatrix(t *models.Table) [][]bool {
	matrix := make([][]bool, t.Rows)
	for row := range matrix {
		matrix[row] = make([]bool, len(t.Columns))
		for j := range t.Columns {
			matrix[row][j] = t.Columns[j].Missing[row]
		}
	}
	return matrix
}
