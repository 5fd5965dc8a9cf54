package analyzer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/eda_dashboard/domain/models"
)

var (
	// ErrTooFewColumns is returned when a correlation matrix is requested for
	// fewer than two numeric columns.
	ErrTooFewColumns = errors.New("correlation needs at least two numeric columns")
	// ErrNoValues is returned when a distribution view has nothing to show.
	ErrNoValues = errors.New("column has no non-missing values")
)

// Correlation computes the Pearson matrix over the named numeric columns.
// Each pair uses only rows where both values are present. A pair with fewer
// than two such rows or without variance is NaN; the diagonal is always 1.
func Correlation(t *models.Table, cols []string) (*models.CorrelationMatrix, error) {
	if len(cols) < 2 {
		return nil, ErrTooFewColumns
	}
	columns := make([]*models.Column, len(cols))
	for i, name := range cols {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("correlation: unknown column %q", name)
		}
		if !c.Kind.IsNumeric() {
			return nil, fmt.Errorf("correlation: column %q is not numeric", name)
		}
		columns[i] = c
	}

	values := make([][]float64, len(cols))
	for i := range values {
		values[i] = make([]float64, len(cols))
		values[i][i] = 1
	}
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			r := pairwisePearson(columns[i], columns[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	names := make([]string, len(cols))
	copy(names, cols)
	return &models.CorrelationMatrix{Columns: names, Values: values}, nil
}

func pairwisePearson(a, b *models.Column) float64 {
	x := make([]float64, 0, len(a.Numbers))
	y := make([]float64, 0, len(b.Numbers))
	for i := range a.Numbers {
		if a.Missing[i] || b.Missing[i] {
			continue
		}
		x = append(x, a.Numbers[i])
		y = append(y, b.Numbers[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}
