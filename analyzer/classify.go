package analyzer

import "github.com/pivolan/eda_dashboard/domain/models"

// Classify splits the columns into NUMERIC (int64, float64) and OTHER,
// preserving table order in both lists.
func Classify(t *models.Table) models.Partition {
	p := models.Partition{Numeric: []string{}, Other: []string{}}
	for _, c := range t.Columns {
		if c.Kind.IsNumeric() {
			p.Numeric = append(p.Numeric, c.Name)
		} else {
			p.Other = append(p.Other, c.Name)
		}
	}
	return p
}
