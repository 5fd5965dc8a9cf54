package models

import "math"

type ColumnKind int

const (
	KindFloat ColumnKind = iota
	KindInt
	KindBool
	KindObject
)

// TypeLabel returns the dtype-style label shown in the types table.
func (k ColumnKind) TypeLabel() string {
	switch k {
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "object"
	}
}

// IsNumeric reports whether the kind belongs to the NUMERIC partition.
func (k ColumnKind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// Column holds one named column. Values, Missing and Numbers are aligned by row.
type Column struct {
	Name    string
	Kind    ColumnKind
	Values  []string  // trimmed cell text, "" where missing
	Missing []bool    // true where the cell is null/empty
	Numbers []float64 // parsed values for numeric kinds, NaN where missing
}

// NonMissing returns the parsed numbers without missing entries.
func (c *Column) NonMissing() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for i, v := range c.Numbers {
		if c.Missing[i] || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Present returns the raw values of non-missing cells in row order.
func (c *Column) Present() []string {
	out := make([]string, 0, len(c.Values))
	for i, v := range c.Values {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Table is the parsed upload. It is never mutated after ingestion.
type Table struct {
	Name    string
	Rows    int
	Columns []Column
}

// Column looks a column up by its exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the names in original order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

type ColumnDescriptor struct {
	Name string
	Kind ColumnKind
	Type string
}

// Partition splits column names into numeric and other, keeping table order.
type Partition struct {
	Numeric []string
	Other   []string
}

// Selection is the transient dropdown state.
type Selection struct {
	Numeric     string
	Categorical string
}

// ColumnSummary mirrors one row of describe(include="all").
// Statistics that do not apply to the column are NaN; Top is "" then.
type ColumnSummary struct {
	Name   string
	Count  int
	Unique float64
	Top    string
	Freq   float64
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

type MissingCount struct {
	Name  string
	Count int
}

// CorrelationMatrix holds a symmetric Pearson matrix, Values[i][j].
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

type ValueCount struct {
	Value string
	Count int64
}

// HistogramData is one histogram bin [RangeStart, RangeEnd).
type HistogramData struct {
	RangeStart float64
	RangeEnd   float64
	Count      int
}

// DensityPoint is one sample of the kernel density curve, scaled to counts.
type DensityPoint struct {
	X float64
	Y float64
}

// BoxStats describes a horizontal box plot.
type BoxStats struct {
	Q1, Median, Q3 float64
	LowerWhisker   float64
	UpperWhisker   float64
	Outliers       []float64
}

// GroupedCount is a count per (X value, Hue value) pair.
type GroupedCount struct {
	XValues   []string
	HueValues []string
	Counts    [][]int64 // Counts[hue][x]
}
