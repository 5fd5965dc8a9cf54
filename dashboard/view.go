package dashboard

import (
	"encoding/base64"
	"html/template"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// Section identifiers in rendering order.
const (
	SectionPreview        = "preview"
	SectionShape          = "shape"
	SectionTypes          = "types"
	SectionSummary        = "summary"
	SectionMissing        = "missing"
	SectionCorrelation    = "correlation"
	SectionHistogram      = "histogram"
	SectionBoxplot        = "boxplot"
	SectionCountplot      = "countplot"
	SectionLoanStatus     = "loan_status"
	SectionLoanVsCredit   = "loan_vs_credit"
	SectionMissingHeatmap = "missing_heatmap"
)

// Target columns that unlock the loan sections. Matched by exact name.
const (
	LoanStatusColumn    = "Loan_Status"
	CreditHistoryColumn = "Credit_History"
)

const (
	Title          = "Loan Dataset EDA Dashboard (Cleaned Data)"
	UploadPrompt   = "Upload your cleaned dataset to start analysis."
	SuccessMessage = "Cleaned dataset EDA ready. Explore all statistics & visualizations!"
)

type ChartFormat int

const (
	ChartPNG ChartFormat = iota
	ChartHTML
)

// Chart is a rendered figure: a PNG image or a self-contained echarts page.
type Chart struct {
	Name   string
	Format ChartFormat
	Data   []byte
	Width  int
	Height int
}

// DataURI embeds a PNG chart into an <img> tag.
func (c *Chart) DataURI() template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(c.Data))
}

// SrcDoc is the document shown in a sandboxed iframe. html/template escapes
// it for the attribute.
func (c *Chart) SrcDoc() string {
	return string(c.Data)
}

func (c *Chart) IsPNG() bool {
	return c.Format == ChartPNG
}

// Extension is the file extension used when the chart is saved to disk.
func (c *Chart) Extension() string {
	if c.Format == ChartPNG {
		return ".png"
	}
	return ".html"
}

type Metric struct {
	Label string
	Value int
}

// Picker is a dropdown bound to a query parameter.
type Picker struct {
	Param    string
	Label    string
	Options  []string
	Selected string
}

// Section is one block of the dashboard. Any combination of the optional
// parts may be set; Notice replaces a chart that cannot be drawn.
type Section struct {
	ID      string
	Title   string
	Picker  *Picker
	Metrics []Metric
	Grid    *Grid
	Chart   *Chart
	Notice  string
}

// View is everything needed to render the dashboard for one table and one
// selection.
type View struct {
	FileName  string
	Partition models.Partition
	Selection models.Selection
	Sections  []Section
	Success   string
}

// Section returns the section with the given id.
func (v *View) Section(id string) (*Section, bool) {
	for i := range v.Sections {
		if v.Sections[i].ID == id {
			return &v.Sections[i], true
		}
	}
	return nil, false
}

// SectionIDs lists section ids in rendering order.
func (v *View) SectionIDs() []string {
	ids := make([]string, len(v.Sections))
	for i, s := range v.Sections {
		ids[i] = s.ID
	}
	return ids
}
