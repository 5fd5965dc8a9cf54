package dashboard

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/ingest"
)

const loanCSV = `Loan_ID,Age,Gender,Loan_Status,Credit_History
LP001,25,Male,Y,1
LP002,,Female,N,0
LP003,40,Male,Y,1
LP004,31,Female,Y,1
LP005,52,Male,N,0
`

func mustRead(t *testing.T, csv string) *models.Table {
	t.Helper()
	tbl, err := ingest.Read(strings.NewReader(csv), "loan.csv", ingest.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func mustBuild(t *testing.T, tbl *models.Table, sel models.Selection) *View {
	t.Helper()
	v, err := Build(tbl, sel)
	require.NoError(t, err)
	return v
}

func TestBuildLoanScenario(t *testing.T) {
	v := mustBuild(t, mustRead(t, loanCSV), models.Selection{})

	assert.Equal(t, []string{
		SectionPreview, SectionShape, SectionTypes, SectionSummary, SectionMissing,
		SectionCorrelation, SectionHistogram, SectionBoxplot, SectionCountplot,
		SectionLoanStatus, SectionLoanVsCredit, SectionMissingHeatmap,
	}, v.SectionIDs())
	assert.Equal(t, models.Selection{Numeric: "Age", Categorical: "Loan_ID"}, v.Selection)
	assert.Equal(t, SuccessMessage, v.Success)

	shape, _ := v.Section(SectionShape)
	assert.Equal(t, []Metric{{Label: "Rows", Value: 5}, {Label: "Columns", Value: 5}}, shape.Metrics)

	preview, _ := v.Section(SectionPreview)
	assert.Len(t, preview.Grid.Rows, 5)
	assert.Equal(t, []string{"1", "LP002", "NaN", "Female", "N", "0"}, preview.Grid.Rows[1])

	missing, _ := v.Section(SectionMissing)
	assert.Equal(t, []string{"Total", "1"}, missing.Grid.Footer)

	summary, _ := v.Section(SectionSummary)
	assert.Equal(t, []string{"", "count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}, summary.Grid.Header)
	assert.Equal(t, "4", summary.Grid.Rows[1][1])
	assert.Equal(t, "37.0", summary.Grid.Rows[1][5])

	corr, _ := v.Section(SectionCorrelation)
	require.NotNil(t, corr.Chart)
	assert.Equal(t, ChartHTML, corr.Chart.Format)
	assert.Equal(t, []string{"", "Age", "Credit_History"}, corr.Grid.Header)
	assert.Equal(t, "1.00", corr.Grid.Rows[0][1])

	for _, id := range []string{SectionHistogram, SectionBoxplot, SectionCountplot, SectionLoanStatus} {
		s, _ := v.Section(id)
		require.NotNil(t, s.Chart, id)
		assert.True(t, s.Chart.IsPNG(), id)
		assert.Empty(t, s.Notice, id)
	}

	credit, _ := v.Section(SectionLoanVsCredit)
	require.NotNil(t, credit.Chart)
	assert.Equal(t, [][]string{{"0", "0", "2"}, {"1", "3", "0"}}, credit.Grid.Rows)
}

func TestBuildSingleNumericColumn(t *testing.T) {
	v := mustBuild(t, mustRead(t, "Age,Gender\n25,Male\n30,Female\n41,Male\n"), models.Selection{})

	assert.Equal(t, []string{
		SectionPreview, SectionShape, SectionTypes, SectionSummary, SectionMissing,
		SectionHistogram, SectionBoxplot, SectionCountplot, SectionMissingHeatmap,
	}, v.SectionIDs())
	hist, _ := v.Section(SectionHistogram)
	assert.NotNil(t, hist.Chart)
}

func TestBuildLoanStatusWithoutCreditHistory(t *testing.T) {
	v := mustBuild(t, mustRead(t, "Income,Loan_Status\n100,Y\n200,N\n"), models.Selection{})

	_, ok := v.Section(SectionLoanStatus)
	assert.True(t, ok)
	_, ok = v.Section(SectionLoanVsCredit)
	assert.False(t, ok)
}

func TestBuildHeaderOnly(t *testing.T) {
	v := mustBuild(t, mustRead(t, "Age,Gender\n"), models.Selection{})

	shape, _ := v.Section(SectionShape)
	assert.Equal(t, 0, shape.Metrics[0].Value)
	assert.Equal(t, 2, shape.Metrics[1].Value)

	preview, _ := v.Section(SectionPreview)
	assert.Empty(t, preview.Grid.Rows)

	hist, _ := v.Section(SectionHistogram)
	assert.Equal(t, "No numerical columns to plot.", hist.Notice)
	assert.Nil(t, hist.Chart)

	count, _ := v.Section(SectionCountplot)
	assert.Equal(t, "Column Age has no values to plot.", count.Notice)

	_, ok := v.Section(SectionMissingHeatmap)
	assert.True(t, ok)
}

func TestBuildNumericColumnWithoutValues(t *testing.T) {
	v := mustBuild(t, mustRead(t, "empty,name\n,a\nNA,b\n"), models.Selection{})

	hist, _ := v.Section(SectionHistogram)
	assert.Equal(t, "Column empty has no values to plot.", hist.Notice)
	box, _ := v.Section(SectionBoxplot)
	assert.Equal(t, hist.Notice, box.Notice)
}

func TestBuildNoCategoricalColumns(t *testing.T) {
	v := mustBuild(t, mustRead(t, "a,b\n1,2\n3,5\n4,4\n"), models.Selection{Categorical: "a"})

	assert.Equal(t, "", v.Selection.Categorical)
	count, ok := v.Section(SectionCountplot)
	require.True(t, ok)
	assert.Equal(t, "No categorical columns to plot.", count.Notice)
	assert.Nil(t, count.Chart)
	require.NotNil(t, count.Picker)
	assert.Empty(t, count.Picker.Options)

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, v, ""))
	html := buf.String()
	assert.Contains(t, html, `<section id="countplot">`)
	assert.Contains(t, html, "No categorical columns to plot.")
	assert.Contains(t, html, `<select name="cat"`)
}

func TestBuildNonFiniteValues(t *testing.T) {
	tbl := mustRead(t, "a,g\n1,x\n2,y\ninf,x\n3,y\n-Infinity,x\n")
	col, _ := tbl.Column("a")
	require.Equal(t, models.KindFloat, col.Kind)

	v := mustBuild(t, tbl, models.Selection{})

	assert.Equal(t, "a", v.Selection.Numeric)
	for _, id := range []string{SectionHistogram, SectionBoxplot} {
		s, _ := v.Section(id)
		require.NotNil(t, s.Chart, id)
		assert.Empty(t, s.Notice, id)
	}
	hist, _ := v.Section(SectionHistogram)
	total := 0
	for _, row := range hist.Grid.Rows {
		n, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		total += n
	}
	assert.Equal(t, 3, total)

	summary, _ := v.Section(SectionSummary)
	assert.Equal(t, "5", summary.Grid.Rows[0][1])
}

func TestBuildOnlyNonFiniteValues(t *testing.T) {
	v := mustBuild(t, mustRead(t, "a,g\ninf,x\n-inf,y\n"), models.Selection{})

	hist, _ := v.Section(SectionHistogram)
	assert.Equal(t, "Column a has no values to plot.", hist.Notice)
	_, ok := v.Section(SectionPreview)
	assert.True(t, ok)
}

func TestChartFailedKeepsSection(t *testing.T) {
	s := Section{
		ID:    SectionHistogram,
		Chart: &Chart{Name: "histogram_a"},
		Grid:  &Grid{Header: []string{"bin", "count"}},
	}

	chartFailed(&s, errors.New("histogram a: nan x-range delta"))

	assert.Nil(t, s.Chart)
	assert.Nil(t, s.Grid)
	assert.Equal(t, "Chart could not be drawn: histogram a: nan x-range delta", s.Notice)
}

func TestBuildSelectionIndependence(t *testing.T) {
	tbl := mustRead(t, loanCSV)

	byGender := mustBuild(t, tbl, models.Selection{Numeric: "Age", Categorical: "Gender"})
	byStatus := mustBuild(t, tbl, models.Selection{Numeric: "Age", Categorical: "Loan_Status"})
	byCredit := mustBuild(t, tbl, models.Selection{Numeric: "Credit_History", Categorical: "Gender"})

	for _, id := range byGender.SectionIDs() {
		a, _ := byGender.Section(id)
		b, _ := byStatus.Section(id)
		c, _ := byCredit.Section(id)
		switch id {
		case SectionCountplot:
			assert.NotEqual(t, a.Chart.Data, b.Chart.Data)
			assert.Equal(t, a, c)
		case SectionHistogram, SectionBoxplot:
			assert.Equal(t, a, b)
			assert.NotEqual(t, a.Chart.Data, c.Chart.Data)
		default:
			assert.Equal(t, a, b, id)
			assert.Equal(t, a, c, id)
		}
	}
}

func TestResolveSelection(t *testing.T) {
	p := models.Partition{Numeric: []string{"Age", "Income"}, Other: []string{"Gender"}}
	tests := []struct {
		name string
		in   models.Selection
		want models.Selection
	}{
		{name: "defaults", in: models.Selection{}, want: models.Selection{Numeric: "Age", Categorical: "Gender"}},
		{name: "valid", in: models.Selection{Numeric: "Income", Categorical: "Gender"}, want: models.Selection{Numeric: "Income", Categorical: "Gender"}},
		{name: "unknown names", in: models.Selection{Numeric: "Nope", Categorical: "Nope"}, want: models.Selection{Numeric: "Age", Categorical: "Gender"}},
		{name: "wrong partition", in: models.Selection{Numeric: "Gender", Categorical: "Age"}, want: models.Selection{Numeric: "Age", Categorical: "Gender"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSelection(p, tt.in))
		})
	}

	assert.Equal(t, models.Selection{}, ResolveSelection(models.Partition{}, models.Selection{Numeric: "x"}))
}

func TestBuildNilTable(t *testing.T) {
	_, err := Build(nil, models.Selection{})
	assert.Error(t, err)
}

func TestPagePrompt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, nil, ""))

	html := buf.String()
	assert.Contains(t, html, UploadPrompt)
	assert.NotContains(t, html, "Dataset Preview")
	assert.NotContains(t, html, `class="error"`)
}

func TestPageError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(&buf, nil, `parse bad.csv line 3: expected 2 fields, saw 3 <oops>`))

	html := buf.String()
	assert.Contains(t, html, `class="error"`)
	assert.Contains(t, html, "expected 2 fields, saw 3 &lt;oops&gt;")
	assert.Contains(t, html, UploadPrompt)
}

func TestPageDashboard(t *testing.T) {
	v := mustBuild(t, mustRead(t, loanCSV), models.Selection{Numeric: "Credit_History", Categorical: "Gender"})

	var buf bytes.Buffer
	require.NoError(t, Page(&buf, v, ""))

	html := buf.String()
	for _, s := range v.Sections {
		assert.Contains(t, html, `<section id="`+s.ID+`">`)
	}
	assert.Contains(t, html, `src="data:image/png;base64,`)
	assert.Contains(t, html, `srcdoc="`)
	assert.Contains(t, html, `<option value="Credit_History" selected>`)
	assert.Contains(t, html, `<option value="Gender" selected>`)
	assert.Contains(t, html, `class="eda-table"`)
	assert.Contains(t, html, SuccessMessage)
	assert.NotContains(t, html, UploadPrompt)
}

func TestGridRendering(t *testing.T) {
	g := &Grid{
		Header: []string{"Column", "Value"},
		Rows:   [][]string{{"Gender", "<script>"}},
		Footer: []string{"Total", "1"},
	}

	html := string(g.HTML())
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Column")

	text := g.Text()
	assert.Contains(t, text, "Column")
	assert.Contains(t, text, "Gender")
	assert.Contains(t, text, "Total")
}
