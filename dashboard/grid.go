package dashboard

import (
	"html/template"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Grid is a plain table of display strings.
type Grid struct {
	Header []string
	Rows   [][]string
	Footer []string
}

func (g *Grid) writer() table.Writer {
	t := table.NewWriter()
	t.AppendHeader(toRow(g.Header))
	for _, r := range g.Rows {
		t.AppendRow(toRow(r))
	}
	if len(g.Footer) > 0 {
		t.AppendFooter(toRow(g.Footer))
	}
	return t
}

// HTML renders the grid as an escaped <table>.
func (g *Grid) HTML() template.HTML {
	t := g.writer()
	keepCase(t)
	t.Style().HTML = table.HTMLOptions{
		CSSClass:    "eda-table",
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}
	return template.HTML(t.RenderHTML())
}

// Text renders the grid with box-drawing characters for terminals.
func (g *Grid) Text() string {
	t := g.writer()
	t.SetStyle(table.StyleLight)
	keepCase(t)
	return t.Render()
}

// keepCase stops go-pretty from upper-casing column names.
func keepCase(t table.Writer) {
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
