package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/pivolan/eda_dashboard/dashboard"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// chartFileName turns a chart name into an ASCII file name, e.g.
// "histogram_Größe" becomes "histogram_grosse.png".
func chartFileName(c *dashboard.Chart) string {
	slug := strings.ToLower(unidecode.Unidecode(c.Name))
	slug = strings.Trim(nonSlug.ReplaceAllString(slug, "_"), "_")
	if slug == "" {
		slug = "chart"
	}
	return slug + c.Extension()
}

// saveCharts writes every chart of view into dir and returns the written
// path per section id.
func saveCharts(dir string, view *dashboard.View) (map[string]string, error) {
	saved := map[string]string{}
	for _, s := range view.Sections {
		if s.Chart == nil {
			continue
		}
		path := filepath.Join(dir, chartFileName(s.Chart))
		if err := os.WriteFile(path, s.Chart.Data, 0644); err != nil {
			return nil, fmt.Errorf("save chart %s: %w", s.Chart.Name, err)
		}
		saved[s.ID] = path
	}
	return saved, nil
}

// formatReport renders the view as plain text, one block per section.
func formatReport(w io.Writer, view *dashboard.View, saved map[string]string) error {
	buf := &strings.Builder{}
	buf.WriteString(dashboard.Title + "\n")
	buf.WriteString(fmt.Sprintf("File: %s\n", view.FileName))

	for _, s := range view.Sections {
		buf.WriteString("\n== " + s.Title + " ==\n")
		if s.Picker != nil {
			buf.WriteString(fmt.Sprintf("%s: %s\n", s.Picker.Label, s.Picker.Selected))
		}
		for _, m := range s.Metrics {
			buf.WriteString(fmt.Sprintf("%s: %d\n", m.Label, m.Value))
		}
		if s.Notice != "" {
			buf.WriteString(s.Notice + "\n")
			continue
		}
		if s.Grid != nil {
			buf.WriteString(s.Grid.Text() + "\n")
		}
		if s.Chart != nil {
			if path, ok := saved[s.ID]; ok {
				buf.WriteString("Chart: " + path + "\n")
			} else {
				buf.WriteString(fmt.Sprintf("Chart: %s (use --charts-dir to save)\n", chartFileName(s.Chart)))
			}
		}
	}
	buf.WriteString("\n" + view.Success + "\n")

	_, err := io.WriteString(w, buf.String())
	return err
}
