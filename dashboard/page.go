package dashboard

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/dashboard.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

type pageData struct {
	Title  string
	Prompt string
	Error  string
	View   *View
}

// Page writes the dashboard HTML. A nil view renders the upload prompt only;
// errMsg, when set, is shown as a banner above it.
func Page(w io.Writer, view *View, errMsg string) error {
	return pageTemplate.Execute(w, pageData{
		Title:  Title,
		Prompt: UploadPrompt,
		Error:  errMsg,
		View:   view,
	})
}
