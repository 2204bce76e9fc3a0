package render

import (
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/usereport/usereport/internal/analysis"
)

//go:embed templates/report.md.tmpl
var markdownTemplate string

//go:embed templates/report.html.tmpl
var htmlTemplate string

// helpers are the functions available to all report templates.
//
//	inc      1-based numbering: {{inc $i}}
//	rfc2822  timestamp as "Mon, 02 Jan 2006 15:04:05 -0700"
//	rfc3339  timestamp as "2006-01-02T15:04:05Z07:00"
func helpers() template.FuncMap {
	return template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		// RFC 1123Z is the RFC 2822 date-time layout.
		"rfc2822": func(t time.Time) string { return t.Format(time.RFC1123Z) },
		"rfc3339": func(t time.Time) string { return t.Format(time.RFC3339) },
	}
}

// Template renders a report through a text template.
type Template struct {
	tmpl *template.Template
}

// NewMarkdown creates the renderer for the embedded Markdown template.
func NewMarkdown() (*Template, error) {
	tmpl, err := template.New("markdown").Funcs(helpers()).Parse(markdownTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing markdown template: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// NewTemplateFile creates a renderer from a user-supplied template
// file. The file has the same helpers available as the embedded
// templates.
func NewTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	tmpl, err := template.New(filepath.Base(path)).Funcs(helpers()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", path, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Render writes the report to w.
func (t *Template) Render(w io.Writer, report *analysis.Report) error {
	if err := t.tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// HTML renders a report through the embedded HTML template with
// contextual escaping.
type HTML struct {
	tmpl *htmltemplate.Template
}

// NewHTML creates the renderer for the embedded HTML template.
func NewHTML() (*HTML, error) {
	tmpl, err := htmltemplate.New("html").Funcs(helpers()).Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing html template: %w", err)
	}
	return &HTML{tmpl: tmpl}, nil
}

// Render writes the report to w.
func (h *HTML) Render(w io.Writer, report *analysis.Report) error {
	if err := h.tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
