// Package render turns an analysis report into an output document.
//
// The output type set is closed: JSON, the embedded Markdown and HTML
// templates, and a user-supplied template file. JSON is a direct
// structural serialization of the report; everything else goes
// through templates sharing one helper set.
package render

import (
	"fmt"
	"io"

	"github.com/usereport/usereport/internal/analysis"
)

// OutputType selects how a report is rendered.
type OutputType string

const (
	OutputJSON     OutputType = "json"
	OutputMarkdown OutputType = "markdown"
	OutputHTML     OutputType = "html"
	OutputTemplate OutputType = "template"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, report *analysis.Report) error
}

// ParseOutputType validates an output type given on the command line.
func ParseOutputType(s string) (OutputType, error) {
	switch OutputType(s) {
	case OutputJSON, OutputMarkdown, OutputHTML, OutputTemplate:
		return OutputType(s), nil
	}
	return "", fmt.Errorf("output type must be one of: json, markdown, html, template (got %q)", s)
}

// New creates the renderer for the given output type. templatePath is
// only consulted for OutputTemplate, where it is required.
func New(outputType OutputType, templatePath string) (Renderer, error) {
	switch outputType {
	case OutputJSON:
		return NewJSON(), nil
	case OutputMarkdown:
		return NewMarkdown()
	case OutputHTML:
		return NewHTML()
	case OutputTemplate:
		if templatePath == "" {
			return nil, fmt.Errorf("output type %q requires a template file", outputType)
		}
		return NewTemplateFile(templatePath)
	default:
		return nil, fmt.Errorf("unknown output type %q", outputType)
	}
}
