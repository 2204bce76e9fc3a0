package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/usereport/usereport/internal/analysis"
)

// JSON renders the report as indented JSON, preserving the report's
// field names exactly.
type JSON struct{}

// NewJSON creates the JSON renderer.
func NewJSON() JSON {
	return JSON{}
}

// Render writes the report to w.
func (JSON) Render(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report as JSON: %w", err)
	}
	return nil
}
