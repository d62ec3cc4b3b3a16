package labels

import (
	"fmt"

	"github.com/conneroisu/dossier/internal/renderer"
	"github.com/conneroisu/dossier/internal/types"
)

// TemplateLoader returns the sheet template for a printable kind.
type TemplateLoader func(kind types.LabelKind) (string, error)

// Sheet is a complete label document for one kind.
type Sheet struct {
	Kind     types.LabelKind
	Labels   int
	Document string
}

// FileName is the name the sheet is written under.
func (s Sheet) FileName() string {
	return fmt.Sprintf("%s_labels.tex", s.Kind)
}

// Sheets substitutes every non-empty buffer of result into its template at
// the ##CONTENT## token. Sheets are returned in enumeration order.
func Sheets(result *Result, load TemplateLoader) ([]Sheet, error) {
	var sheets []Sheet
	for _, kind := range result.Kinds() {
		tmpl, err := load(kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s template: %w", kind, err)
		}
		doc, err := renderer.Substitute(tmpl, renderer.ContentToken, result.Buffers[kind])
		if err != nil {
			return nil, fmt.Errorf("%s template: %w", kind, err)
		}
		sheets = append(sheets, Sheet{Kind: kind, Labels: result.Count(kind), Document: doc})
	}
	return sheets, nil
}
