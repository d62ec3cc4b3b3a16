package renderer

import (
	"embed"
	"fmt"
	"os"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
)

//go:embed templates/*.tex
var templateFS embed.FS

const diagramTemplateFile = "templates/folder_structure.tex"

// DefaultDiagramTemplate returns the built-in diagram document.
func DefaultDiagramTemplate() string {
	b, err := templateFS.ReadFile(diagramTemplateFile)
	if err != nil {
		panic(fmt.Sprintf("built-in template %s missing: %v", diagramTemplateFile, err))
	}
	return string(b)
}

// DefaultLabelTemplate returns the built-in label sheet for kind. Only
// printable kinds have one.
func DefaultLabelTemplate(kind types.LabelKind) (string, bool) {
	if !kind.Printable() {
		return "", false
	}
	b, err := templateFS.ReadFile(fmt.Sprintf("templates/%s_labels.tex", kind))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// LoadDiagramTemplate reads the diagram template at path, or returns the
// built-in one when path is empty.
func LoadDiagramTemplate(path string) (string, error) {
	if path == "" {
		return DefaultDiagramTemplate(), nil
	}
	return readTemplate(path)
}

// LoadLabelTemplate reads the label template for kind from templates, falling
// back to the built-in one.
func LoadLabelTemplate(kind types.LabelKind, templates map[string]string) (string, error) {
	if path := templates[string(kind)]; path != "" {
		return readTemplate(path)
	}
	tmpl, ok := DefaultLabelTemplate(kind)
	if !ok {
		return "", dossiererrors.NewRenderError(dossiererrors.CodeMissingTemplate,
			fmt.Sprintf("no template configured for label kind %q", kind), nil)
	}
	return tmpl, nil
}

func readTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot read template", err).WithPath(path)
	}
	return string(b), nil
}
