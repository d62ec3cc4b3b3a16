// Package renderer turns folder trees into LaTeX.
//
// The diagram is a forest-package bracket tree: every folder renders as
//
//	[\textbf{<id>} - <name> \n<children>]
//
// and the result is substituted into a document template at the
// ##FOLDER_STRUCTURE## token. Label sheets are built by the labels package
// and substituted at ##CONTENT##.
package renderer

import (
	"context"
	"fmt"
	"strings"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/logging"
	"github.com/conneroisu/dossier/internal/types"
)

// Template tokens.
const (
	FolderStructureToken = "##FOLDER_STRUCTURE##"
	ContentToken         = "##CONTENT##"
)

// Options controls rendering.
type Options struct {
	// Escape replaces LaTeX special characters in ids and names.
	Escape bool
	// Iterative renders with an explicit stack instead of recursion.
	Iterative bool
}

// ForestRenderer renders folder trees as forest diagrams.
type ForestRenderer struct {
	options Options
	logger  logging.Logger
}

// NewForestRenderer creates a new forest renderer
func NewForestRenderer(options Options, logger logging.Logger) *ForestRenderer {
	return &ForestRenderer{
		options: options,
		logger:  logging.OrNop(logger).WithComponent("renderer"),
	}
}

// Render returns the forest fragment for the whole tree. Children are
// rendered in their current order.
func (r *ForestRenderer) Render(ctx context.Context, tree *types.FolderTree) (string, error) {
	op := logging.StartOperation(r.logger, "render_forest")
	if tree.IsEmpty() {
		err := dossiererrors.NewRenderError(dossiererrors.CodeEmptyTree, "cannot render an empty tree", nil)
		op.EndWithError(ctx, err)
		return "", err
	}

	var out string
	if r.options.Iterative {
		out = RenderForestIterative(tree.Root, r.options.Escape)
	} else {
		out = RenderForest(tree.Root, r.options.Escape)
	}
	op.End(ctx, "folders", tree.Len(), "bytes", len(out))
	return out, nil
}

// RenderDiagram renders the tree and substitutes it into template.
func (r *ForestRenderer) RenderDiagram(ctx context.Context, tree *types.FolderTree, template string) (string, error) {
	fragment, err := r.Render(ctx, tree)
	if err != nil {
		return "", err
	}
	op := logging.StartOperation(r.logger, "render_diagram")
	doc, err := Substitute(template, FolderStructureToken, fragment)
	if err != nil {
		op.EndWithError(ctx, err)
		return "", err
	}
	op.End(ctx, "bytes", len(doc))
	return doc, nil
}

// RenderForest renders folder and its subtree recursively.
func RenderForest(folder *types.Folder, escape bool) string {
	var b strings.Builder
	renderNode(&b, folder, escape)
	return b.String()
}

func renderNode(b *strings.Builder, folder *types.Folder, escape bool) {
	openNode(b, folder, escape)
	for _, child := range folder.Children {
		renderNode(b, child, escape)
	}
	b.WriteString("]")
}

// RenderForestIterative produces the same output as RenderForest without
// recursion.
func RenderForestIterative(folder *types.Folder, escape bool) string {
	type frame struct {
		folder *types.Folder
		next   int
	}

	var b strings.Builder
	openNode(&b, folder, escape)
	stack := []frame{{folder: folder}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.folder.Children) {
			b.WriteString("]")
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.folder.Children[top.next]
		top.next++
		openNode(&b, child, escape)
		stack = append(stack, frame{folder: child})
	}
	return b.String()
}

func openNode(b *strings.Builder, folder *types.Folder, escape bool) {
	id, name := folder.ID, folder.Name
	if escape {
		id, name = EscapeLatex(id), EscapeLatex(name)
	}
	b.WriteString("[\\textbf{")
	b.WriteString(id)
	b.WriteString("} - ")
	b.WriteString(name)
	b.WriteString(" \n")
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeLatex escapes the characters LaTeX treats specially.
func EscapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

// Substitute replaces every occurrence of token in template with content.
func Substitute(template, token, content string) (string, error) {
	if !strings.Contains(template, token) {
		return "", dossiererrors.NewRenderError(dossiererrors.CodeMissingToken,
			fmt.Sprintf("template does not contain %s", token), nil)
	}
	return strings.ReplaceAll(template, token, content), nil
}
