// Package labels collects printable label lines for the folders of a tree.
//
// Each folder whose label kind is printable contributes exactly one line
//
//	\<macro>{<id>}{<parent name>}{<name>}
//
// to the buffer of its kind, in pre-order. A folder carrying an unknown kind
// is reported and skipped; its children are still visited.
package labels

import (
	"context"
	"fmt"
	"strings"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/logging"
	"github.com/conneroisu/dossier/internal/renderer"
	"github.com/conneroisu/dossier/internal/types"
)

// DefaultMacros maps each printable kind to the LaTeX command that draws it.
func DefaultMacros() map[types.LabelKind]string {
	return map[types.LabelKind]string{
		types.LabelHanging: "hanginglabel",
		types.LabelSticker: "stickerlabel",
	}
}

// Options controls dispatching.
type Options struct {
	// Macros overrides the command used per kind. Kinds missing from the map
	// use DefaultMacros.
	Macros map[types.LabelKind]string
	// Escape replaces LaTeX special characters in ids and names.
	Escape bool
	// Iterative visits folders with an explicit stack instead of recursion.
	Iterative bool
}

// Result holds the label buffers of one dispatch.
type Result struct {
	// Buffers contains only kinds that received at least one line.
	Buffers map[types.LabelKind]string
	// Errors are the validation failures met during traversal.
	Errors []error
}

// Kinds returns the kinds present in Buffers in enumeration order.
func (r *Result) Kinds() []types.LabelKind {
	var kinds []types.LabelKind
	for _, kind := range types.LabelKinds() {
		if _, ok := r.Buffers[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Count returns the number of label lines in the buffer of kind.
func (r *Result) Count(kind types.LabelKind) int {
	return strings.Count(r.Buffers[kind], "\n")
}

// Dispatcher routes folders to per-kind label buffers.
type Dispatcher struct {
	macros    map[types.LabelKind]string
	escape    bool
	iterative bool
	logger    logging.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(options Options, logger logging.Logger) *Dispatcher {
	macros := DefaultMacros()
	for kind, macro := range options.Macros {
		if macro != "" {
			macros[kind] = macro
		}
	}
	return &Dispatcher{
		macros:    macros,
		escape:    options.Escape,
		iterative: options.Iterative,
		logger:    logging.OrNop(logger).WithComponent("labels"),
	}
}

// Macro returns the command used for kind.
func (d *Dispatcher) Macro(kind types.LabelKind) string {
	return d.macros[kind]
}

// Dispatch visits every folder of the tree in pre-order. Unknown label kinds
// never abort the traversal; they are logged and returned in Result.Errors.
func (d *Dispatcher) Dispatch(ctx context.Context, tree *types.FolderTree) (*Result, error) {
	if d.iterative {
		return d.DispatchIterative(ctx, tree)
	}
	op := logging.StartOperation(d.logger, "dispatch_labels")
	if tree.IsEmpty() {
		err := emptyTreeError()
		op.EndWithError(ctx, err)
		return nil, err
	}

	run := d.newRun()
	d.visitRecursive(ctx, run, tree.Root)
	result := run.result()
	op.End(ctx, "kinds", len(result.Buffers), "errors", len(result.Errors))
	return result, nil
}

func (d *Dispatcher) visitRecursive(ctx context.Context, run *dispatchRun, folder *types.Folder) {
	d.visit(ctx, run, folder)
	for _, child := range folder.Children {
		d.visitRecursive(ctx, run, child)
	}
}

// DispatchIterative is Dispatch with an explicit stack. Output is identical.
func (d *Dispatcher) DispatchIterative(ctx context.Context, tree *types.FolderTree) (*Result, error) {
	op := logging.StartOperation(d.logger, "dispatch_labels_iterative")
	if tree.IsEmpty() {
		err := emptyTreeError()
		op.EndWithError(ctx, err)
		return nil, err
	}

	run := d.newRun()
	stack := []*types.Folder{tree.Root}
	for len(stack) > 0 {
		folder := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d.visit(ctx, run, folder)
		for i := len(folder.Children) - 1; i >= 0; i-- {
			stack = append(stack, folder.Children[i])
		}
	}
	result := run.result()
	op.End(ctx, "kinds", len(result.Buffers), "errors", len(result.Errors))
	return result, nil
}

func (d *Dispatcher) visit(ctx context.Context, run *dispatchRun, folder *types.Folder) {
	switch folder.LabelKind {
	case types.LabelHanging, types.LabelSticker:
		run.buffer(folder.LabelKind).WriteString(d.RenderLabel(folder))
	case types.LabelOutsideFolder, types.LabelInsideFolder, types.LabelNone:
	default:
		err := dossiererrors.NewValidationError(dossiererrors.CodeInvalidLabelKind,
			fmt.Sprintf("unknown label kind %q", folder.LabelKind)).
			WithPath(folder.Path()).
			WithContext("id", folder.ID)
		d.logger.Warn(ctx, err, "skipping label", "folder", folder.Path())
		run.errors.Add(err)
	}
}

// RenderLabel formats the label line for folder using the macro of its kind.
func (d *Dispatcher) RenderLabel(folder *types.Folder) string {
	id, parent, name := folder.ID, folder.ParentName(), folder.Name
	if d.escape {
		id = renderer.EscapeLatex(id)
		parent = renderer.EscapeLatex(parent)
		name = renderer.EscapeLatex(name)
	}
	return fmt.Sprintf("\\%s{%s}{%s}{%s}\n", d.macros[folder.LabelKind], id, parent, name)
}

func emptyTreeError() error {
	return dossiererrors.NewRenderError(dossiererrors.CodeEmptyTree, "cannot dispatch labels for an empty tree", nil)
}

type dispatchRun struct {
	buffers map[types.LabelKind]*strings.Builder
	errors  *dossiererrors.ErrorCollector
}

func (d *Dispatcher) newRun() *dispatchRun {
	return &dispatchRun{
		buffers: make(map[types.LabelKind]*strings.Builder),
		errors:  dossiererrors.NewErrorCollector(),
	}
}

func (r *dispatchRun) buffer(kind types.LabelKind) *strings.Builder {
	b, ok := r.buffers[kind]
	if !ok {
		b = &strings.Builder{}
		r.buffers[kind] = b
	}
	return b
}

func (r *dispatchRun) result() *Result {
	buffers := make(map[types.LabelKind]string, len(r.buffers))
	for kind, b := range r.buffers {
		if b.Len() > 0 {
			buffers[kind] = b.String()
		}
	}
	return &Result{Buffers: buffers, Errors: r.errors.Errors()}
}
