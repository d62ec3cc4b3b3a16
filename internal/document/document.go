// Package document converts folder trees to and from the structured document
// used to archive them.
//
// A document node has the recursive shape
//
//	{"name": "...", "id": "...", "label_kind": "...", "subfolders": [...]}
//
// with an optional "physical_location" string. Documents are encoded as JSON
// or YAML. Import checks the shape of every node but trusts the values: it
// neither re-applies the naming convention nor re-sorts children.
package document

import (
	"fmt"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
)

// Field names of a document node.
const (
	FieldName             = "name"
	FieldID               = "id"
	FieldLabelKind        = "label_kind"
	FieldSubfolders       = "subfolders"
	FieldPhysicalLocation = "physical_location"
)

// requiredFields lists the fields every node must carry, in document order.
var requiredFields = []string{FieldName, FieldID, FieldLabelKind, FieldSubfolders}

// Document is the exported form of a folder. Field order matches the order
// in which fields are written.
type Document struct {
	Name             string     `json:"name" yaml:"name"`
	ID               string     `json:"id" yaml:"id"`
	LabelKind        string     `json:"label_kind" yaml:"label_kind"`
	PhysicalLocation *string    `json:"physical_location,omitempty" yaml:"physical_location,omitempty"`
	Subfolders       []Document `json:"subfolders" yaml:"subfolders"`
}

// ExportOptions controls Export.
type ExportOptions struct {
	// Sort orders every emitted subfolders list by numeric id. The tree
	// itself is left untouched.
	Sort bool
	// WithLocation emits a physical_location field on every node, empty
	// when the folder has none, so it can be filled in by hand.
	WithLocation bool
}

// Export converts the tree into a document.
func Export(tree *types.FolderTree, opts ExportOptions) (*Document, error) {
	if tree.IsEmpty() {
		return nil, dossiererrors.NewSchemaError(dossiererrors.CodeEmptyTree, "cannot export an empty tree")
	}
	doc := exportFolder(tree.Root, opts)
	return &doc, nil
}

func exportFolder(f *types.Folder, opts ExportOptions) Document {
	doc := Document{
		Name:       f.Name,
		ID:         f.ID,
		LabelKind:  string(f.LabelKind),
		Subfolders: make([]Document, 0, len(f.Children)),
	}
	if opts.WithLocation || f.PhysicalLocation != "" {
		location := f.PhysicalLocation
		doc.PhysicalLocation = &location
	}

	children := f.Children
	if opts.Sort {
		children = types.SortedCopy(children)
	}
	for _, child := range children {
		doc.Subfolders = append(doc.Subfolders, exportFolder(child, opts))
	}
	return doc
}

// ToMap returns the document as a generic nested mapping, the shape Import
// accepts.
func (d *Document) ToMap() map[string]interface{} {
	subfolders := make([]interface{}, len(d.Subfolders))
	for i := range d.Subfolders {
		subfolders[i] = d.Subfolders[i].ToMap()
	}
	node := map[string]interface{}{
		FieldName:       d.Name,
		FieldID:         d.ID,
		FieldLabelKind:  d.LabelKind,
		FieldSubfolders: subfolders,
	}
	if d.PhysicalLocation != nil {
		node[FieldPhysicalLocation] = *d.PhysicalLocation
	}
	return node
}

// Import rebuilds a tree from a decoded document. Every node must carry all
// of name, id, label_kind and subfolders with the right types; otherwise the
// whole import fails with a schema error naming the offending node.
// Children keep the order they have in the document.
func Import(node map[string]interface{}) (*types.FolderTree, error) {
	root, err := importFolder(node, "$")
	if err != nil {
		return nil, err
	}
	return types.NewFolderTree(root), nil
}

func importFolder(node map[string]interface{}, path string) (*types.Folder, error) {
	for _, field := range requiredFields {
		if _, ok := node[field]; !ok {
			return nil, dossiererrors.NewSchemaError(dossiererrors.CodeMissingField,
				fmt.Sprintf("missing required field %q", field)).WithPath(path)
		}
	}

	name, err := stringField(node, FieldName, path)
	if err != nil {
		return nil, err
	}
	id, err := stringField(node, FieldID, path)
	if err != nil {
		return nil, err
	}
	kind, err := stringField(node, FieldLabelKind, path)
	if err != nil {
		return nil, err
	}

	folder := types.NewFolder(id, name)
	folder.LabelKind = types.LabelKind(kind)

	if raw, ok := node[FieldPhysicalLocation]; ok && raw != nil {
		location, ok := raw.(string)
		if !ok {
			return nil, wrongType(path, FieldPhysicalLocation, "a string", raw)
		}
		folder.PhysicalLocation = location
	}

	subfolders, ok := node[FieldSubfolders].([]interface{})
	if !ok {
		return nil, wrongType(path, FieldSubfolders, "a list", node[FieldSubfolders])
	}
	for i, raw := range subfolders {
		childPath := fmt.Sprintf("%s.%s[%d]", path, FieldSubfolders, i)
		childNode, ok := raw.(map[string]interface{})
		if !ok {
			return nil, dossiererrors.NewSchemaError(dossiererrors.CodeMalformed,
				fmt.Sprintf("subfolder must be a mapping, got %s", describe(raw))).WithPath(childPath)
		}
		child, err := importFolder(childNode, childPath)
		if err != nil {
			return nil, err
		}
		folder.AddChild(child)
	}
	return folder, nil
}

func stringField(node map[string]interface{}, field, path string) (string, error) {
	value, ok := node[field].(string)
	if !ok {
		return "", wrongType(path, field, "a string", node[field])
	}
	return value, nil
}

func wrongType(path, field, want string, got interface{}) error {
	return dossiererrors.NewSchemaError(dossiererrors.CodeMalformed,
		fmt.Sprintf("field %q must be %s, got %s", field, want, describe(got))).WithPath(path)
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case []interface{}:
		return "a list"
	case map[string]interface{}:
		return "a mapping"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
