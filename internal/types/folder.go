// Package types provides the folder tree model shared by the scanner, the
// document codec, the renderers and the label dispatcher.
// It lives in its own package to avoid circular dependencies between them.
package types

import "strings"

// Folder is a single node of a filing hierarchy.
type Folder struct {
	// Name is the display text, e.g. "Projects" for "12_Projects"
	Name string
	// ID is the leading digit string of the directory name. It is empty only
	// for the root of a tree.
	ID string
	// LabelKind selects whether and how the folder contributes to label output
	LabelKind LabelKind
	// PhysicalLocation is free text describing where the physical folder is
	// kept. It is optional and never derived from the filesystem.
	PhysicalLocation string
	// Children are owned by this folder and ordered by numeric ID once sorted
	Children []*Folder

	parent *Folder
}

// NewFolder creates a detached folder with the default label kind.
func NewFolder(id, name string) *Folder {
	return &Folder{
		ID:        id,
		Name:      name,
		LabelKind: LabelNone,
	}
}

// Parent returns the folder this node is attached to, or nil for a root.
// The reference is only used to look up contextual text when rendering.
func (f *Folder) Parent() *Folder {
	return f.parent
}

// ParentName returns the name of the parent folder, or "" for a root.
func (f *Folder) ParentName() string {
	if f.parent == nil {
		return ""
	}
	return f.parent.Name
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.parent == nil
}

// AddChild appends child to the folder's children and points the child's
// parent reference at f.
func (f *Folder) AddChild(child *Folder) {
	child.parent = f
	f.Children = append(f.Children, child)
}

// Path returns the slash separated chain of "<id>_<name>" segments from the
// root down to this folder. It is used to identify nodes in log messages and
// validation reports.
func (f *Folder) Path() string {
	var segments []string
	for node := f; node != nil; node = node.parent {
		segment := node.Name
		if node.ID != "" {
			segment = node.ID + "_" + node.Name
		}
		segments = append(segments, segment)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/")
}

// Walk visits f and all of its descendants in pre-order. Returning false
// from fn skips the children of the visited folder.
func (f *Folder) Walk(fn func(folder *Folder, depth int) bool) {
	f.walk(fn, 0)
}

func (f *Folder) walk(fn func(folder *Folder, depth int) bool, depth int) {
	if !fn(f, depth) {
		return
	}
	for _, child := range f.Children {
		child.walk(fn, depth+1)
	}
}

// Equal reports whether two folders have the same name, id, label kind,
// physical location and structurally equal children in the same order.
// Parent references are not compared.
func (f *Folder) Equal(other *Folder) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Name != other.Name || f.ID != other.ID || f.LabelKind != other.LabelKind ||
		f.PhysicalLocation != other.PhysicalLocation {
		return false
	}
	if len(f.Children) != len(other.Children) {
		return false
	}
	for i := range f.Children {
		if !f.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// FolderTree owns exactly one root folder, or none when it has not been
// populated yet. A tree is populated once, by a filesystem scan or a
// document import, and is read-only afterwards.
type FolderTree struct {
	Root *Folder
}

// NewFolderTree wraps root in a tree.
func NewFolderTree(root *Folder) *FolderTree {
	return &FolderTree{Root: root}
}

// IsEmpty reports whether the tree has no root.
func (t *FolderTree) IsEmpty() bool {
	return t == nil || t.Root == nil
}

// Len returns the number of folders in the tree.
func (t *FolderTree) Len() int {
	if t.IsEmpty() {
		return 0
	}
	count := 0
	t.Root.Walk(func(*Folder, int) bool {
		count++
		return true
	})
	return count
}

// Equal reports whether both trees hold structurally equal roots.
func (t *FolderTree) Equal(other *FolderTree) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() == other.IsEmpty()
	}
	return t.Root.Equal(other.Root)
}
