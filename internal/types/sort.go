package types

import (
	"sort"
	"strings"
)

// SortFolders orders folders ascending by the integer value of their ID, so
// "2" precedes "10". The sort is stable: folders with the same numeric ID keep
// their relative order. IDs that are not integers (only the root may have
// one) sort before every numeric ID.
func SortFolders(folders []*Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		return compareIDs(folders[i].ID, folders[j].ID) < 0
	})
}

// SortedCopy returns a sorted copy of folders without touching the input.
func SortedCopy(folders []*Folder) []*Folder {
	sorted := make([]*Folder, len(folders))
	copy(sorted, folders)
	SortFolders(sorted)
	return sorted
}

// SortChildren sorts the direct children of f.
func (f *Folder) SortChildren() {
	SortFolders(f.Children)
}

// SortRecursive sorts the children of f and of every descendant.
func (f *Folder) SortRecursive() {
	f.Walk(func(folder *Folder, _ int) bool {
		folder.SortChildren()
		return true
	})
}

// ChildrenSorted reports whether the direct children of f are in
// non-decreasing numeric ID order.
func (f *Folder) ChildrenSorted() bool {
	return sort.SliceIsSorted(f.Children, func(i, j int) bool {
		return compareIDs(f.Children[i].ID, f.Children[j].ID) < 0
	})
}

// compareIDs compares two identifiers by numeric value. Identifiers are
// compared as digit strings so values beyond the int64 range still order
// correctly.
func compareIDs(a, b string) int {
	aok, bok := IsNumericID(a), IsNumericID(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// IsNumericID reports whether id is a non-empty string of ASCII decimal
// digits, i.e. a valid non-root identifier.
func IsNumericID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
