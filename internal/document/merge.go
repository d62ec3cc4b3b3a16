package document

import "github.com/conneroisu/dossier/internal/types"

// Merge copies the hand-maintained fields of existing onto scanned: the label
// kind and the physical location. Folders are matched by their chain of ids
// from the root, so a renamed directory keeps its annotations. The roots
// always match. When existing has several siblings with one id, the first is
// used. Folders of scanned without a match keep their values.
//
// Merge returns the number of folders that received annotations.
func Merge(existing, scanned *types.FolderTree) int {
	if existing.IsEmpty() || scanned.IsEmpty() {
		return 0
	}
	return mergeFolder(existing.Root, scanned.Root)
}

func mergeFolder(from, to *types.Folder) int {
	to.LabelKind = from.LabelKind
	to.PhysicalLocation = from.PhysicalLocation
	merged := 1

	byID := make(map[string]*types.Folder, len(from.Children))
	for _, child := range from.Children {
		if _, ok := byID[child.ID]; !ok {
			byID[child.ID] = child
		}
	}
	for _, child := range to.Children {
		if match, ok := byID[child.ID]; ok {
			merged += mergeFolder(match, child)
		}
	}
	return merged
}
