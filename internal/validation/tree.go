package validation

import (
	"fmt"
	"strings"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
)

// ValidateTree reports every folder that breaks a tree rule: unknown label
// kinds, empty names, missing or non-numeric ids below the root, and ids
// shared by siblings. The whole tree is checked; nil means no failures.
func ValidateTree(tree *types.FolderTree) []error {
	if tree.IsEmpty() {
		return nil
	}

	collector := dossiererrors.NewErrorCollector()
	tree.Root.Walk(func(folder *types.Folder, _ int) bool {
		for _, err := range ValidateFolder(folder) {
			collector.Add(err)
		}
		return true
	})

	if !collector.HasErrors() {
		return nil
	}
	return collector.Errors()
}

// ValidateFolder checks a single folder and its direct children ids.
func ValidateFolder(folder *types.Folder) []error {
	var errs []error
	path := folder.Path()

	if !folder.LabelKind.Valid() {
		errs = append(errs, failure(dossiererrors.CodeInvalidLabelKind, path,
			fmt.Sprintf("unknown label kind %q", folder.LabelKind)))
	}
	if folder.Name == "" {
		errs = append(errs, failure(dossiererrors.CodeEmptyName, path, "folder name is empty"))
	}
	if !folder.IsRoot() {
		switch {
		case folder.ID == "":
			errs = append(errs, failure(dossiererrors.CodeInvalidID, path, "folder id is empty"))
		case !types.IsNumericID(folder.ID):
			errs = append(errs, failure(dossiererrors.CodeInvalidID, path,
				fmt.Sprintf("folder id %q is not numeric", folder.ID)))
		}
	}

	seen := make(map[string]bool, len(folder.Children))
	for _, child := range folder.Children {
		if child.ID == "" {
			continue
		}
		key := idKey(child.ID)
		if seen[key] {
			errs = append(errs, failure(dossiererrors.CodeDuplicateID, child.Path(),
				fmt.Sprintf("id %q is used by another folder under %q", child.ID, folder.Name)))
		}
		seen[key] = true
	}
	return errs
}

// idKey maps ids with the same numeric value to one key, so "1" and "01"
// collide.
func idKey(id string) string {
	key := strings.TrimLeft(id, "0")
	if key == "" {
		return "0"
	}
	return key
}

func failure(code, path, message string) error {
	return dossiererrors.NewValidationError(code, message).WithPath(path)
}
