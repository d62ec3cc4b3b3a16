package validation

import (
	"testing"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []error) []string {
	var result []string
	for _, err := range errs {
		result = append(result, dossiererrors.CodeOf(err))
	}
	return result
}

func TestValidateTreeValid(t *testing.T) {
	root := types.NewFolder("", "Documents")
	work := types.NewFolder("1", "Work")
	work.LabelKind = types.LabelHanging
	work.AddChild(types.NewFolder("12", "Projects"))
	root.AddChild(work)
	root.AddChild(types.NewFolder("2", "Personal"))

	assert.Nil(t, ValidateTree(types.NewFolderTree(root)))
	assert.Nil(t, ValidateTree(&types.FolderTree{}))
}

func TestValidateTreeFailures(t *testing.T) {
	tests := []struct {
		name     string
		build    func(root *types.Folder)
		expected []string
		path     string
	}{
		{
			name: "unknown label kind",
			build: func(root *types.Folder) {
				f := types.NewFolder("1", "Work")
				f.LabelKind = "poster"
				root.AddChild(f)
			},
			expected: []string{dossiererrors.CodeInvalidLabelKind},
			path:     "Documents/1_Work",
		},
		{
			name: "empty name",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("5", ""))
			},
			expected: []string{dossiererrors.CodeEmptyName},
			path:     "Documents/5_",
		},
		{
			name: "empty id",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("", "Loose"))
			},
			expected: []string{dossiererrors.CodeInvalidID},
			path:     "Documents/Loose",
		},
		{
			name: "non numeric id",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("A1", "Mixed"))
			},
			expected: []string{dossiererrors.CodeInvalidID},
			path:     "Documents/A1_Mixed",
		},
		{
			name: "duplicate sibling ids",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("3", "First"))
				root.AddChild(types.NewFolder("3", "Second"))
			},
			expected: []string{dossiererrors.CodeDuplicateID},
			path:     "Documents/3_Second",
		},
		{
			name: "sibling ids with the same value",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("1", "First"))
				root.AddChild(types.NewFolder("01", "Second"))
			},
			expected: []string{dossiererrors.CodeDuplicateID},
			path:     "Documents/01_Second",
		},
		{
			name: "all zero sibling ids",
			build: func(root *types.Folder) {
				root.AddChild(types.NewFolder("0", "First"))
				root.AddChild(types.NewFolder("00", "Second"))
			},
			expected: []string{dossiererrors.CodeDuplicateID},
			path:     "Documents/00_Second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := types.NewFolder("", "Documents")
			tt.build(root)

			errs := ValidateTree(types.NewFolderTree(root))

			assert.Equal(t, tt.expected, codes(errs))
			require.NotEmpty(t, errs)
			assert.True(t, dossiererrors.IsValidationError(errs[0]))

			var de *dossiererrors.DossierError
			require.ErrorAs(t, errs[0], &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestValidateTreeReportsAllFailures(t *testing.T) {
	root := types.NewFolder("", "Documents")
	bad := types.NewFolder("x", "")
	bad.LabelKind = "poster"
	root.AddChild(bad)
	nested := types.NewFolder("1", "Ok")
	nested.AddChild(types.NewFolder("7", "a"))
	nested.AddChild(types.NewFolder("7", "b"))
	root.AddChild(nested)

	errs := ValidateTree(types.NewFolderTree(root))

	assert.Equal(t, []string{
		dossiererrors.CodeInvalidLabelKind,
		dossiererrors.CodeEmptyName,
		dossiererrors.CodeInvalidID,
		dossiererrors.CodeDuplicateID,
	}, codes(errs))
}

func TestValidateTreeRootID(t *testing.T) {
	root := types.NewFolder("0", "Documents")
	assert.Nil(t, ValidateTree(types.NewFolderTree(root)), "root may carry an id")

	root = types.NewFolder("", "Documents")
	assert.Nil(t, ValidateTree(types.NewFolderTree(root)), "root may omit its id")
}
