package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(folders []*Folder) []string {
	out := make([]string, len(folders))
	for i, f := range folders {
		out[i] = f.ID
	}
	return out
}

func TestSortFolders(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "numeric not lexical",
			input:    []string{"10", "2", "1"},
			expected: []string{"1", "2", "10"},
		},
		{
			name:     "leading zeros",
			input:    []string{"010", "9", "02"},
			expected: []string{"02", "9", "010"},
		},
		{
			name:     "beyond int64",
			input:    []string{"99999999999999999999", "5"},
			expected: []string{"5", "99999999999999999999"},
		},
		{
			name:     "empty",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folders := make([]*Folder, len(tt.input))
			for i, id := range tt.input {
				folders[i] = NewFolder(id, "f"+id)
			}
			SortFolders(folders)
			assert.Equal(t, tt.expected, ids(folders))
		})
	}
}

func TestSortFoldersStableForTies(t *testing.T) {
	folders := []*Folder{
		NewFolder("3", "c"),
		NewFolder("1", "first"),
		NewFolder("01", "second"),
		NewFolder("001", "third"),
	}

	SortFolders(folders)
	first := []string{folders[0].Name, folders[1].Name, folders[2].Name, folders[3].Name}

	SortFolders(folders)
	second := []string{folders[0].Name, folders[1].Name, folders[2].Name, folders[3].Name}

	assert.Equal(t, []string{"first", "second", "third", "c"}, first)
	assert.Equal(t, first, second)
}

func TestSortedCopyLeavesInputUntouched(t *testing.T) {
	folders := []*Folder{NewFolder("2", "b"), NewFolder("1", "a")}

	sorted := SortedCopy(folders)

	assert.Equal(t, []string{"1", "2"}, ids(sorted))
	assert.Equal(t, []string{"2", "1"}, ids(folders))
}

func TestSortRecursive(t *testing.T) {
	root := NewFolder("", "root")
	b := NewFolder("20", "b")
	b.AddChild(NewFolder("9", "z"))
	b.AddChild(NewFolder("3", "y"))
	root.AddChild(b)
	root.AddChild(NewFolder("4", "a"))

	assert.False(t, root.ChildrenSorted())
	root.SortRecursive()

	assert.Equal(t, []string{"4", "20"}, ids(root.Children))
	assert.Equal(t, []string{"3", "9"}, ids(root.Children[1].Children))
	assert.True(t, root.ChildrenSorted())
}

func TestIsNumericID(t *testing.T) {
	assert.True(t, IsNumericID("0"))
	assert.True(t, IsNumericID("0012"))
	assert.False(t, IsNumericID(""))
	assert.False(t, IsNumericID("-1"))
	assert.False(t, IsNumericID("+1"))
	assert.False(t, IsNumericID("1a"))
	assert.False(t, IsNumericID("１２"))
}
