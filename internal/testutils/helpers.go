// Package testutils builds directory hierarchies and folder trees for tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conneroisu/dossier/internal/types"
	"github.com/stretchr/testify/require"
)

// ExampleDirs is the hierarchy below 0_Documents used throughout the tests.
var ExampleDirs = []string{
	"1_Work/12_Projects",
	"2_Personal/24_Vacation",
}

// MakeDirs creates every slash separated directory path under base.
func MakeDirs(t *testing.T, base string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(dir)), 0755))
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateHierarchy creates a fresh root directory named name in a temporary
// directory and the given subdirectories below it.
func CreateHierarchy(t *testing.T, name string, dirs ...string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(root, 0755))
	MakeDirs(t, root, dirs...)
	return root
}

// ExampleHierarchy creates 0_Documents with ExampleDirs.
func ExampleHierarchy(t *testing.T) string {
	t.Helper()
	return CreateHierarchy(t, "0_Documents", ExampleDirs...)
}

// ExampleTree is the in-memory tree of ExampleHierarchy with labels set on
// a few folders: Work and Personal hang, Projects gets a sticker.
func ExampleTree() *types.FolderTree {
	root := types.NewFolder("", "Documents")
	work := types.NewFolder("1", "Work")
	work.LabelKind = types.LabelHanging
	projects := types.NewFolder("12", "Projects")
	projects.LabelKind = types.LabelSticker
	projects.PhysicalLocation = "Cabinet A"
	work.AddChild(projects)
	personal := types.NewFolder("2", "Personal")
	personal.LabelKind = types.LabelHanging
	personal.AddChild(types.NewFolder("24", "Vacation"))
	root.AddChild(work)
	root.AddChild(personal)
	return types.NewFolderTree(root)
}

// AssertFileContains fails unless path exists and contains every fragment.
func AssertFileContains(t *testing.T, path string, fragments ...string) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, fragment := range fragments {
		require.Contains(t, string(b), fragment, "file %s", path)
	}
}

// WaitForFile waits until path exists with a modification time after since.
func WaitForFile(t *testing.T, path string, since time.Time, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().After(since) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("file %s was not written within %v", path, timeout)
}
