// Package scanner builds a folder tree from a directory on disk.
//
// Every directory below the root is named "<digits>_<name>"; directories that
// do not follow the convention are left out together with everything beneath
// them, and plain files are ignored. The children of every folder are sorted
// by numeric identifier before the tree is returned.
//
// Scan recurses once per directory level. ScanIterative walks the same
// hierarchy with an explicit stack and returns an identical tree; prefer it
// for hierarchies deeper than a hundred or so levels.
package scanner

import (
	"context"
	"os"
	"path/filepath"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/logging"
	"github.com/conneroisu/dossier/internal/naming"
	"github.com/conneroisu/dossier/internal/types"
)

// Options controls how a directory is turned into a tree.
type Options struct {
	// KeepRootID keeps the identifier parsed from the root directory name.
	// By default the root is anchored with an empty identifier, so scanning
	// "0_Documents" yields a root named "Documents" with ID "".
	KeepRootID bool
	// FollowSymlinks descends into symbolic links that point at directories.
	// Links leading back into a directory already on the walk are skipped.
	FollowSymlinks bool
	// Iterative makes Scan use the explicit-stack walk.
	Iterative bool
}

// TreeScanner builds folder trees from directories.
type TreeScanner struct {
	options Options
	logger  logging.Logger
}

// NewTreeScanner creates a scanner. A nil logger discards log output.
func NewTreeScanner(options Options, logger logging.Logger) *TreeScanner {
	return &TreeScanner{
		options: options,
		logger:  logging.OrNop(logger).WithComponent("scanner"),
	}
}

// Scan builds the tree rooted at dir. It fails only when dir itself cannot be
// read as a directory.
func (s *TreeScanner) Scan(ctx context.Context, dir string) (*types.FolderTree, error) {
	if s.options.Iterative {
		return s.ScanIterative(ctx, dir)
	}

	op := logging.StartOperation(s.logger, "scan")
	root, err := s.newRoot(dir)
	if err != nil {
		op.EndWithError(ctx, err)
		return &types.FolderTree{}, err
	}

	w := &walk{scanner: s}
	chain, err := w.rootChain(dir)
	if err != nil {
		op.EndWithError(ctx, err)
		return &types.FolderTree{}, err
	}
	if err := w.buildChildren(ctx, root, dir, chain, true); err != nil {
		op.EndWithError(ctx, err)
		return &types.FolderTree{}, err
	}

	tree := types.NewFolderTree(root)
	op.End(ctx, "root", dir, "folders", tree.Len())
	return tree, nil
}

// ScanIterative builds the same tree as Scan without recursion.
func (s *TreeScanner) ScanIterative(ctx context.Context, dir string) (*types.FolderTree, error) {
	op := logging.StartOperation(s.logger, "scan_iterative")
	root, err := s.newRoot(dir)
	if err != nil {
		op.EndWithError(ctx, err)
		return &types.FolderTree{}, err
	}

	w := &walk{scanner: s}
	chain, err := w.rootChain(dir)
	if err != nil {
		op.EndWithError(ctx, err)
		return &types.FolderTree{}, err
	}

	stack := []child{{folder: root, path: dir, chain: chain}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := w.readChildren(ctx, top.path, top.chain, top.folder == root)
		if err != nil {
			op.EndWithError(ctx, err)
			return &types.FolderTree{}, err
		}
		for _, c := range children {
			top.folder.AddChild(c.folder)
			stack = append(stack, c)
		}
	}

	// Children were appended in directory order, so a stable sort of every
	// level gives the same result as sorting each level on the way back up.
	root.SortRecursive()

	tree := types.NewFolderTree(root)
	op.End(ctx, "root", dir, "folders", tree.Len())
	return tree, nil
}

func (s *TreeScanner) newRoot(dir string) (*types.Folder, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot stat scan root", err).WithPath(dir)
	}
	if !info.IsDir() {
		return nil, dossiererrors.NewIOError(dossiererrors.CodeNotDirectory, "scan root is not a directory", nil).WithPath(dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	parsed, _ := naming.ParseName(filepath.Base(abs), true)
	if !s.options.KeepRootID {
		parsed.ID = ""
	}
	return types.NewFolder(parsed.ID, parsed.Name), nil
}

// walk holds the state of a single scan.
type walk struct {
	scanner *TreeScanner
}

// child is a detached folder together with the directory it was read from.
type child struct {
	folder *types.Folder
	path   string
	// chain holds the resolved paths of every directory from the root down
	// to path. It is only tracked when symlinks are followed.
	chain []string
}

func (w *walk) rootChain(dir string) ([]string, error) {
	if !w.scanner.options.FollowSymlinks {
		return nil, nil
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot resolve scan root", err).WithPath(dir)
	}
	return []string{resolved}, nil
}

// buildChildren attaches the children of the directory at path to folder,
// recursing into each of them, and sorts them.
func (w *walk) buildChildren(ctx context.Context, folder *types.Folder, path string, chain []string, isRoot bool) error {
	children, err := w.readChildren(ctx, path, chain, isRoot)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := w.buildChildren(ctx, c.folder, c.path, c.chain, false); err != nil {
			return err
		}
		folder.AddChild(c.folder)
	}
	folder.SortChildren()
	return nil
}

// readChildren returns one detached folder per entry of the directory at path
// that is itself a directory following the naming convention, in directory
// order. A directory that cannot be read below the root is logged and treated
// as empty.
func (w *walk) readChildren(ctx context.Context, path string, chain []string, isRoot bool) ([]child, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if isRoot {
			return nil, dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot read directory", err).WithPath(path)
		}
		w.scanner.logger.Warn(ctx, err, "Cannot read directory, treating it as empty", "path", path)
		return nil, nil
	}

	var children []child
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		childChain, ok := w.descend(ctx, entry, childPath, chain)
		if !ok {
			continue
		}

		parsed, ok := naming.ParseName(entry.Name(), false)
		if !ok {
			w.scanner.logger.Debug(ctx, "Skipping directory outside the naming convention", "path", childPath)
			continue
		}

		children = append(children, child{
			folder: types.NewFolder(parsed.ID, parsed.Name),
			path:   childPath,
			chain:  childChain,
		})
	}
	return children, nil
}

// descend reports whether the walk should enter the entry at path, and the
// resolved directory chain below it. Plain files are never entered, nor are
// symlinks unless FollowSymlinks is set. A directory that resolves to one
// already on the chain would loop forever and is skipped.
func (w *walk) descend(ctx context.Context, entry os.DirEntry, path string, chain []string) ([]string, bool) {
	if !w.scanner.options.FollowSymlinks {
		return nil, entry.IsDir()
	}

	if !entry.IsDir() {
		if entry.Type()&os.ModeSymlink == 0 {
			return nil, false
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return nil, false
		}
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.scanner.logger.Warn(ctx, err, "Cannot resolve directory, skipping it", "path", path)
		return nil, false
	}
	for _, ancestor := range chain {
		if ancestor == resolved {
			w.scanner.logger.Warn(ctx, nil, "Skipping symlink cycle", "path", path, "target", resolved)
			return nil, false
		}
	}

	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	return append(next, resolved), true
}
