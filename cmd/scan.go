package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/conneroisu/dossier/internal/document"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/conneroisu/dossier/internal/validation"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:     "scan [root]",
	Aliases: []string{"s"},
	Short:   "Build a folder tree document from a directory",
	Long: `Scan a directory hierarchy and export it as a folder tree document.

Only directories named "<number>_<name>" are included; anything else is left
out together with its contents. Children are ordered by number. The result is
checked for duplicate or malformed ids, which are reported as warnings.

When the document already exists, the label kinds and physical locations it
records are kept for every folder whose chain of ids is unchanged.

Examples:
  dossier scan ~/Documents                  # Write folder_tree.json
  dossier scan ~/Documents -O tree.yaml     # Write YAML
  dossier scan . -O -                       # Print the document
  dossier scan . --with-location            # Add physical_location fields
  dossier scan . --no-sort --iterative      # Keep directory order, no recursion
  dossier scan . --fresh                    # Discard existing annotations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanFlags        *DocumentFlags
	scanOutput       string
	scanNoSort       bool
	scanWithLocation bool
	scanIterative    bool
	scanKeepRootID   bool
	scanFollowLinks  bool
	scanFresh        bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanFlags = AddDocumentFlags(scanCmd)
	scanCmd.Flags().StringVarP(&scanOutput, "output", "O", "", "Document to write ('-' for stdout; default document.path)")
	scanCmd.Flags().BoolVar(&scanNoSort, "no-sort", false, "Keep children in tree order instead of sorting by id")
	scanCmd.Flags().BoolVar(&scanWithLocation, "with-location", false, "Emit an empty physical_location on every folder")
	scanCmd.Flags().BoolVar(&scanIterative, "iterative", false, "Walk the hierarchy without recursion")
	scanCmd.Flags().BoolVar(&scanKeepRootID, "keep-root-id", false, "Keep the number prefix of the root directory as its id")
	scanCmd.Flags().BoolVar(&scanFollowLinks, "follow-symlinks", false, "Descend into symbolic links to directories")
	scanCmd.Flags().BoolVar(&scanFresh, "fresh", false, "Ignore the label kinds and locations of an existing document")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	applyScanFlags(cmd, s, args)
	_, err = scanAndExport(cmd, s)
	return err
}

func applyScanFlags(cmd *cobra.Command, s *session, args []string) {
	if len(args) > 0 {
		s.cfg.Scan.Root = args[0]
	}
	if scanOutput != "" {
		s.cfg.Document.Path = scanOutput
	}
	if cmd.Flags().Changed("format") {
		s.cfg.Document.Format = scanFlags.Format
	}
	if scanNoSort {
		s.cfg.Document.Sort = false
	}
	if scanWithLocation {
		s.cfg.Document.WithLocation = true
	}
	if scanIterative {
		s.cfg.Scan.Iterative = true
	}
	if scanKeepRootID {
		s.cfg.Scan.KeepRootID = true
	}
	if scanFollowLinks {
		s.cfg.Scan.FollowSymlinks = true
	}
}

// scanAndExport scans the configured root, reports validation failures and
// writes the document. The scanned tree is returned for further rendering.
func scanAndExport(cmd *cobra.Command, s *session) (*types.FolderTree, error) {
	ctx := commandContext(cmd)

	tree, err := s.scanner().Scan(ctx, s.cfg.Scan.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.cfg.Scan.Root, err)
	}

	path := s.cfg.Document.Path
	format, err := document.ResolveFormat(s.cfg.Document.Format, path)
	if err != nil {
		return nil, err
	}
	if path != "-" && !scanFresh {
		if err := mergeExisting(ctx, s, path, format, tree); err != nil {
			return nil, err
		}
	}

	for _, failure := range validation.ValidateTree(tree) {
		s.logger.Warn(ctx, failure, "folder failed validation")
	}

	doc, err := document.Export(tree, document.ExportOptions{
		Sort:         s.cfg.Document.Sort,
		WithLocation: s.cfg.Document.WithLocation,
	})
	if err != nil {
		return nil, err
	}

	if path == "-" {
		return tree, document.Encode(cmd.OutOrStdout(), doc, format, s.cfg.Document.Indent)
	}
	if err := document.WriteFile(path, doc, format, s.cfg.Document.Indent); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Folder tree generated", "root", s.cfg.Scan.Root, "path", path, "folders", tree.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "Folder tree with %d folders written to %s\n", tree.Len(), path)
	return tree, nil
}

// mergeExisting carries the label kinds and physical locations of the
// document already at path onto tree. A missing document is not an error.
func mergeExisting(ctx context.Context, s *session, path string, format document.Format, tree *types.FolderTree) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	existing, err := document.ReadFile(path, format)
	if err != nil {
		return fmt.Errorf("cannot keep the annotations of %s (use --fresh to overwrite it): %w", path, err)
	}
	merged := document.Merge(existing, tree)
	s.logger.Debug(ctx, "Annotations merged", "path", path, "folders", merged)
	return nil
}
