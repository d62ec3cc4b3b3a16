package cmd

import (
	"context"
	"fmt"

	"github.com/conneroisu/dossier/internal/labels"
	"github.com/conneroisu/dossier/internal/renderer"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:     "labels [document]",
	Aliases: []string{"lb"},
	Short:   "Render printable label sheets",
	Long: `Collect one label per folder whose label_kind is printable and render a
sheet per kind.

Folders of kind "hanging" and "sticker" each produce a line
\<macro>{id}{parent name}{name}; the lines are substituted into the sheet
template of their kind at ##CONTENT## and written to
<output_dir>/<kind>_labels.tex. Folders with an unknown label_kind are
reported and skipped.

Examples:
  dossier labels                            # Use document.path
  dossier labels tree.json --typeset        # Render and typeset
  dossier labels --escape                   # Escape LaTeX special characters`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLabels,
}

var (
	labelsFlags   *DocumentFlags
	labelsTypeset bool
	labelsEscape  bool
)

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsFlags = AddDocumentFlags(labelsCmd)
	labelsCmd.Flags().BoolVar(&labelsTypeset, "typeset", false, "Typeset every sheet to PDF")
	labelsCmd.Flags().BoolVar(&labelsEscape, "escape", false, "Escape LaTeX special characters in ids and names")
}

func runLabels(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if labelsEscape {
		s.cfg.Render.Escape = true
	}

	tree, err := s.readDocument(s.documentPath(args), labelsFlags.Format)
	if err != nil {
		return err
	}
	return writeLabelSheets(commandContext(cmd), cmd, s, tree, labelsTypeset || s.cfg.Typeset.Enabled)
}

// writeLabelSheets dispatches the labels of tree, writes one sheet per
// printable kind and optionally typesets each of them.
func writeLabelSheets(ctx context.Context, cmd *cobra.Command, s *session, tree *types.FolderTree, typeset bool) error {
	dispatcher := s.dispatcher()
	result, err := dispatcher.Dispatch(ctx, tree)
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d folder(s) skipped because of an unknown label kind\n", len(result.Errors))
	}

	sheets, err := labels.Sheets(result, func(kind types.LabelKind) (string, error) {
		return renderer.LoadLabelTemplate(kind, s.cfg.Render.LabelTemplates)
	})
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No printable labels found.")
		return nil
	}

	for _, sheet := range sheets {
		path, err := s.writeOutput(sheet.FileName(), sheet.Document)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s label(s) written to %s\n", sheet.Labels, sheet.Kind, path)
		s.logger.Debug(ctx, "Label sheet written",
			"kind", sheet.Kind, "macro", dispatcher.Macro(sheet.Kind), "labels", sheet.Labels, "path", path)

		if err := s.typeset(ctx, cmd, path, typeset); err != nil {
			return err
		}
	}
	return nil
}
