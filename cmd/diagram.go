package cmd

import (
	"context"
	"fmt"

	"github.com/conneroisu/dossier/internal/renderer"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/spf13/cobra"
)

// DiagramFileName is the file the diagram document is written to.
const DiagramFileName = "folder_structure.tex"

var diagramCmd = &cobra.Command{
	Use:     "diagram [document]",
	Aliases: []string{"d"},
	Short:   "Render the folder tree as a LaTeX forest diagram",
	Long: `Render a folder tree document as a forest diagram and substitute it into
the diagram template at ##FOLDER_STRUCTURE##.

The result is written to <output_dir>/folder_structure.tex. With --typeset
the configured LaTeX engine turns it into a PDF.

Examples:
  dossier diagram                           # Use document.path
  dossier diagram tree.yaml --typeset       # Render and typeset
  dossier diagram --template my_tree.tex    # Use a custom template
  dossier diagram --escape                  # Escape LaTeX special characters`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagram,
}

var (
	diagramFlags    *DocumentFlags
	diagramTemplate string
	diagramTypeset  bool
	diagramEscape   bool
)

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramFlags = AddDocumentFlags(diagramCmd)
	diagramCmd.Flags().StringVarP(&diagramTemplate, "template", "t", "", "Diagram template (default: built-in)")
	diagramCmd.Flags().BoolVar(&diagramTypeset, "typeset", false, "Typeset the diagram to PDF")
	diagramCmd.Flags().BoolVar(&diagramEscape, "escape", false, "Escape LaTeX special characters in ids and names")
	AddFlagValidation(diagramCmd.Flags(), "template", ValidateFileExists)
}

func runDiagram(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if diagramTemplate != "" {
		s.cfg.Render.DiagramTemplate = diagramTemplate
	}
	if diagramEscape {
		s.cfg.Render.Escape = true
	}

	tree, err := s.readDocument(s.documentPath(args), diagramFlags.Format)
	if err != nil {
		return err
	}
	return writeDiagram(commandContext(cmd), cmd, s, tree, diagramTypeset || s.cfg.Typeset.Enabled)
}

// writeDiagram renders tree into the diagram template, writes it to the
// output directory and optionally typesets it.
func writeDiagram(ctx context.Context, cmd *cobra.Command, s *session, tree *types.FolderTree, typeset bool) error {
	template, err := renderer.LoadDiagramTemplate(s.cfg.Render.DiagramTemplate)
	if err != nil {
		return err
	}

	content, err := s.renderer().RenderDiagram(ctx, tree, template)
	if err != nil {
		return fmt.Errorf("failed to render diagram: %w", err)
	}

	path, err := s.writeOutput(DiagramFileName, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Diagram written to %s\n", path)

	return s.typeset(ctx, cmd, path, typeset)
}
