package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conneroisu/dossier/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch [root]",
	Aliases: []string{"w"},
	Short:   "Rescan the hierarchy whenever a folder changes",
	Long: `Watch a directory hierarchy and regenerate the folder tree document when
folders are created, removed or renamed. Changes to regular files are
ignored, as are hidden directories and the generated outputs.

With --render the diagram and the label sheets are rendered after every
scan as well.

Examples:
  dossier watch ~/Documents                 # Keep folder_tree.json current
  dossier watch . --render                  # Also re-render LaTeX outputs
  dossier watch . --delay 1s --verbose      # Slower debounce, list changes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var (
	watchFlags   *DocumentFlags
	watchOutput  string
	watchRender  bool
	watchDelay   time.Duration
	watchVerbose bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags = AddDocumentFlags(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutput, "output", "O", "", "Document to write (default document.path)")
	watchCmd.Flags().BoolVarP(&watchRender, "render", "r", false, "Render the diagram and label sheets after each scan")
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 300*time.Millisecond, "Debounce delay for file system events")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Print every change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) > 0 {
		s.cfg.Scan.Root = args[0]
	}
	if watchOutput != "" {
		s.cfg.Document.Path = watchOutput
	}
	if cmd.Flags().Changed("format") {
		s.cfg.Document.Format = watchFlags.Format
	}
	if s.cfg.Document.Path == "-" {
		return fmt.Errorf("watch cannot write the document to stdout")
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fileWatcher, err := watcher.NewFileWatcher(watchDelay, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.NoGitFilter)
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(watcher.DirectoryFilter)
	fileWatcher.AddFilter(watcher.ExcludeFilter(s.cfg.Document.Path, s.cfg.Render.OutputDir))

	rebuild := func() {
		if err := watchRebuild(ctx, cmd, s); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Rebuild failed: %v\n", err)
		}
	}

	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		if watchVerbose {
			fmt.Fprintln(cmd.OutOrStdout(), "📁 Changes detected:")
			for _, event := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "📁 %d change(s) detected\n", len(events))
		}
		rebuild()
		return nil
	})

	if err := fileWatcher.AddRecursive(s.cfg.Scan.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.cfg.Scan.Root, err)
	}
	if watchVerbose {
		for _, path := range fileWatcher.WatchedPaths() {
			fmt.Fprintf(cmd.OutOrStdout(), "   - Watching: %s\n", path)
		}
	}

	rebuild()

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "👀 Watching for changes... (Press Ctrl+C to stop)")

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\n🛑 Stopping file watcher...")
	return nil
}

// watchRebuild rescans and rewrites the document. The rendered outputs use
// the scanned tree after the document's annotations were merged into it.
func watchRebuild(ctx context.Context, cmd *cobra.Command, s *session) error {
	tree, err := scanAndExport(cmd, s)
	if err != nil || !watchRender {
		return err
	}
	if err := writeDiagram(ctx, cmd, s, tree, s.cfg.Typeset.Enabled); err != nil {
		return err
	}
	return writeLabelSheets(ctx, cmd, s, tree, s.cfg.Typeset.Enabled)
}
