package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conneroisu/dossier/internal/build"
	"github.com/conneroisu/dossier/internal/config"
	"github.com/conneroisu/dossier/internal/document"
	"github.com/conneroisu/dossier/internal/labels"
	"github.com/conneroisu/dossier/internal/logging"
	"github.com/conneroisu/dossier/internal/renderer"
	"github.com/conneroisu/dossier/internal/scanner"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/spf13/cobra"
)

// session holds what a single command invocation needs: the loaded
// configuration and a logger built from it.
type session struct {
	cfg    *config.Config
	logger logging.Logger
	closer func() error
	latex  *build.LatexTypesetter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	loggerConfig := &logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	}

	s := &session{cfg: cfg, closer: func() error { return nil }}
	if cfg.Log.File != "" {
		fileLogger, err := logging.NewFileLogger(loggerConfig, cfg.Log.File)
		if err != nil {
			return nil, err
		}
		s.logger = fileLogger
		s.closer = fileLogger.Close
	} else {
		s.logger = logging.NewLogger(loggerConfig)
	}
	s.logger = s.logger.WithComponent(cmd.Name())
	return s, nil
}

func (s *session) Close() {
	if s.latex != nil {
		metrics := s.latex.Metrics()
		if snapshot := metrics.GetSnapshot(); snapshot.TotalRuns > 0 {
			s.logger.Info(context.Background(), "typesetting finished",
				"runs", snapshot.TotalRuns,
				"failed", snapshot.FailedRuns,
				"success_rate", metrics.GetSuccessRate(),
				"average", snapshot.AverageDuration)
		}
	}
	if err := s.closer(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}

func (s *session) scanner() *scanner.TreeScanner {
	return scanner.NewTreeScanner(scanner.Options{
		KeepRootID:     s.cfg.Scan.KeepRootID,
		FollowSymlinks: s.cfg.Scan.FollowSymlinks,
		Iterative:      s.cfg.Scan.Iterative,
	}, s.logger)
}

func (s *session) renderer() *renderer.ForestRenderer {
	return renderer.NewForestRenderer(renderer.Options{
		Escape:    s.cfg.Render.Escape,
		Iterative: s.cfg.Render.Iterative,
	}, s.logger)
}

func (s *session) dispatcher() *labels.Dispatcher {
	macros := make(map[types.LabelKind]string, len(s.cfg.Labels.Macros))
	for kind, macro := range s.cfg.Labels.Macros {
		macros[types.LabelKind(kind)] = macro
	}
	return labels.NewDispatcher(labels.Options{
		Macros:    macros,
		Escape:    s.cfg.Render.Escape,
		Iterative: s.cfg.Render.Iterative,
	}, s.logger)
}

// typesetter returns the session's typesetter, shared so that its metrics
// cover every document of the invocation.
func (s *session) typesetter() build.Typesetter {
	if s.latex == nil {
		s.latex = build.NewLatexTypesetter(build.TypesetOptions{
			Command:  s.cfg.Typeset.Command,
			KeepLogs: s.cfg.Typeset.KeepLogs,
			Timeout:  s.cfg.Typeset.Timeout,
		}, s.logger)
	}
	return s.latex
}

// documentPath returns the document named on the command line, or the
// configured one.
func (s *session) documentPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return s.cfg.Document.Path
}

// readDocument imports the folder tree document at path.
func (s *session) readDocument(path, format string) (*types.FolderTree, error) {
	resolved, err := document.ResolveFormat(format, path)
	if err != nil {
		return nil, err
	}
	tree, err := document.ReadFile(path, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder tree: %w", err)
	}
	s.logger.Debug(context.Background(), "document loaded", "path", path, "folders", tree.Len())
	return tree, nil
}

// writeOutput writes content to name inside the configured output directory
// and returns the file path.
func (s *session) writeOutput(name, content string) (string, error) {
	if err := os.MkdirAll(s.cfg.Render.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", s.cfg.Render.OutputDir, err)
	}
	path := filepath.Join(s.cfg.Render.OutputDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// typeset runs the typesetter on path when enabled and reports the PDF.
func (s *session) typeset(ctx context.Context, cmd *cobra.Command, path string, enabled bool) error {
	if !enabled {
		return nil
	}
	pdf, err := s.typesetter().Typeset(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", pdf)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
