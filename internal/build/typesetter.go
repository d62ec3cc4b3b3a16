// Package build typesets generated LaTeX documents into PDF with an external
// engine.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/logging"
	"github.com/conneroisu/dossier/internal/validation"
)

// engineFlags are passed before the document so a broken document fails
// instead of waiting for terminal input.
var engineFlags = []string{"-interaction=nonstopmode", "-halt-on-error"}

// Typesetter turns a .tex file into a PDF and returns the PDF path.
type Typesetter interface {
	Typeset(ctx context.Context, texPath string) (string, error)
}

// TypesetOptions configures a LatexTypesetter.
type TypesetOptions struct {
	Command string
	// KeepLogs keeps the engine's .log file next to the PDF.
	KeepLogs bool
	Timeout  time.Duration
}

// commandRunner runs name with args in dir and returns its combined output.
type commandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// LatexTypesetter runs a LaTeX engine in the directory of the document.
type LatexTypesetter struct {
	command  string
	keepLogs bool
	timeout  time.Duration
	run      commandRunner
	logger   logging.Logger
	metrics  *TypesetMetrics
}

// NewLatexTypesetter creates a typesetter for the configured engine
func NewLatexTypesetter(options TypesetOptions, logger logging.Logger) *LatexTypesetter {
	command := options.Command
	if command == "" {
		command = "xelatex"
	}
	return &LatexTypesetter{
		command:  command,
		keepLogs: options.KeepLogs,
		timeout:  options.Timeout,
		run:      execRunner,
		logger:   logging.OrNop(logger).WithComponent("typesetter"),
		metrics:  NewTypesetMetrics(),
	}
}

// Metrics returns the run statistics of this typesetter.
func (t *LatexTypesetter) Metrics() *TypesetMetrics {
	return t.metrics
}

// Typeset runs the engine on texPath. Auxiliary files are removed afterwards;
// the .log file is kept when KeepLogs is set or the logger runs at debug
// level.
func (t *LatexTypesetter) Typeset(ctx context.Context, texPath string) (string, error) {
	start := time.Now()
	pdfPath, err := t.typeset(ctx, texPath)
	t.metrics.RecordRun(TypesetResult{
		Document: texPath,
		Duration: time.Since(start),
		Error:    err,
	})
	return pdfPath, err
}

func (t *LatexTypesetter) typeset(ctx context.Context, texPath string) (string, error) {
	if err := t.validate(texPath); err != nil {
		return "", dossiererrors.NewRenderError(dossiererrors.CodeTypesetFailed, "command validation failed", err).WithPath(texPath)
	}

	abs, err := filepath.Abs(texPath)
	if err != nil {
		return "", dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot resolve document path", err).WithPath(texPath)
	}
	dir, file := filepath.Split(abs)
	stem := strings.TrimSuffix(file, filepath.Ext(file))

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := append(append([]string{}, engineFlags...), file)
	t.logger.Debug(ctx, "running typesetter", "command", t.command, "dir", dir, "document", file)

	output, runErr := t.run(ctx, dir, t.command, args...)
	defer t.cleanup(ctx, dir, stem)

	if runErr != nil {
		if ctx.Err() != nil {
			return "", dossiererrors.NewRenderError(dossiererrors.CodeTypesetFailed,
				fmt.Sprintf("%s timed out", t.command), ctx.Err()).WithPath(texPath)
		}
		return "", dossiererrors.NewRenderError(dossiererrors.CodeTypesetFailed,
			fmt.Sprintf("%s failed", t.command), runErr).
			WithPath(texPath).
			WithContext("output", tail(string(output), 20))
	}

	pdfPath := filepath.Join(dir, stem+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", dossiererrors.NewRenderError(dossiererrors.CodeTypesetFailed,
			fmt.Sprintf("%s produced no PDF", t.command), err).WithPath(texPath)
	}

	t.logger.Info(ctx, "PDF generated", "path", pdfPath)
	return pdfPath, nil
}

// validate validates the command and arguments to prevent command injection
func (t *LatexTypesetter) validate(texPath string) error {
	if err := validation.ValidateCommand(t.command, validation.LatexEngines); err != nil {
		return err
	}
	if err := validation.ValidateFileExtension(texPath, []string{".tex"}); err != nil {
		return err
	}
	if err := validation.ValidateArgument(filepath.Base(texPath)); err != nil {
		return fmt.Errorf("invalid argument '%s': %w", filepath.Base(texPath), err)
	}
	return nil
}

func (t *LatexTypesetter) cleanup(ctx context.Context, dir, stem string) {
	remove := []string{".aux"}
	if !t.keepLogs && !t.debugEnabled() {
		remove = append(remove, ".log")
	}
	for _, ext := range remove {
		path := filepath.Join(dir, stem+ext)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.logger.Warn(ctx, err, "cannot remove typesetter output", "path", path)
		}
	}
}

func (t *LatexTypesetter) debugEnabled() bool {
	leveled, ok := t.logger.(interface{ Level() logging.LogLevel })
	return ok && leveled.Level() == logging.LevelDebug
}

func tail(s string, lines int) string {
	parts := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(parts) > lines {
		parts = parts[len(parts)-lines:]
	}
	return strings.Join(parts, "\n")
}
