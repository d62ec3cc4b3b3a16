package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/conneroisu/dossier/internal/config"
	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/conneroisu/dossier/internal/validation"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when a document or the configuration has
// at least one failure.
var ErrValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:     "validate [document]",
	Aliases: []string{"v"},
	Short:   "Check a folder tree document for invalid folders",
	Long: `Import a folder tree document and check every folder:

- label_kind must be one of none, outside_folder, inside_folder, hanging, sticker
- name must not be empty
- every folder except the root needs a numeric id
- sibling ids must be unique

All failures are reported; the command exits non-zero when any exist.

Examples:
  dossier validate                     # Use document.path
  dossier validate tree.yaml           # Validate a YAML document
  dossier validate --config-check      # Also validate the configuration
  dossier validate -o json             # Output results as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var (
	validateFlags       *DocumentFlags
	validateOutput      *OutputFlags
	validateConfigCheck bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags = AddDocumentFlags(validateCmd)
	validateOutput = AddOutputFlags(validateCmd, []string{"text", "json"})
	validateCmd.Flags().BoolVar(&validateConfigCheck, "config-check", false, "Also validate the loaded configuration")
}

// ValidationFailure is one reported problem.
type ValidationFailure struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationSummary is the result of a validate run.
type ValidationSummary struct {
	Document       string              `json:"document"`
	Folders        int                 `json:"folders"`
	Valid          bool                `json:"valid"`
	Failures       []ValidationFailure `json:"failures"`
	FailureCounts  map[string]int      `json:"failure_counts,omitempty"`
	Unsorted       []string            `json:"unsorted,omitempty"`
	ConfigErrors   []string            `json:"config_errors,omitempty"`
	ConfigWarnings []string            `json:"config_warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	path := s.documentPath(args)
	tree, err := s.readDocument(path, validateFlags.Format)
	if err != nil {
		return err
	}

	summary := &ValidationSummary{Document: path, Folders: tree.Len(), Failures: []ValidationFailure{}}
	collector := dossiererrors.NewErrorCollector()
	for _, failure := range validation.ValidateTree(tree) {
		collector.Add(failure)
		summary.Failures = append(summary.Failures, toFailure(failure))
	}
	summary.FailureCounts = failureCounts(collector, summary.Failures)
	summary.Unsorted = unsortedFolders(tree)

	if validateConfigCheck {
		result := config.ValidateConfigWithDetails(s.cfg)
		for _, e := range result.Errors {
			summary.ConfigErrors = append(summary.ConfigErrors, e.Error())
		}
		for _, w := range result.Warnings {
			summary.ConfigWarnings = append(summary.ConfigWarnings, w.Error())
		}
	}
	summary.Valid = len(summary.Failures) == 0 && len(summary.ConfigErrors) == 0

	if !validateOutput.Quiet {
		out := cmd.OutOrStdout()
		if validateOutput.Output == "json" {
			if err := outputValidationJSON(out, summary); err != nil {
				return err
			}
		} else {
			outputValidationText(out, summary)
		}
	}

	if !summary.Valid {
		return ErrValidationFailed
	}
	return nil
}

func toFailure(err error) ValidationFailure {
	var de *dossiererrors.DossierError
	if errors.As(err, &de) {
		return ValidationFailure{Code: de.Code, Path: de.Path, Message: de.Message}
	}
	return ValidationFailure{Message: err.Error()}
}

// failureCounts groups the collected failures by code.
func failureCounts(collector *dossiererrors.ErrorCollector, failures []ValidationFailure) map[string]int {
	if !collector.HasErrors() {
		return nil
	}
	counts := make(map[string]int)
	for _, f := range failures {
		if _, ok := counts[f.Code]; !ok {
			counts[f.Code] = len(collector.ByCode(f.Code))
		}
	}
	return counts
}

// unsortedFolders returns the paths of folders whose children are not in
// ascending id order. Such a document is still valid.
func unsortedFolders(tree *types.FolderTree) []string {
	var paths []string
	tree.Root.Walk(func(folder *types.Folder, _ int) bool {
		if !folder.ChildrenSorted() {
			paths = append(paths, folder.Path())
		}
		return true
	})
	return paths
}

func outputValidationJSON(w io.Writer, summary *ValidationSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

func outputValidationText(w io.Writer, summary *ValidationSummary) {
	for _, f := range summary.Failures {
		fmt.Fprintf(w, "✗ %s: %s [%s]\n", f.Path, f.Message, f.Code)
	}
	for _, e := range summary.ConfigErrors {
		fmt.Fprintf(w, "✗ config: %s\n", e)
	}
	for _, warning := range summary.ConfigWarnings {
		fmt.Fprintf(w, "⚠ config: %s\n", warning)
	}
	for _, path := range summary.Unsorted {
		fmt.Fprintf(w, "⚠ %s: children are not in id order\n", path)
	}

	fmt.Fprintf(w, "\nValidation Summary:\n")
	fmt.Fprintf(w, "  Document: %s\n", summary.Document)
	fmt.Fprintf(w, "  Folders: %d\n", summary.Folders)
	fmt.Fprintf(w, "  Failures: %d\n", len(summary.Failures))
	codes := make([]string, 0, len(summary.FailureCounts))
	for code := range summary.FailureCounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "    %s: %d\n", code, summary.FailureCounts[code])
	}
	if summary.Valid {
		fmt.Fprintln(w, "\n✓ Folder tree is valid")
	}
}
