package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/labels"
	"github.com/conneroisu/dossier/internal/types"
	"github.com/conneroisu/dossier/internal/validation"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  - %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    hint: %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateScanConfigDetails(&config.Scan, result)
	validateDocumentConfigDetails(&config.Document, result)
	validateRenderConfigDetails(&config.Render, result)
	validateLabelsConfigDetails(&config.Labels, &config.Render, result)
	validateTypesetConfigDetails(&config.Typeset, result)
	validateLogConfigDetails(&config.Log, result)

	result.Valid = !result.HasErrors()
	return result
}

// validateConfig returns the first validation error, if any.
func validateConfig(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if !result.HasErrors() {
		return nil
	}
	first := result.Errors[0]
	return dossiererrors.NewConfigError(dossiererrors.CodeInvalidConfig, first.Message).
		WithPath(first.Field).
		WithContext("errors", len(result.Errors))
}

func validateScanConfigDetails(config *ScanConfig, result *ValidationResult) {
	if info, err := os.Stat(config.Root); err == nil && !info.IsDir() {
		result.addWarning("scan.root", config.Root, "scan root is not a directory",
			"Point scan.root at the top directory of the filing hierarchy")
	}
}

func validateDocumentConfigDetails(config *DocumentConfig, result *ValidationResult) {
	switch config.Format {
	case "", "json", "yaml", "yml":
	default:
		result.addError("document.format", config.Format,
			fmt.Sprintf("unsupported document format %q", config.Format),
			"Use 'json' or 'yaml'",
			"Leave empty to infer the format from document.path")
	}

	if config.Indent < 0 || config.Indent > 16 {
		result.addError("document.indent", config.Indent,
			fmt.Sprintf("indent %d is not in valid range 1-16", config.Indent))
	}
}

func validateRenderConfigDetails(config *RenderConfig, result *ValidationResult) {
	if strings.TrimSpace(config.OutputDir) == "" {
		result.addError("render.output_dir", config.OutputDir, "output directory cannot be empty")
	}

	if config.DiagramTemplate != "" && !pathExists(config.DiagramTemplate) {
		result.addWarning("render.diagram_template", config.DiagramTemplate, "diagram template does not exist",
			"Remove the setting to use the built-in template")
	}

	for _, key := range sortedKeys(config.LabelTemplates) {
		kind := types.LabelKind(key)
		field := "render.label_templates." + key
		if !kind.Printable() {
			result.addError(field, key, fmt.Sprintf("label kind %q has no label sheet", key),
				"Label sheets exist for: hanging, sticker")
			continue
		}
		if path := config.LabelTemplates[key]; path != "" && !pathExists(path) {
			result.addWarning(field, path, "label template does not exist",
				"Remove the setting to use the built-in template")
		}
	}
}

func validateLabelsConfigDetails(config *LabelsConfig, render *RenderConfig, result *ValidationResult) {
	defaults := labels.DefaultMacros()
	for _, key := range sortedKeys(config.Macros) {
		kind := types.LabelKind(key)
		field := "labels.macros." + key
		if !kind.Valid() {
			result.addError(field, key, fmt.Sprintf("unknown label kind %q", key),
				"Valid kinds: hanging, sticker, outside_folder, inside_folder, none")
			continue
		}
		if err := validation.ValidateMacroName(config.Macros[key]); err != nil {
			result.addError(field, config.Macros[key], err.Error(),
				"LaTeX command names consist of letters only, without the leading backslash")
			continue
		}
		if !kind.Printable() {
			result.addWarning(field, key, fmt.Sprintf("label kind %q never produces labels", key))
			continue
		}
		if macro := config.Macros[key]; macro != defaults[kind] && render.LabelTemplates[key] == "" {
			result.addWarning(field, macro,
				fmt.Sprintf("the built-in %s template does not define \\%s", key, macro),
				fmt.Sprintf("Set render.label_templates.%s to a template that defines \\%s", key, macro))
		}
	}
}

func validateTypesetConfigDetails(config *TypesetConfig, result *ValidationResult) {
	if err := validation.ValidateCommand(config.Command, validation.LatexEngines); err != nil {
		result.addError("typeset.command", config.Command, err.Error(),
			"Use one of: lualatex, pdflatex, xelatex")
	}
	if config.Timeout < 0 {
		result.addError("typeset.timeout", config.Timeout, "timeout cannot be negative")
	}
}

func validateLogConfigDetails(config *LogConfig, result *ValidationResult) {
	if !contains(validLogLevels, strings.ToLower(config.Level)) {
		result.addError("log.level", config.Level, fmt.Sprintf("unknown log level %q", config.Level),
			"Use one of: debug, info, warn, error")
	}
	if config.Format != "text" && config.Format != "json" {
		result.addError("log.format", config.Format, fmt.Sprintf("unknown log format %q", config.Format),
			"Use 'text' or 'json'")
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
