package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DocumentFlags are shared by commands that read or write a folder tree
// document.
type DocumentFlags struct {
	Format string
}

// OutputFlags select how a command prints its result.
type OutputFlags struct {
	Output string
	Quiet  bool
}

// AddDocumentFlags adds the document format flag to a command
func AddDocumentFlags(cmd *cobra.Command) *DocumentFlags {
	flags := &DocumentFlags{}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Document format (json|yaml); inferred from the file extension when empty")
	AddFlagValidation(cmd.Flags(), "format", func(format string) error {
		return ValidateChoice("document format", format, []string{"json", "yaml", "yml"})
	})
	return flags
}

// AddOutputFlags adds output selection flags to a command
func AddOutputFlags(cmd *cobra.Command, formats []string) *OutputFlags {
	flags := &OutputFlags{}
	cmd.Flags().StringVarP(&flags.Output, "output", "o", formats[0], fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")
	AddFlagValidation(cmd.Flags(), "output", func(format string) error {
		return ValidateChoice("output format", format, formats)
	})
	return flags
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	originalSet := flag.Value.Set

	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// ValidateChoice checks value against the allowed choices, case-insensitively,
// and suggests the closest one.
func ValidateChoice(what, value string, choices []string) error {
	lower := strings.ToLower(value)
	for _, choice := range choices {
		if lower == choice {
			return nil
		}
	}

	message := fmt.Sprintf("invalid %s %q, must be one of: %s", what, value, strings.Join(choices, ", "))
	if suggestion := closestChoice(lower, choices); suggestion != "" {
		message += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("%s", message)
}

// closestChoice returns the choice sharing the longest prefix with value.
func closestChoice(value string, choices []string) string {
	best, bestLen := "", 0
	for _, choice := range choices {
		n := 0
		for n < len(value) && n < len(choice) && value[n] == choice[n] {
			n++
		}
		if n > bestLen {
			best, bestLen = choice, n
		}
	}
	return best
}

// ValidateFileExists checks that an optional file argument exists
func ValidateFileExists(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}
