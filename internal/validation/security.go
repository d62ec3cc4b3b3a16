// Package validation checks folder trees against their structural rules and
// guards the arguments handed to external programs.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LatexEngines lists the typesetting commands dossier may run.
var LatexEngines = map[string]bool{
	"xelatex":  true,
	"pdflatex": true,
	"lualatex": true,
}

// ValidateArgument validates a command line argument to prevent injection attacks
func ValidateArgument(arg string) error {
	if arg == "" {
		return fmt.Errorf("argument cannot be empty")
	}

	// Check for shell metacharacters that could be used for command injection
	dangerous := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\\", "\"", "'", "\n", "\x00"}
	for _, char := range dangerous {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %q", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("contains path traversal: %s", arg)
	}

	// Arguments are resolved relative to the working directory of the command.
	if filepath.IsAbs(arg) {
		return fmt.Errorf("absolute path not allowed: %s", arg)
	}

	// Engines treat a leading dash as an option.
	if strings.HasPrefix(arg, "-") {
		return fmt.Errorf("argument looks like a flag: %s", arg)
	}

	return nil
}

// ValidateCommand validates a command name against an allowlist
func ValidateCommand(command string, allowedCommands map[string]bool) error {
	if command == "" {
		return fmt.Errorf("command cannot be empty")
	}

	if !allowedCommands[command] {
		return fmt.Errorf("command '%s' is not allowed", command)
	}

	if err := ValidateArgument(command); err != nil {
		return fmt.Errorf("invalid command '%s': %w", command, err)
	}

	return nil
}

// ValidateFileExtension validates file extensions against an allowlist
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file must have an extension")
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed", ext)
}

// ValidateMacroName checks that name can be used as a LaTeX control word.
func ValidateMacroName(name string) error {
	if name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("macro name %q must contain only ASCII letters", name)
		}
	}
	return nil
}
