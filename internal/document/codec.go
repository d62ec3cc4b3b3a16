package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	dossiererrors "github.com/conneroisu/dossier/internal/errors"
	"github.com/conneroisu/dossier/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is the indentation width used when none is configured.
const DefaultIndent = 4

// ParseFormat validates a format name. "yml" is accepted as an alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", dossiererrors.NewConfigError(dossiererrors.CodeUnknownFormat,
			fmt.Sprintf("unsupported document format %q (supported: json, yaml)", name))
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ResolveFormat returns the explicit format when one is given and the format
// inferred from path otherwise.
func ResolveFormat(explicit, path string) (Format, error) {
	if explicit == "" {
		return FormatFromPath(path), nil
	}
	return ParseFormat(explicit)
}

// Encode writes doc to w. Non-ASCII characters are written as is.
func Encode(w io.Writer, doc *Document, format Format, indent int) error {
	if indent <= 0 {
		indent = DefaultIndent
	}

	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", strings.Repeat(" ", indent))
		return encoder.Encode(doc)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(indent)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return dossiererrors.NewConfigError(dossiererrors.CodeUnknownFormat,
			fmt.Sprintf("unsupported document format %q", format))
	}
}

// Decode reads a document from r and imports it.
func Decode(r io.Reader, format Format) (*types.FolderTree, error) {
	var raw interface{}

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return nil, dossiererrors.NewSchemaError(dossiererrors.CodeMalformed, "invalid JSON document").WithCause(err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, dossiererrors.NewSchemaError(dossiererrors.CodeMalformed, "invalid YAML document").WithCause(err)
		}
	default:
		return nil, dossiererrors.NewConfigError(dossiererrors.CodeUnknownFormat,
			fmt.Sprintf("unsupported document format %q", format))
	}

	node, ok := raw.(map[string]interface{})
	if !ok {
		return nil, dossiererrors.NewSchemaError(dossiererrors.CodeMalformed,
			fmt.Sprintf("document root must be a mapping, got %s", describe(raw))).WithPath("$")
	}
	return Import(node)
}

// ReadFile decodes the document stored at path. An empty format is inferred
// from the file extension.
func ReadFile(path string, format Format) (*types.FolderTree, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dossiererrors.NewIOError(dossiererrors.CodeReadFailed, "cannot read document", err).WithPath(path)
	}
	tree, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// WriteFile encodes doc to path, creating parent directories as needed.
func WriteFile(path string, doc *Document, format Format, indent int) error {
	if format == "" {
		format = FormatFromPath(path)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format, indent); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return dossiererrors.NewIOError(dossiererrors.CodeWriteFailed, "cannot create document directory", err).WithPath(dir)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return dossiererrors.NewIOError(dossiererrors.CodeWriteFailed, "cannot write document", err).WithPath(path)
	}
	return nil
}
