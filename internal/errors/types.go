// Package errors defines the structured error type used across dossier and
// helpers to classify it.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeSchema marks a document that does not have the expected shape.
	// It is fatal to an import.
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeValidation marks a single node that breaks a tree invariant.
	// It is reported and the rest of the tree is still processed.
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
)

// Error codes.
const (
	CodeMissingField     = "MISSING_FIELD"
	CodeMalformed        = "MALFORMED_DOCUMENT"
	CodeUnknownFormat    = "UNKNOWN_FORMAT"
	CodeEmptyTree        = "EMPTY_TREE"
	CodeInvalidLabelKind = "INVALID_LABEL_KIND"
	CodeEmptyName        = "EMPTY_NAME"
	CodeInvalidID        = "INVALID_ID"
	CodeDuplicateID      = "DUPLICATE_ID"
	CodeNotDirectory     = "NOT_DIRECTORY"
	CodeReadFailed       = "READ_FAILED"
	CodeWriteFailed      = "WRITE_FAILED"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeMissingToken     = "MISSING_TOKEN"
	CodeMissingTemplate  = "MISSING_TEMPLATE"
	CodeTypesetFailed    = "TYPESET_FAILED"
)

// DossierError is a structured error type with context.
type DossierError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	// Path locates the failing item: a filesystem path, a document path such
	// as "subfolders[1].id", or a folder path such as "Documents/1_Work".
	Path    string
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DossierError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Path != "" {
		parts = append(parts, e.Path+":")
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *DossierError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *DossierError) Is(target error) bool {
	var t *DossierError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithPath sets the location of the error.
func (e *DossierError) WithPath(path string) *DossierError {
	e.Path = path
	return e
}

// WithCause sets the underlying error.
func (e *DossierError) WithCause(cause error) *DossierError {
	e.Cause = cause
	return e
}

// WithContext adds context information to the error.
func (e *DossierError) WithContext(key string, value interface{}) *DossierError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewSchemaError creates a schema error.
func NewSchemaError(code, message string) *DossierError {
	return &DossierError{Type: ErrorTypeSchema, Code: code, Message: message}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DossierError {
	return &DossierError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *DossierError {
	return &DossierError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *DossierError {
	return &DossierError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewRenderError creates a rendering error.
func NewRenderError(code, message string, cause error) *DossierError {
	return &DossierError{Type: ErrorTypeRender, Code: code, Message: message, Cause: cause}
}

// IsType reports whether err wraps a DossierError of the given type.
func IsType(err error, errType ErrorType) bool {
	var de *DossierError
	if errors.As(err, &de) {
		return de.Type == errType
	}
	return false
}

// IsSchemaError checks if an error is a document schema error.
func IsSchemaError(err error) bool {
	return IsType(err, ErrorTypeSchema)
}

// IsValidationError checks if an error is a node validation error.
func IsValidationError(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// CodeOf returns the code of the DossierError wrapped by err, or "".
func CodeOf(err error) string {
	var de *DossierError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
