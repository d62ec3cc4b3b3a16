package errors

import (
	"errors"
)

// ErrorCollector accumulates non-fatal errors while a tree is traversed so
// that one bad node does not stop the rest of the tree from being processed.
type ErrorCollector struct {
	errors []error
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make([]error, 0)}
}

// Add records err. Nil errors are ignored.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.errors = append(ec.errors, err)
}

// Errors returns a copy of the collected errors in the order they were added.
func (ec *ErrorCollector) Errors() []error {
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// Len returns the number of collected errors.
func (ec *ErrorCollector) Len() int {
	return len(ec.errors)
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// Err joins the collected errors into one, or returns nil when there are none.
func (ec *ErrorCollector) Err() error {
	if len(ec.errors) == 0 {
		return nil
	}
	return errors.Join(ec.errors...)
}

// ByCode returns the collected DossierErrors carrying code.
func (ec *ErrorCollector) ByCode(code string) []error {
	var matched []error
	for _, err := range ec.errors {
		if CodeOf(err) == code {
			matched = append(matched, err)
		}
	}
	return matched
}
