package dom

import "errors"

// ErrForeignElement is returned when an element from another document is
// passed to a document operation.
var ErrForeignElement = errors.New("element belongs to another document")

// SelectorError reports a selector that could not be compiled.
type SelectorError struct {
	// Selector is the offending selector text.
	Selector string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *SelectorError) Error() string {
	return "invalid selector " + e.Selector + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SelectorError) Unwrap() error {
	return e.Err
}
