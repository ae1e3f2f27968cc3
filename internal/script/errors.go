package script

import (
	"errors"
	"fmt"
)

// Errors for script runtime operations.
var (
	// ErrRuntimeClosed is returned when operating on a closed runtime.
	ErrRuntimeClosed = errors.New("script runtime is closed")
)

// ScriptError reports a failure while running Lua code. Source names the
// file, "<string>" for inline code, or the event whose handler failed.
type ScriptError struct {
	Source string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Source, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
