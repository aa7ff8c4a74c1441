package views

import (
	"errors"
	"fmt"
)

// Sentinel errors for view operations.
var (
	ErrNotConfigured    = errors.New("views: not configured")
	ErrTemplateNotFound = errors.New("views: template not found")
	ErrResponseStarted  = errors.New("views: response already started")
)

// RenderError wraps a compile or execution failure from the underlying
// template engine. The original error is preserved for errors.Is/As.
type RenderError struct {
	Err      error
	Template string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("views: render %q: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError returns true if the error is a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// AsRenderError extracts the RenderError from an error if present.
func AsRenderError(err error) (*RenderError, bool) {
	var re *RenderError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
