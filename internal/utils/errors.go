// Package utils provides small ambient helpers (error wrapping, buffer
// pooling, overflow-checked arithmetic) shared across the block, graph,
// conversion, record, writer, and index packages.
package utils

import "fmt"

// Error is a structured, contextual error. Every fallible operation in this
// module wraps its cause with the step that failed, so a caller sees
// "parse data group at 0x1200: short buffer" instead of a bare
// io.ErrUnexpectedEOF.
type Error struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WrapError attaches context to cause. Returns nil if cause is nil, so
// callers can write `return utils.WrapError("...", err)` unconditionally.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Context: context, Cause: cause}
}
