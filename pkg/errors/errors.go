// Package errors provides structured error types for nodegraph.
//
// Package boundaries (document loading, stores, export, the HTTP API) return
// coded errors so callers can branch on the category without string matching:
//
//   - INVALID_*: input that cannot be accepted (documents, styles, ids)
//   - NOT_FOUND: a graph, node or stored document does not exist
//   - IO_ERROR: file or backend failures while loading or saving
//   - INTERNAL_ERROR: unexpected failures
//
// Inside the editing core, lookups never fail with an error; they return a
// sentinel (nil, -1) and the caller checks before use.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "missing nodes array")
//	if errors.Is(err, errors.ErrCodeInvalidDocument) {
//	    // reject the upload
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDocument   Code = "INVALID_DOCUMENT"
	ErrCodeInvalidStyle      Code = "INVALID_STYLE"
	ErrCodeInvalidConnection Code = "INVALID_CONNECTION"
	ErrCodeInvalidID         Code = "INVALID_ID"
	ErrCodeInvalidLinkType   Code = "INVALID_LINK_TYPE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Backend errors
	ErrCodeIO Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries any of the INVALID_* codes.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDocument, ErrCodeInvalidStyle,
		ErrCodeInvalidConnection, ErrCodeInvalidID, ErrCodeInvalidLinkType:
		return true
	}
	return false
}
