// Package errors provides structured error types for gembridge.
//
// This package defines error codes and types that enable:
//   - Separating soft "skip this artifact" outcomes from hard faults
//   - Machine-readable error codes for programmatic handling
//   - Carrying the offending repository item for diagnostics
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into a few families:
//   - INVALID_*: Input validation failures
//   - *_IO: Unexpected I/O faults while locating, reading, or packaging
//   - UNSUPPORTED_*: Capability gaps (e.g. storage that is not a plain filesystem)
//   - PRECONDITION_VIOLATION: A builder was called on a non-convertible artifact
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedStorage, "storage %q is not filesystem-backed", kind)
//	if errors.Is(err, errors.ErrCodeUnsupportedStorage) {
//	    // skip repository
//	}
//
//	// Wrap existing errors and attach the repository item
//	err := errors.WrapItem(errors.ErrCodeLocatorIO, origErr, item, "stat %s", path)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Conversion outcomes
	ErrCodeNotConvertible Code = "NOT_CONVERTIBLE"
	ErrCodePrecondition   Code = "PRECONDITION_VIOLATION"
	ErrCodeManifestFormat Code = "MANIFEST_FORMAT"

	// I/O faults
	ErrCodeLocatorIO   Code = "LOCATOR_IO"
	ErrCodeMetadataIO  Code = "METADATA_IO"
	ErrCodePackagingIO Code = "PACKAGING_IO"

	// Capability errors
	ErrCodeUnsupportedStorage Code = "UNSUPPORTED_STORAGE"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Item    string // Repository item path or coordinates (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Item != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Item)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
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

// WrapItem is like Wrap but records the repository item the failure belongs to.
func WrapItem(code Code, cause error, item string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Item:    item,
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

// GetItem returns the repository item attached to err, if any.
func GetItem(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Item
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message, item and cause without code
// prefixes. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	msg := e.Message
	if e.Item != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Item)
	}
	if e.Cause != nil {
		msg += ": " + UserMessage(e.Cause)
	}
	return msg
}

// IsIO reports whether err belongs to the hard I/O failure family.
func IsIO(err error) bool {
	switch GetCode(err) {
	case ErrCodeLocatorIO, ErrCodeMetadataIO, ErrCodePackagingIO:
		return true
	}
	return false
}
