// Package errors provides structured error types for jsontree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the terminal browser and the web UI
//   - Machine-readable error codes for the JSON API
//   - User-friendly status messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_QUERY, NO_MATCH: Search outcomes
//   - EXPORT_*, CLIPBOARD_*: Output side effects
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyQuery, "enter a JSON path")
//	if errors.Is(err, errors.ErrCodeEmptyQuery) {
//	    // Prompt for a query
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, parseErr, "invalid JSON")
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidTheme     Code = "INVALID_THEME"
	ErrCodeUnknownEngine    Code = "UNKNOWN_ENGINE"
	ErrCodeInputTooLarge    Code = "INPUT_TOO_LARGE"

	// Search outcomes
	ErrCodeEmptyQuery Code = "EMPTY_QUERY"
	ErrCodeNoMatch    Code = "NO_MATCH"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Output side effects
	ErrCodeNothingToExport Code = "NOTHING_TO_EXPORT"
	ErrCodeExportFailed    Code = "EXPORT_FAILED"
	ErrCodeClipboard       Code = "CLIPBOARD_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// UserFixable reports whether errors with code c come from input the user
// can correct: the document, a search query, a flag or the config file.
// The CLI exits with status 2 for these, and the browser server answers 4xx.
func (c Code) UserFixable() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidDirection,
		ErrCodeInvalidConfig, ErrCodeInvalidTheme, ErrCodeUnknownEngine,
		ErrCodeInputTooLarge, ErrCodeEmptyQuery, ErrCodeNoMatch:
		return true
	}
	return false
}

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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message followed by the cause (if any),
// without the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
