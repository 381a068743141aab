// Package errors provides structured error types for orgchart.
//
// Every failure that can abort a chart run carries a machine-readable [Code].
// The CLI maps codes to distinct diagnostics and exit statuses, so callers
// wrap lower-level errors with [Wrap] at the stage where the failure kind is
// known and pass them up unchanged afterwards.
//
// # Error Codes
//
//   - CONFIG_MISSING: a required credential or setting is absent
//   - FETCH_FAILURE: the data source is unreachable or the query failed
//   - EMPTY_DATASET: the data source returned zero records
//   - NO_ROOTS: no unit qualifies as a root after hierarchy resolution
//   - CYCLE_DETECTED: some units are only reachable through a parent cycle
//   - RENDER_FAILURE: serialization or raster conversion failed
//   - INVALID_INPUT: malformed records or options
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyDataset, "no records in table %q", table)
//	if errors.Is(err, errors.ErrCodeEmptyDataset) {
//	    // ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeFetchFailure, cause, "query %s", table)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure kinds of a chart run.
const (
	ErrCodeConfigMissing Code = "CONFIG_MISSING"
	ErrCodeFetchFailure  Code = "FETCH_FAILURE"
	ErrCodeEmptyDataset  Code = "EMPTY_DATASET"
	ErrCodeNoRoots       Code = "NO_ROOTS"
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"
	ErrCodeRenderFailure Code = "RENDER_FAILURE"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// exitCodes assigns each code its own process exit status.
// Unknown errors exit with 1.
var exitCodes = map[Code]int{
	ErrCodeConfigMissing: 2,
	ErrCodeFetchFailure:  3,
	ErrCodeEmptyDataset:  4,
	ErrCodeNoRoots:       5,
	ErrCodeCycleDetected: 6,
	ErrCodeRenderFailure: 7,
	ErrCodeInvalidInput:  8,
	ErrCodeInvalidFormat: 8,
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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode returns the process exit status for err.
// nil maps to 0 and errors without a known code map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[GetCode(err)]; ok {
		return code
	}
	return 1
}
