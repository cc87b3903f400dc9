// Package errors provides structured error types for treeviz.
//
// Every failure that a caller may want to branch on carries a [Code]:
// a figure that names an unknown scenario, a canary that no longer holds
// for the simulated example data, a malformed configuration file.
// Everything else is wrapped with fmt.Errorf and propagated unchanged.
//
// # Error Codes
//
//   - INVALID_*: input, configuration or data validation failures
//   - CANARY_FAILED: a structural check on generated example data failed
//   - SIMULATION_FAILED, RENDER_FAILED: a pipeline stage failed
//   - UNSUPPORTED, INTERNAL_ERROR: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidModel, "unknown model %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidModel) {
//	    // print the list of models
//	}
//
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeInvalidModel        Code = "INVALID_MODEL"
	ErrCodeInvalidStyle        Code = "INVALID_STYLE"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeInvalidTreeSequence Code = "INVALID_TREE_SEQUENCE"
	ErrCodeInvalidPath         Code = "INVALID_PATH"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Pipeline errors
	ErrCodeCanary     Code = "CANARY_FAILED"
	ErrCodeSimulation Code = "SIMULATION_FAILED"
	ErrCodeRender     Code = "RENDER_FAILED"

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
// The outermost *Error in the chain decides.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, or "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to a process exit status.
// Configuration and input problems exit 2 so that build scripts can tell
// them apart from figure failures.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidModel,
		ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeFileNotFound:
		return 2
	default:
		return 1
	}
}
