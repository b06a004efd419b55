// Package errors carries coded errors shared by the CLI and the preview
// server: the CLI matches on codes to pick exit behavior, the server maps
// them to HTTP statuses and JSON error envelopes.
//
// Codes group by prefix: INVALID_* for input validation, *_NOT_FOUND for
// missing resources, EXPORT_* for per-format export failures, and
// INTERNAL_* for everything that should not happen.
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty inventory: %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) { ... }
//
//	err := errors.Wrap(errors.ErrCodeExportPackage, cause, "package export for %s", path)
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
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidLexicon Code = "INVALID_LEXICON"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"

	// Export errors. Each format fails independently; the code records
	// which encoder failed.
	ErrCodeExportJSON    Code = "EXPORT_JSON_FAILED"
	ErrCodeExportSVG     Code = "EXPORT_SVG_FAILED"
	ErrCodeExportDOT     Code = "EXPORT_DOT_FAILED"
	ErrCodeExportPackage Code = "EXPORT_PACKAGE_FAILED"

	// Cache errors
	ErrCodeCache Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a machine-readable code with a human-readable message and an
// optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the stdlib errors.Is/As chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a coded error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain carries the code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix for display: the message of the first
// *Error in the chain, or the plain error string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
