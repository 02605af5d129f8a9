// Package errors defines the coded errors shared by the topoviz engine, the
// CLI and the HTTP API.
//
// Failures fall into a few groups, each with its own codes:
//
//   - An unreadable document (bad JSON or YAML, missing file) aborts the
//     load: INVALID_JSON, INVALID_FORMAT, FILE_NOT_FOUND.
//   - A schema violation aborts the load and carries a [ValidationError]
//     listing every offending JSON pointer: SCHEMA_VALIDATION.
//   - A view command naming something that does not exist is rejected and
//     leaves the view untouched: NODE_NOT_FOUND, INVALID_LEVEL.
//   - A failed layout is never fatal. LAYOUT_FAILED is returned as a warning
//     next to the grid fallback.
//   - Remote sources report NETWORK_ERROR, TIMEOUT, RATE_LIMITED and
//     UNAUTHORIZED.
//
// Malformed but parseable documents are not errors at all; the normalizer
// repairs them.
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // 404
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine-readable error code. The HTTP API returns it
// verbatim in error bodies.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidJSON      Code = "INVALID_JSON"
	ErrCodeInvalidLevel     Code = "INVALID_LEVEL"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeSchemaValidation Code = "SCHEMA_VALIDATION"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Warning only.
	ErrCodeLayoutFailed Code = "LAYOUT_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Message is meant for people; Cause, when set, is
// reachable through errors.Unwrap.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
// Inner codes are not consulted, so a wrapper can recategorise a failure.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code and cause, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// =============================================================================
// Schema Validation
// =============================================================================

// FieldError is one schema violation, located by a JSON pointer into the
// offending document.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError collects every violation found in one document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		path := f.Path
		if path == "" {
			path = "/"
		}
		parts = append(parts, path+": "+f.Message)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// NewValidation wraps field errors into a SCHEMA_VALIDATION error.
func NewValidation(fields []FieldError) *Error {
	return Wrap(ErrCodeSchemaValidation, &ValidationError{Fields: fields},
		"topology failed schema validation (%d errors)", len(fields))
}

// Fields returns the field errors carried by err, or nil.
func Fields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// =============================================================================
// Remote Sources
// =============================================================================

// RateLimitedError is the cause of a RATE_LIMITED error from a remote
// source. RetryAfter is in seconds; zero means unknown.
type RateLimitedError struct {
	RetryAfter int
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
