// Package errors provides typed error definitions for stackhand.
// Every failure the core can report carries an ErrorCode so the transport
// layers can classify it without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Filesystem errors
	ErrNotFound                  ErrorCode = "NOT_FOUND"
	ErrNotADirectory             ErrorCode = "NOT_A_DIRECTORY"
	ErrIsADirectory              ErrorCode = "IS_A_DIRECTORY"
	ErrPermissionDenied          ErrorCode = "PERMISSION_DENIED"
	ErrFileTooLarge              ErrorCode = "FILE_TOO_LARGE"
	ErrFileSystem                ErrorCode = "FILE_SYSTEM"
	ErrSourceMissing             ErrorCode = "SOURCE_MISSING"
	ErrCrossDeviceFallbackFailed ErrorCode = "CROSS_DEVICE_FALLBACK_FAILED"

	// Validation errors
	ErrInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrInvalidPath     ErrorCode = "INVALID_PATH"
	ErrOverlapConflict ErrorCode = "OVERLAP_CONFLICT"

	// Stack inventory errors
	ErrStackNotFound       ErrorCode = "STACK_NOT_FOUND"
	ErrManifestNotMoved    ErrorCode = "MANIFEST_NOT_MOVED"
	ErrPersistenceFailure  ErrorCode = "PERSISTENCE_FAILURE"
	ErrDatabaseConnection  ErrorCode = "DATABASE_CONNECTION"
	ErrDatabaseMigration   ErrorCode = "DATABASE_MIGRATION"
	ErrRuntimeUnavailable  ErrorCode = "RUNTIME_UNAVAILABLE"
	ErrConfigNotFound      ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid       ErrorCode = "CONFIG_INVALID"
	ErrConfigParse         ErrorCode = "CONFIG_PARSE"

	// Access errors
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// StackError represents a structured error with additional context
type StackError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *StackError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *StackError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *StackError) WithContext(key string, value interface{}) *StackError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *StackError) WithCause(cause error) *StackError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *StackError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrNotFound, ErrStackNotFound, ErrConfigNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrPermissionDenied, ErrForbidden:
		return http.StatusForbidden
	case ErrNotADirectory, ErrIsADirectory, ErrFileTooLarge, ErrSourceMissing,
		ErrInvalidInput, ErrInvalidPath:
		return http.StatusBadRequest
	case ErrOverlapConflict, ErrManifestNotMoved:
		return http.StatusConflict
	case ErrRuntimeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new StackError
func New(code ErrorCode, message string) *StackError {
	return &StackError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new StackError with details
func NewWithDetails(code ErrorCode, message, details string) *StackError {
	return &StackError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new StackError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *StackError {
	return &StackError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetails creates a new StackError with details that wraps an existing error
func WrapWithDetails(code ErrorCode, message, details string, cause error) *StackError {
	return &StackError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// IsStackError checks if an error is, or wraps, a StackError
func IsStackError(err error) bool {
	var se *StackError
	return stderrors.As(err, &se)
}

// GetCode extracts the error code from an error chain, if it holds a StackError
func GetCode(err error) ErrorCode {
	var se *StackError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers importing this package need not alias the standard one.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
