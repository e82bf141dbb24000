package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes shared across all packages
const (
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodePartialFailure   ErrorCode = "PARTIAL_FAILURE"
	ErrCodeUnavailable      ErrorCode = "UNAVAILABLE"
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message
	Details map[string]interface{} // Optional additional details
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps an existing error with code and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest

	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized

	case ErrCodePermissionDenied:
		return http.StatusForbidden

	case ErrCodeNotFound:
		return http.StatusNotFound

	case ErrCodeConflict:
		return http.StatusConflict

	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable

	// A partial failure left the system inconsistent; surface as 500 so the
	// caller knows manual inspection may be needed.
	case ErrCodePartialFailure:
		fallthrough
	case ErrCodeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors for frequently used errors

// InvalidArgument creates an "invalid argument" error
func InvalidArgument(field, reason string) *Error {
	return New(ErrCodeInvalidArgument, fmt.Sprintf("invalid %s: %s", field, reason))
}

// Unauthenticated creates an "unauthenticated" error
func Unauthenticated(message string) *Error {
	return New(ErrCodeUnauthenticated, message)
}

// PermissionDenied creates a "permission denied" error
func PermissionDenied(message string) *Error {
	return New(ErrCodePermissionDenied, message)
}

// Conflict creates a "conflict" error
func Conflict(resourceType, identifier string) *Error {
	return Newf(ErrCodeConflict, "%s already exists: %s", resourceType, identifier)
}

// NotFound creates a "not found" error
func NotFound(resourceType, identifier string) *Error {
	return Newf(ErrCodeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an "internal error"
func Internal(message string) *Error {
	return New(ErrCodeInternal, message)
}

// InternalWrap wraps an internal error
func InternalWrap(err error, message string) *Error {
	return Wrap(err, ErrCodeInternal, message)
}

// Unavailable wraps a collaborator-unreachable error
func Unavailable(err error, collaborator string) *Error {
	return Wrapf(err, ErrCodeUnavailable, "%s unavailable", collaborator)
}

// PartialFailure combines a primary error with a failed cleanup error.
// Both are kept: the wrapped error joins them so errors.Is sees either,
// and the cleanup error is also exposed as a detail for API responses.
func PartialFailure(primary, cleanup error) *Error {
	e := &Error{
		Code:    ErrCodePartialFailure,
		Message: "operation failed and cleanup did not fully complete",
		Err:     errors.Join(primary, cleanup),
	}
	if primary != nil {
		e.WithDetail("primary_error", primary.Error())
	}
	if cleanup != nil {
		e.WithDetail("cleanup_error", cleanup.Error())
	}
	return e
}
