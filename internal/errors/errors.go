package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a Folio error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrUnauthorized    ErrorCode = "UNAUTHORIZED"      // 401
	ErrNotFound        ErrorCode = "NOT_FOUND"         // 404
	ErrTooManyRequests ErrorCode = "TOO_MANY_REQUESTS" // 429
	ErrUpstream        ErrorCode = "UPSTREAM"          // status passed through from the backend
	ErrNetwork         ErrorCode = "NETWORK"           // 502
	ErrInternal        ErrorCode = "INTERNAL"          // 500
)

// FolioError represents a structured error with code, status, and details.
type FolioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *FolioError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *FolioError {
	return &FolioError{
		Code:    ErrInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewUnauthorized creates a 401 error.
func NewUnauthorized(msg string) *FolioError {
	if msg == "" {
		msg = "unauthorized"
	}
	return &FolioError{
		Code:    ErrUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an absent entity.
func NewNotFound(kind, identifier string) *FolioError {
	return &FolioError{
		Code:    ErrNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewTooManyRequests creates a 429 error.
func NewTooManyRequests(msg string) *FolioError {
	return &FolioError{
		Code:    ErrTooManyRequests,
		Status:  http.StatusTooManyRequests,
		Message: msg,
	}
}

// NewUpstream creates an error for a non-2xx backend response.
// The message is the server-provided one when available, otherwise derived from the status.
func NewUpstream(status int, serverMsg string) *FolioError {
	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("API Error: %d", status)
	}
	return &FolioError{
		Code:    ErrUpstream,
		Status:  status,
		Message: msg,
		Details: map[string]any{"status": status},
	}
}

// NewNetwork creates a 502 error for a transport failure reaching the backend.
func NewNetwork(err error) *FolioError {
	msg := "backend unreachable"
	if err != nil {
		msg = err.Error()
	}
	return &FolioError{
		Code:    ErrNetwork,
		Status:  http.StatusBadGateway,
		Message: msg,
		cause:   err,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *FolioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &FolioError{
		Code:    ErrInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is a FolioError with the given code.
func Is(err error, code ErrorCode) bool {
	var fErr *FolioError
	if stderrors.As(err, &fErr) {
		return fErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var fErr *FolioError
	if stderrors.As(err, &fErr) && fErr.Status != 0 {
		return fErr.Status
	}
	return http.StatusInternalServerError
}
