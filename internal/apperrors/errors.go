// Package apperrors defines the structured error type the HTTP surface
// maps onto status codes. The scoring core never returns these; they wrap
// failures at the edges (request validation, image fetching, decoding).
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an error for clients and logs.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError carries an error category, a client-safe message, and the HTTP
// status code to respond with.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports a malformed or rejected request (400).
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, StatusCode: http.StatusBadRequest, Cause: cause}
}

// NewNetworkError reports an upstream fetch failure (502).
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeNetwork, Message: message, StatusCode: http.StatusBadGateway, Cause: cause}
}

// NewProcessingError reports an image that could not be analyzed (422).
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeProcessing, Message: message, StatusCode: http.StatusUnprocessableEntity, Cause: cause}
}

// NewTimeoutError reports a deadline overrun (504).
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeTimeout, Message: message, StatusCode: http.StatusGatewayTimeout, Cause: cause}
}

// NewNotFoundError reports a missing resource, e.g. an unknown target name (404).
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message, StatusCode: http.StatusNotFound, Cause: cause}
}

// NewInternalError reports an unexpected failure (500).
func NewInternalError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, StatusCode: http.StatusInternalServerError, Cause: cause}
}

// IsType reports whether err is an AppError of the given category.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status for an error, defaulting to 500.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
