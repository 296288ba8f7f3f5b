// Package errors defines custom error types and error handling utilities for the supplier risk service.
// This package provides structured error types that map to API error codes and HTTP status codes.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable error identifier returned to API clients.
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeInternal           ErrorCode = "internal_error"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
	ErrCodeRateLimitExceeded  ErrorCode = "rate_limit_exceeded"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the API error code
	Code() ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *baseError) Code() ErrorCode     { return e.code }
func (e *baseError) HTTPStatus() int     { return e.httpStatus }
func (e *baseError) Description() string { return e.description }
func (e *baseError) Unwrap() error       { return e.cause }

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all metadata
func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// newError creates a new AppError with the specified parameters
func newError(code ErrorCode, httpStatus int, description string, message string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) AppError {
	return newError(
		ErrCodeInvalidRequest,
		http.StatusBadRequest,
		"The request is missing a required parameter, includes an invalid parameter value, or is otherwise malformed.",
		message,
	)
}

// ErrSupplierNotFound creates a not_found error for an unknown supplier id
func ErrSupplierNotFound(supplierID string) AppError {
	return newError(
		ErrCodeNotFound,
		http.StatusNotFound,
		"Supplier not found",
		fmt.Sprintf("Supplier not found: %s", supplierID),
	).WithMetadata("supplier_id", supplierID)
}

// ErrStoreUnavailable signals that the supplier data store could not serve the request.
// It is kept apart from validation errors so callers can tell bad input from a bad backend.
func ErrStoreUnavailable(operation string) AppError {
	return newError(
		ErrCodeServiceUnavailable,
		http.StatusInternalServerError,
		"The supplier data store is currently unavailable.",
		fmt.Sprintf("supplier store failure during %s", operation),
	).WithMetadata("operation", operation)
}

// ErrInternal creates an internal_error error
func ErrInternal(message string) AppError {
	return newError(
		ErrCodeInternal,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ErrRateLimitExceeded creates a rate limit exceeded error
func ErrRateLimitExceeded(scope string) AppError {
	return newError(
		ErrCodeRateLimitExceeded,
		http.StatusTooManyRequests,
		"Rate limit exceeded. Please try again later.",
		fmt.Sprintf("Rate limit exceeded for scope '%s'", scope),
	).WithMetadata("scope", scope)
}

// ErrInvalidParameterFormat creates an invalid parameter format error
func ErrInvalidParameterFormat(paramName string, expectedFormat string) AppError {
	return ErrInvalidRequest(fmt.Sprintf("Invalid format for parameter '%s': expected %s", paramName, expectedFormat)).
		WithMetadata("parameter", paramName).
		WithMetadata("expected_format", expectedFormat)
}

// ================================================================================
// Error Inspection Utilities
// ================================================================================

// AsAppError attempts to extract an AppError from an error chain
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code() == ErrCodeNotFound
	}
	return false
}

// IsClientError reports whether err is an AppError caused by the caller (4xx).
func IsClientError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		status := appErr.HTTPStatus()
		return status >= 400 && status < 500
	}
	return false
}

// ShouldLogError determines if an error should be logged at error level.
// Client errors (4xx) are not, except rate limiting.
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		status := appErr.HTTPStatus()
		return status >= 500 || status == http.StatusTooManyRequests
	}
	return true
}

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts any error to an ErrorResponse. Unknown errors are
// rendered as a generic internal error so internals never leak to clients.
func ToErrorResponse(err error) *ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		desc := appErr.Description()
		if be, ok := appErr.(*baseError); ok && be.message != "" {
			desc = be.message
		}
		return &ErrorResponse{
			Error:            string(appErr.Code()),
			ErrorDescription: desc,
			Metadata:         appErr.Metadata(),
		}
	}

	return &ErrorResponse{
		Error:            string(ErrCodeInternal),
		ErrorDescription: "An unexpected error occurred",
	}
}

// StatusOf returns the HTTP status associated with err, 500 for unknown errors.
func StatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

//Personal.AI order the ending
