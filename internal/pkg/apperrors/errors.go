package apperrors

import (
	"errors"
	"net/http"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrBadRequest = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAlreadyEnrolled    = errors.New("user already enrolled in course")
)

// Content errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrLayoutNotFound       = errors.New("layout not found")
	ErrLayoutExists         = errors.New("layout type already exists")
)

// AppError is an error carrying the message and HTTP status shown to the client
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with an explicit status
func New(status int, message string) *AppError {
	return &AppError{Err: sentinelFor(status), Message: message, StatusCode: status}
}

// Wrap attaches a client message and status to an underlying error
func Wrap(err error, status int, message string) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: status}
}

// NewBadRequestError creates a 400 error with a message
func NewBadRequestError(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NewNotFoundError creates a 404 error with a message
func NewNotFoundError(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// NewUnauthorizedError creates a 401 error with a message
func NewUnauthorizedError(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// NewForbiddenError creates a 403 error with a message
func NewForbiddenError(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// NewInternalError hides err behind a generic 500 message
func NewInternalError(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, "Internal server error")
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrResourceNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}
