// Package apperror defines the application error taxonomy so handlers can
// decide between re-rendering a form, flashing a message with a redirect, or
// returning a 404, without string-matching error text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DuplicateUser means registration hit an email that already has an account
	DuplicateUser
	// UnknownUser means login was attempted with an email that has no account
	UnknownUser
	// BadCredentials means the password did not match the stored hash
	BadCredentials
	// NotFound means an id-addressed resource (post, user) does not exist
	NotFound
	// ValidationFailed means submitted form data violated field constraints
	ValidationFailed
	// RelayFailure means the outbound mail relay did not accept the message
	RelayFailure
	// DatabaseError represents an error originating from the database
	DatabaseError
	// InternalError represents a generic internal server error
	InternalError
)

// AppError is the application's error type. It wraps an underlying error so
// errors.Is and errors.As keep working through the chain.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DuplicateUser:
		return http.StatusConflict
	case UnknownUser, BadCredentials:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed:
		return http.StatusBadRequest
	case RelayFailure:
		return http.StatusBadGateway
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError of an arbitrary type.
func New(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewDuplicateUser creates a DuplicateUser error.
func NewDuplicateUser(message string) *AppError {
	return New(DuplicateUser, message, nil)
}

// NewUnknownUser creates an UnknownUser error.
func NewUnknownUser(message string) *AppError {
	return New(UnknownUser, message, nil)
}

// NewBadCredentials creates a BadCredentials error.
func NewBadCredentials(message string) *AppError {
	return New(BadCredentials, message, nil)
}

// NewNotFound creates a NotFound error.
func NewNotFound(message string, underlying error) *AppError {
	return New(NotFound, message, underlying)
}

// NewValidationFailed creates a ValidationFailed error.
func NewValidationFailed(message string, underlying error) *AppError {
	return New(ValidationFailed, message, underlying)
}

// NewRelayFailure creates a RelayFailure error.
func NewRelayFailure(message string, underlying error) *AppError {
	return New(RelayFailure, message, underlying)
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return New(DatabaseError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return New(InternalError, message, underlying)
}

// isType reports whether any error in the chain is an AppError of type t.
func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsDuplicateUser checks if an error is a DuplicateUser error.
func IsDuplicateUser(err error) bool { return isType(err, DuplicateUser) }

// IsUnknownUser checks if an error is an UnknownUser error.
func IsUnknownUser(err error) bool { return isType(err, UnknownUser) }

// IsBadCredentials checks if an error is a BadCredentials error.
func IsBadCredentials(err error) bool { return isType(err, BadCredentials) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isType(err, NotFound) }

// IsValidationFailed checks if an error is a ValidationFailed error.
func IsValidationFailed(err error) bool { return isType(err, ValidationFailed) }

// IsRelayFailure checks if an error is a RelayFailure error.
func IsRelayFailure(err error) bool { return isType(err, RelayFailure) }
