// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation      ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                         // Resource not found errors (404 Not Found)
	ErrorTypeConflict                         // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                         // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                      // Service unavailable errors (503 Service Unavailable)
	ErrorTypeUnauthenticated                  // Missing or invalid credentials (401 Unauthorized)
	ErrorTypeForbidden                        // Authenticated caller lacks permission (403 Forbidden)
)

// Sentinel errors. They are wrapped in a DomainError when returned so callers can
// match them with errors.Is and still map them to a transport status by type.
var (
	// ErrNoEligibleSlot is returned when an automatic decision has no slot to confirm.
	ErrNoEligibleSlot = errors.New("no eligible slot")
	// ErrUnauthorized is returned when someone other than the meeting creator
	// attempts a creator-only operation.
	ErrUnauthorized = errors.New("only the meeting creator may perform this action")
	// ErrServiceUnavailable is returned when a service is missing its dependencies.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrMeetingNotFound is returned when the meeting does not exist.
	ErrMeetingNotFound = errors.New("meeting not found")
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

func NewUnauthenticatedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnauthenticated, Message: message, Err: errors.Join(err...)}
}

func NewForbiddenError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Message: message, Err: errors.Join(err...)}
}
