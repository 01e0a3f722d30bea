package apperrors

import (
	"errors"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTooManyAttempts    = errors.New("too many attempts")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// ErrInvalidState is returned when a request is well-formed but violates the
	// ordering or lifecycle rules of the data it touches.
	ErrInvalidState = errors.New("invalid state")
)

// Member errors
var (
	ErrMemberNotFound     = NewCustomError(ErrResourceNotFound, "member not found")
	ErrEmailAlreadyExists = NewCustomError(ErrConflict, "email already exists")
	ErrAccountNotApproved = NewCustomError(ErrPermissionDenied, "your account has not been validated yet")
	ErrManagerNotApproved = NewCustomError(ErrPermissionDenied, "only approved members can be managers")
)

// Catalog errors
var (
	ErrCategoryNotFound         = NewCustomError(ErrResourceNotFound, "category not found")
	ErrCategoryAlreadyExists    = NewCustomError(ErrConflict, "a category with this label already exists")
	ErrCategoryInUse            = NewCustomError(ErrConflict, "this category cannot be deleted because events still use it").WithCode("CATEGORY_IN_USE")
	ErrSportEventNotFound       = NewCustomError(ErrResourceNotFound, "sport event not found")
	ErrTimeSlotNotFound         = NewCustomError(ErrResourceNotFound, "time slot not found")
	ErrAssociationEventNotFound = NewCustomError(ErrResourceNotFound, "association event not found")
)

// Registration errors
var (
	ErrRegistrationsClosed   = NewCustomError(ErrInvalidState, "registrations for this event are closed")
	ErrAlreadyRegistered     = NewCustomError(ErrConflict, "you are already registered for this event")
	ErrRegistrationNotFound  = NewCustomError(ErrResourceNotFound, "registration not found")
	ErrLoginRequiredForEvent = NewCustomError(ErrUnauthenticated, "this event is reserved for adherents, please log in")
	ErrReservedForAdherents  = NewCustomError(ErrPermissionDenied, "this event is reserved for adherents of the association")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewStateError creates a custom error for operations rejected by ordering or lifecycle rules
func NewStateError(message string) error {
	return &CustomError{
		Err:     ErrInvalidState,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying context details.
// Package-level sentinels stay untouched, and errors.Is still matches them.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	return &CustomError{Err: e, Message: e.Message, Code: e.Code, Details: details}
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// ValidationError carries every rule violation found in one input.
type ValidationError struct {
	Errors []string
}

// NewValidationError builds a ValidationError from a list of messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrValidationFailed.Error()
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Errors, "; ")
}

// Unwrap lets errors.Is(err, ErrValidationFailed) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
