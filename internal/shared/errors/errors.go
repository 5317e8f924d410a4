// Package errors provides application-level error types and utilities.
// Every rejection produced by the ticket and token lifecycle cores carries
// a stable machine-readable type plus a human-readable message so the
// calling layer can localize it without re-deriving the reason.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation_error"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeUnauthorized      ErrorType = "unauthorized"
	ErrorTypeForbidden         ErrorType = "forbidden"
	ErrorTypeInternal          ErrorType = "internal_error"
	ErrorTypeBadRequest        ErrorType = "bad_request"
	ErrorTypeInvalidTransition ErrorType = "invalid_transition"
	ErrorTypeMissingField      ErrorType = "missing_required_field"
	ErrorTypeInvalidScope      ErrorType = "invalid_scope"
	ErrorTypeTokenExpired      ErrorType = "token_expired"
	ErrorTypeTokenInactive     ErrorType = "token_inactive"
	ErrorTypeConflictingState  ErrorType = "conflicting_state"
	ErrorTypeStore             ErrorType = "store_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details...)
}

// NewForbiddenError creates a forbidden error. The message is safe to show
// to end users; role/assignment detail for the audit log goes in details.
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// NewInvalidTransitionError creates an error for a status-graph violation,
// naming the current and requested status.
func NewInvalidTransitionError(from, to string) *AppError {
	return newAppError(
		ErrorTypeInvalidTransition,
		http.StatusConflict,
		fmt.Sprintf("cannot transition ticket from %s to %s", from, to),
	)
}

// NewMissingFieldError creates an error for a transition payload that lacks
// a field the requested transition requires.
func NewMissingFieldError(field string) *AppError {
	return newAppError(
		ErrorTypeMissingField,
		http.StatusBadRequest,
		fmt.Sprintf("%s is required", field),
	)
}

// NewInvalidScopeError creates an error for a client/site mismatch
func NewInvalidScopeError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidScope, http.StatusBadRequest, message, details...)
}

// NewTokenExpiredError creates an error for an expired installation token
func NewTokenExpiredError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTokenExpired, http.StatusForbidden, message, details...)
}

// NewTokenInactiveError creates an error for a deactivated installation token
func NewTokenInactiveError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeTokenInactive, http.StatusForbidden, message, details...)
}

// NewConflictingStateError creates an error for an optimistic-concurrency
// loss: the record changed between the caller's read and write.
func NewConflictingStateError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflictingState, http.StatusConflict, message, details...)
}

// NewStoreError wraps a collaborator failure, preserving the cause for logging
func NewStoreError(message string, cause error) *AppError {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return newAppError(ErrorTypeStore, http.StatusInternalServerError, message, detail)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsForbiddenError checks if the error is a forbidden error
func IsForbiddenError(err error) bool {
	return isType(err, ErrorTypeForbidden)
}

// IsInvalidTransitionError checks if the error is a status-graph violation
func IsInvalidTransitionError(err error) bool {
	return isType(err, ErrorTypeInvalidTransition)
}

// IsMissingFieldError checks if the error is a missing required field error
func IsMissingFieldError(err error) bool {
	return isType(err, ErrorTypeMissingField)
}

// IsConflictingStateError checks if the error is an optimistic-concurrency loss
func IsConflictingStateError(err error) bool {
	return isType(err, ErrorTypeConflictingState)
}

// IsInvalidScopeError checks if the error is a client/site scope violation
func IsInvalidScopeError(err error) bool {
	return isType(err, ErrorTypeInvalidScope)
}

// IsTokenExpiredError checks if the error reports an expired token
func IsTokenExpiredError(err error) bool {
	return isType(err, ErrorTypeTokenExpired)
}

// IsTokenInactiveError checks if the error reports a deactivated token
func IsTokenInactiveError(err error) bool {
	return isType(err, ErrorTypeTokenInactive)
}
