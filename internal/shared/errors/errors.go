package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "VALIDATION_ERROR"
	ErrorTypeInfrastructure       ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeAuthentication       ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorizationExpired ErrorType = "AUTHORIZATION_EXPIRED_ERROR"
	ErrorTypeRefresh              ErrorType = "REFRESH_ERROR"
	ErrorTypeProfileProvisioning  ErrorType = "PROFILE_PROVISIONING_ERROR"
	ErrorTypeBookingLookup        ErrorType = "BOOKING_LOOKUP_ERROR"
	ErrorTypeReconciliation       ErrorType = "RECONCILIATION_ERROR"
	ErrorTypeSuspension           ErrorType = "SUSPENSION_ERROR"
	ErrorTypeNotFound             ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal             ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
)

// Session and payment flow errors
var (
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrAccountSuspended    = errors.New("account suspended")
	ErrNoBookingReference  = errors.New("no booking reference available")
	ErrReconciliation      = errors.New("payment reconciliation failed")
	ErrProfileProvisioning = errors.New("profile provisioning failed")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, http.StatusInternalServerError)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized)
}

// NewAuthorizationExpiredError creates an error for an expired authorization
// that is eligible for a silent refresh
func NewAuthorizationExpiredError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorizationExpired, message, http.StatusUnauthorized)
}

// NewRefreshError creates a terminal refresh failure error. Callers are
// expected to tear the session down when they see this type.
func NewRefreshError(message string) *AppError {
	return NewAppError(ErrorTypeRefresh, message, http.StatusUnauthorized)
}

// NewProfileProvisioningError creates a non-fatal profile provisioning error
func NewProfileProvisioningError(message string) *AppError {
	return NewAppError(ErrorTypeProfileProvisioning, message, http.StatusInternalServerError)
}

// NewBookingLookupError creates an error for a payment check with no usable
// booking identifiers
func NewBookingLookupError(message string) *AppError {
	return NewAppError(ErrorTypeBookingLookup, message, http.StatusBadRequest)
}

// NewReconciliationError creates an error for a failed payment reconciliation call
func NewReconciliationError(message string) *AppError {
	return NewAppError(ErrorTypeReconciliation, message, http.StatusBadGateway)
}

// NewSuspensionError creates an account-suspension error carrying the
// suspension window and reason supplied by the upstream API
func NewSuspensionError(message, until, reason string) *AppError {
	return NewAppError(ErrorTypeSuspension, message, http.StatusForbidden).
		WithDetail("until", until).
		WithDetail("reason", reason)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeAuthentication
	}
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsAuthorizationExpired checks if an error indicates an expired
// authorization that may be refreshed
func IsAuthorizationExpired(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeAuthorizationExpired
	}
	return errors.Is(err, ErrTokenExpired)
}

// IsRefresh checks if an error is a terminal refresh failure
func IsRefresh(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeRefresh
	}
	return errors.Is(err, ErrRefreshFailed)
}

// IsSuspension checks if an error is an account suspension signal
func IsSuspension(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeSuspension
	}
	return errors.Is(err, ErrAccountSuspended)
}

// IsBookingLookup checks if an error means no booking identifiers were available
func IsBookingLookup(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeBookingLookup
	}
	return errors.Is(err, ErrNoBookingReference)
}

// IsReconciliation checks if an error is a payment reconciliation failure
func IsReconciliation(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeReconciliation
	}
	return errors.Is(err, ErrReconciliation)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}
