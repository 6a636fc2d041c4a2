package utils

import (
	"fmt"
	"net/http"
)

// AppError classifies a failure into the service's error taxonomy:
// unauthorized, invalid_request, not_found, conflict, gateway_error and
// validation_failed, each carrying the HTTP status it maps to.
type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// UnauthorizedError creates an unauthorized error (missing/invalid session)
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, "unauthorized", message, err)
}

// InvalidRequestError creates an invalid_request error (malformed input)
func InvalidRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, "invalid_request", message, err)
}

// NotFoundError creates a not_found error (referenced entity absent)
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, "not_found", message, err)
}

// ConflictError creates a conflict error (idempotency race lost)
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, "conflict", message, err)
}

// GatewayErr creates a gateway_error (transient external payment failure)
func GatewayErr(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, "gateway_error", message, err)
}

// ValidationFailedError creates a validation_failed error carrying a promo
// reason tag as its message.
func ValidationFailedError(reason string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, "validation_failed", reason, err)
}

// GetAppError returns the AppError if the error is an AppError
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

// IsConflictError checks whether the error is the idempotency-race conflict
func IsConflictError(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == "conflict"
	}
	return false
}

// IsGatewayError checks whether the error is a transient gateway failure
func IsGatewayError(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == "gateway_error"
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
