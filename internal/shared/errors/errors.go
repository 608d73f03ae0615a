package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for the appointment domain. Services match on these
// with errors.Is; the HTTP layer only reads Code and HTTPStatus.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
)

// AppError carries a domain error kind together with its wire shape
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind error, code string, status int, message string) *AppError {
	return &AppError{
		Err:        kind,
		Message:    message,
		Code:       code,
		HTTPStatus: status,
	}
}

// NotFound reports a missing resource, keeping the reference in Details
func NotFound(resource string, id string) *AppError {
	err := newAppError(ErrNotFound, "NOT_FOUND", http.StatusNotFound,
		fmt.Sprintf("%s not found", resource))
	err.Details = map[string]string{"resource": resource, "id": id}
	return err
}

// Unauthorized reports a missing or bad credential
func Unauthorized(message string) *AppError {
	return newAppError(ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized, message)
}

// Forbidden reports an authenticated patient acting outside their own
// records
func Forbidden(message string) *AppError {
	return newAppError(ErrForbidden, "FORBIDDEN", http.StatusForbidden, message)
}

// BadRequest reports a request the booking rules reject
func BadRequest(message string) *AppError {
	return newAppError(ErrBadRequest, "BAD_REQUEST", http.StatusBadRequest, message)
}

// Validation reports a malformed request with per-field details
func Validation(message string, details map[string]string) *AppError {
	err := newAppError(ErrValidation, "VALIDATION_ERROR", http.StatusBadRequest, message)
	err.Details = details
	return err
}

// Conflict reports a slot or uniqueness collision
func Conflict(message string) *AppError {
	return newAppError(ErrConflict, "CONFLICT", http.StatusConflict, message)
}

// Internal reports a storage or infrastructure failure, keeping the
// cause for logs while the wire message stays generic
func Internal(err error) *AppError {
	return newAppError(err, "INTERNAL_ERROR", http.StatusInternalServerError,
		"internal server error")
}

// Wrap prefixes context onto an error. An AppError keeps its kind,
// code and status; anything else becomes an internal error.
func Wrap(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}
	return newAppError(err, "INTERNAL_ERROR", http.StatusInternalServerError, message)
}
