package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal marks unexpected failures that should not leak details to clients.
var ErrInternal = errors.New("internal error")

// ErrVersionConflict indicates an optimistic concurrency check failed.
var ErrVersionConflict = errors.New("version conflict")

// ErrInvalidStatusTransition indicates a reconciliation status change is not allowed.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// AppError carries an HTTP-ish status code and a human message alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError reports that the named entity does not exist, e.g. NewNotFoundError("account", id).
func NewNotFoundError(entity, id string) *AppError {
	msg := fmt.Sprintf("%s not found", entity)
	if id != "" {
		msg = fmt.Sprintf("%s %s not found", entity, id)
	}
	return &AppError{Code: http.StatusNotFound, Message: msg, Err: ErrNotFound}
}

// NewValidationError reports user-correctable input problems.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewDuplicateError reports a uniqueness violation.
func NewDuplicateError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrDuplicate}
}

// NewConflictError reports that the resource is in a state that forbids the operation.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// Message returns the client-facing message of err when it is (or wraps) an AppError.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
