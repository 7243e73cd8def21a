package domain

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL"
)

// AppError is the error type returned across the store, app and adapters.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches any AppError of the same type, so errors.Is(err, ErrNotFound) works
// for every not-found error regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type && t.Message == ""
}

var (
	ErrNotFound     = &AppError{Type: ErrorTypeNotFound}
	ErrValidation   = &AppError{Type: ErrorTypeValidation}
	ErrConflict     = &AppError{Type: ErrorTypeConflict}
	ErrUnauthorized = &AppError{Type: ErrorTypeUnauthorized}
)

func NotFound(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: msg}
}

func Internal(msg string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: msg, Err: err}
}

// TypeOf reports the AppError type carried by err, or INTERNAL.
func TypeOf(err error) ErrorType {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Type
	}
	return ErrorTypeInternal
}
