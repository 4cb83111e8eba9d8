package errors

import (
	"errors"
	"fmt"
)

// Re-export the standard library helpers so callers only import one errors package.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error extends the basic error interface with a stable code.
type Error interface {
	error
	Code() string
	Unwrap() error
}

// AppError is the default Error implementation.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Code() string {
	return e.code
}

func (e *AppError) Unwrap() error {
	return e.err
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, err error) *AppError {
	return &AppError{
		code:    code,
		message: message,
		err:     err,
	}
}

// Newf creates a new application error with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return NewAppError(code, fmt.Sprintf(format, args...), nil)
}

// Wrap wraps an existing error, keeping its code when it already is an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return NewAppError(appErr.Code(), message, err)
	}

	return NewAppError(ErrInternal, message, err)
}

// CodeOf returns the code carried by err, or ErrInternal for plain errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code()
	}
	return ErrInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
