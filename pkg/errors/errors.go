// Package errors defines the sentinel errors shared across the searcher and
// maps them to HTTP status codes for the query service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidFormat  = errors.New("invalid index format")
	ErrUnknownVersion = errors.New("unknown index version")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
)

// AppError attaches a message and an HTTP status to a sentinel error.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with a status code and message.
func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Newf is New with a format string.
func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// HTTPStatusCode resolves err to the HTTP status the query service should
// return.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrUnknownVersion):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
