// Package errors defines the coded errors shared by the procmap CLI and
// HTTP API.
//
// Every failure that reaches a user carries a [Code]. The CLI prints the
// message and the API returns the code in its error body, with the HTTP
// status derived from the code by [HTTPStatus]:
//
//	err := errors.New(errors.ErrCodeInvalidInput, "edge %d: unknown node %d", i, to)
//	errors.Is(err, errors.ErrCodeInvalidInput) // true
//	errors.HTTPStatus(err)                     // 400
//
// Backend failures keep their cause for [errors.Unwrap]:
//
//	return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeCache   Code = "CACHE_ERROR"
	ErrCodeRender  Code = "RENDER_ERROR"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statuses maps codes to HTTP statuses. Codes not listed are 500.
var statuses = map[Code]int{
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeInvalidPath:   http.StatusBadRequest,
	ErrCodeInvalidFormat: http.StatusBadRequest,
	ErrCodeInvalidID:     http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeFileNotFound:  http.StatusNotFound,
	ErrCodeUnsupported:   http.StatusNotImplemented,
	ErrCodeStorage:       http.StatusServiceUnavailable,
	ErrCodeCache:         http.StatusServiceUnavailable,
}

// Error is a coded error. Cause is optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in the chain of err.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in the chain of err has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in the chain of err, or
// "" if there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code or cause. Uncoded errors
// are returned as is.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps the code of err to an HTTP status.
func HTTPStatus(err error) int {
	if status, ok := statuses[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
