package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeForbidden    Code = "forbidden"
	CodeUnauthorized Code = "unauthorized"
	CodeValidation   Code = "validation_failed"
	CodeConflict     Code = "conflict"
	CodeUpstream     Code = "upstream_failure"
)

// Error is the typed failure every service returns. Handlers map Status
// straight onto the HTTP response; Field is set for validation failures.
type Error struct {
	Status int
	Code   Code
	Field  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return string(e.Code)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code Code, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, CodeForbidden, errors.New(msg))
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, errors.New(msg))
}

func Validation(field, msg string) *Error {
	e := New(http.StatusBadRequest, CodeValidation, fmt.Errorf("%s: %s", field, msg))
	e.Field = field
	return e
}

func Conflict(msg string) *Error {
	return New(http.StatusConflict, CodeConflict, errors.New(msg))
}

// Upstream wraps an external collaborator failure. The wrapped detail is
// meant for logs only; handlers report it generically.
func Upstream(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstream, err)
}

func is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

func IsNotFound(err error) bool     { return is(err, CodeNotFound) }
func IsForbidden(err error) bool    { return is(err, CodeForbidden) }
func IsUnauthorized(err error) bool { return is(err, CodeUnauthorized) }
func IsValidation(err error) bool   { return is(err, CodeValidation) }
func IsConflict(err error) bool     { return is(err, CodeConflict) }
func IsUpstream(err error) bool     { return is(err, CodeUpstream) }
