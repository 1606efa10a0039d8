// Package apperr defines the error taxonomy surfaced over the RPC
// boundary. Handlers classify every failure into one of these kinds
// before responding; raw store or upstream errors never cross the
// boundary directly.
package apperr

import (
	"errors"
	"net/http"
)

// Code identifies the kind of failure in a machine-readable way.
type Code string

const (
	CodeMissingCredentials Code = "missing_credentials"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeValidation         Code = "validation_failed"
	CodeRateLimited        Code = "rate_limited"
	CodeUpstreamFailure    Code = "upstream_failure"
	CodeInternal           Code = "internal_error"
)

// Error is a classified application error. Message is safe to show to
// callers; Detail carries internal context and is only exposed in dev
// environments.
type Error struct {
	Code    Code
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

// WithDetail attaches internal diagnostic text and returns e.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

func newErr(code Code, status int, msg string) *Error {
	return &Error{Code: code, Status: status, Message: msg}
}

func MissingCredentials(msg string) *Error {
	return newErr(CodeMissingCredentials, http.StatusBadRequest, msg)
}

func InvalidCredentials() *Error {
	return newErr(CodeInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
}

func Unauthenticated() *Error {
	return newErr(CodeUnauthenticated, http.StatusUnauthorized, "authentication required")
}

func Forbidden(msg string) *Error {
	return newErr(CodeForbidden, http.StatusForbidden, msg)
}

func NotFound(msg string) *Error {
	return newErr(CodeNotFound, http.StatusNotFound, msg)
}

func Validation(msg string) *Error {
	return newErr(CodeValidation, http.StatusBadRequest, msg)
}

func RateLimited(msg string) *Error {
	return newErr(CodeRateLimited, http.StatusTooManyRequests, msg)
}

func Upstream(msg string) *Error {
	return newErr(CodeUpstreamFailure, http.StatusBadGateway, msg)
}

func Internal(msg string) *Error {
	return newErr(CodeInternal, http.StatusInternalServerError, msg)
}

// From returns err as an *Error, re-classifying anything unknown as an
// internal error so unvetted detail never leaks to callers.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("internal error").WithDetail(err.Error())
}
