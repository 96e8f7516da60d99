package board

import (
	"errors"
	"net/http"
)

// Code is a stable identifier mapped to an HTTP status
type Code int

const (
	CodeInternal      Code = iota // Internal or unspecified error.
	CodeInvalidFormat             // Request body could not be decoded.
	CodeInvalidInput              // Request body decoded but holds unusable values.
	CodeNotFound                  // Unknown file id.
)

func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "INVALID_FORMAT"
	case CodeInvalidInput:
		return "INVALID_INPUT"
	case CodeNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// Error carries a user-facing message and a code next to the wrapped cause
type Error struct {
	err  error
	msg  string
	code Code
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Code() Code { return e.code }

func (e *Error) Msg() string { return e.msg }

// StatusCode maps the error code to an HTTP status code
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newInvalidFormat(err error) error {
	return &Error{err: err, msg: "invalid request body", code: CodeInvalidFormat}
}

func newInvalidInput(msg string) error {
	return &Error{msg: msg, code: CodeInvalidInput}
}

func newNotFound(msg string) error {
	return &Error{msg: msg, code: CodeNotFound}
}

// asError classifies any error, treating unknown ones as internal
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{err: err, msg: "internal error", code: CodeInternal}
}
