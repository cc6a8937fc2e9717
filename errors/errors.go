package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	UnknownCode    = 500
	FieldSeparator = ", "
	CausePrefix    = "cause="
)

// Status carries the code and message of a structured error
type Status struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Error is a structured error with a code, message and optional cause.
// It is used for failures that happen outside a request, such as loading
// configuration.
type Error struct {
	Status
	cause error
}

// Error returns "code=<code>, message=<message>[, cause=<cause>]"
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("code=")
	msg.WriteString(strconv.Itoa(e.Code))
	msg.WriteString(FieldSeparator)
	msg.WriteString("message=")
	msg.WriteString(e.Message)

	if e.cause != nil {
		msg.WriteString(FieldSeparator)
		msg.WriteString(CausePrefix)
		msg.WriteString(e.cause.Error())
	}

	return msg.String()
}

// Unwrap returns the cause of the error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of the error with cause attached
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	return &Error{Status: e.Status, cause: cause}
}

// Is reports whether err is an *Error with the same code and message
func (e *Error) Is(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return e.Code == ge.Code && e.Message == ge.Message
	}
	return false
}

// GetCode returns the error code
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message
func (e *Error) GetMessage() string {
	return e.Message
}

// New creates a new error with the given code and formatted message
func New(code int, format string, args ...any) *Error {
	var message string
	if len(args) == 0 {
		message = format
	} else {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Status: Status{
			Code:    code,
			Message: message,
		},
	}
}

// FromError converts a generic error to *Error
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}

	var te *TransportError
	if errors.As(err, &te) && te.Response != nil {
		msg, _ := te.Message()
		return New(te.Response.StatusCode, "%s", msg).WithCause(err)
	}

	return New(UnknownCode, "%v", err)
}

// Wrap wraps err with a code and message, returning nil for a nil err
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}

	return New(code, format, args...).WithCause(err)
}
