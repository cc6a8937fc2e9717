package errors

import (
	"errors"
	"net/http"
	"strconv"
)

// ValidationError reports a payload whose shape does not match the verb.
// It is raised before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation creates a ValidationError
func Validation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse is the server response carried by a TransportError
type ErrorResponse struct {
	StatusCode int
	Header     http.Header
	// Data is the decoded response body
	Data any
}

// TransportError is a failure raised by an HTTP client. Response is nil when
// the request never produced a response (dial error, timeout, canceled ctx).
type TransportError struct {
	Method   string
	URL      string
	Response *ErrorResponse
	cause    error
}

// NewTransportError creates a TransportError. resp may be nil.
func NewTransportError(method, url string, resp *ErrorResponse, cause error) *TransportError {
	return &TransportError{
		Method:   method,
		URL:      url,
		Response: resp,
		cause:    cause,
	}
}

func (e *TransportError) Error() string {
	prefix := e.Method + " " + e.URL + ": "
	if e.Response != nil {
		msg := "request failed with status code " + strconv.Itoa(e.Response.StatusCode)
		if m, ok := e.Message(); ok && m != "" {
			msg += ": " + m
		}
		return prefix + msg
	}
	if e.cause != nil {
		return prefix + e.cause.Error()
	}
	return prefix + "request failed"
}

func (e *TransportError) Unwrap() error {
	return e.cause
}

// StatusCode returns the response status code, or 0 without a response
func (e *TransportError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Message returns the "message" field of the response body if present
func (e *TransportError) Message() (string, bool) {
	if e.Response == nil {
		return "", false
	}

	switch data := e.Response.Data.(type) {
	case map[string]any:
		if m, ok := data["message"].(string); ok {
			return m, true
		}
	case map[string]string:
		if m, ok := data["message"]; ok {
			return m, true
		}
	}
	return "", false
}

// MessageError replaces a TransportError when only the server message should
// reach the caller. Error returns exactly that message.
type MessageError struct {
	Message string
}

func (e *MessageError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
