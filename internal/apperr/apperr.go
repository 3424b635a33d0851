// Package apperr defines the error variant shared by the service and HTTP
// layers. Each error carries a Kind that decides its HTTP status and whether
// its message may be shown to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected fault. It is the zero value so that an
	// unclassified error is never reported as a client mistake.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input.
	KindValidation
	// KindNotFound means the requested id has no matching row.
	KindNotFound
	// KindStore is a query or connection failure.
	KindStore
	// KindTimeout means the store did not answer within the query timeout.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// HTTPStatus returns the status code a response for this kind uses.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is the tagged error returned by the service layer.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the response status for the error.
func (e *Error) HTTPStatus() int { return e.Kind.HTTPStatus() }

// PublicMessage returns the text that is safe to send to a client. Server
// side failures never expose their message or cause.
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return e.Message
	case KindTimeout:
		return "Request timed out"
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}

// Validation returns a KindValidation error with a client-facing message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error with a client-facing message.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Store wraps a store failure.
func Store(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// Timeout wraps a store call that ran past its deadline.
func Timeout(message string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: message, Err: err}
}

// Internal wraps an unexpected fault.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From extracts an *Error from err's chain. Any other error is reported as
// KindInternal. From returns nil for a nil err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	if e := From(err); e != nil {
		return e.Kind
	}
	return KindInternal
}
