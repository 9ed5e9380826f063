package common

import (
	"errors"
	"net/http"
)

// ErrorKind classifies boundary failures for status mapping and logging.
type ErrorKind string

const (
	// KindValidation marks a required field missing or malformed on input.
	KindValidation ErrorKind = "validation"
	// KindIntegrity marks a signature or hash mismatch on a counterpart message.
	KindIntegrity ErrorKind = "integrity"
	// KindConfiguration marks missing merchant credentials at call time.
	KindConfiguration ErrorKind = "configuration"
	// KindUnexpected covers everything else.
	KindUnexpected ErrorKind = "unexpected"
)

// AppError represents an error with an attached kind and HTTP status.
type AppError struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Validation builds a 400 validation error with a field-naming message.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Integrity builds a tamper-detection error. Status varies per surface
// (403 on callbacks, 400 on webhooks), so callers pass it in.
func Integrity(message string, status int) *AppError {
	return &AppError{Kind: KindIntegrity, Message: message, HTTPStatus: status}
}

// Configuration builds a fatal credential error. The public message stays
// generic; the cause is kept for server-side logging only.
func Configuration(err error) *AppError {
	return &AppError{Kind: KindConfiguration, Message: "payment service unavailable", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// Unexpected wraps an arbitrary failure with a generic public message.
func Unexpected(err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: "internal error", HTTPStatus: http.StatusInternalServerError, Err: err}
}

// AsAppError extracts an AppError from err, or wraps it as unexpected.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}
