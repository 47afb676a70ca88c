package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers know whether to retry, enqueue or
// surface immediately.
type ErrorKind string

const (
	// ErrorKindValidation covers bad input. Never retried.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindTransient covers network/timeout failures against external
	// services. Safe to retry or enqueue for later.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindTerminal covers explicit rejections from external services
	// (e.g. an invalid payment session). Retrying will not help.
	ErrorKindTerminal ErrorKind = "terminal"
)

// AppError carries an error kind alongside the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: ErrorKindValidation, Message: message}
}

func NewTransientError(message string, err error) *AppError {
	return &AppError{Kind: ErrorKindTransient, Message: message, Err: err}
}

func NewTerminalError(message string, err error) *AppError {
	return &AppError{Kind: ErrorKindTerminal, Message: message, Err: err}
}

// ErrInvalidBookingWindow is returned when the requested event date is already
// in the past.
var ErrInvalidBookingWindow = NewValidationError("invalid booking window: event date is in the past")

// KindOf extracts the error kind, defaulting to transient for unclassified
// errors so unknown failures stay retryable rather than being dropped.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindTransient
}

func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}

func IsTransient(err error) bool {
	return KindOf(err) == ErrorKindTransient
}

func IsTerminal(err error) bool {
	return KindOf(err) == ErrorKindTerminal
}
