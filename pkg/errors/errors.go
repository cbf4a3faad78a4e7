// Package errors provides structured error types for jyotish.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Classification into input, ephemeris and invariant failures
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// Every code belongs to one of three kinds:
//   - input: the caller supplied something unusable; surfaced verbatim
//   - ephemeris: the astronomical backend failed; wrapped with context
//   - invariant: a computation produced an impossible state; fail fast
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCoordinates, "latitude %v out of range", lat)
//	if errors.KindOf(err) == errors.KindInput {
//	    // Reject the request
//	}
//
//	// Wrap backend errors
//	err := errors.Wrap(errors.ErrCodeEphemeris, origErr, "position of %s", body)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinates Code = "INVALID_COORDINATES"
	ErrCodeInvalidTimezone    Code = "INVALID_TIMEZONE"
	ErrCodeInvalidDate        Code = "INVALID_DATE"
	ErrCodeDateOutOfRange     Code = "DATE_OUT_OF_RANGE"
	ErrCodeInvalidOption      Code = "INVALID_OPTION"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeJobNotFound Code = "JOB_NOT_FOUND"

	// Ephemeris backend errors
	ErrCodeEphemeris Code = "EPHEMERIS_ERROR"

	// Invariant violations
	ErrCodeInvariant     Code = "INVARIANT_VIOLATION"
	ErrCodeUnknownChart  Code = "UNKNOWN_CHART"
	ErrCodeMissingPlanet Code = "MISSING_PLANET"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Kind groups error codes by how callers should react to them.
type Kind int

const (
	KindUnknown Kind = iota
	KindInput
	KindNotFound
	KindEphemeris
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindEphemeris:
		return "ephemeris"
	case KindInvariant:
		return "invariant"
	}
	return "unknown"
}

// Kind returns the category of the code.
func (c Code) Kind() Kind {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidCoordinates, ErrCodeInvalidTimezone,
		ErrCodeInvalidDate, ErrCodeDateOutOfRange, ErrCodeInvalidOption:
		return KindInput
	case ErrCodeNotFound, ErrCodeJobNotFound:
		return KindNotFound
	case ErrCodeEphemeris:
		return KindEphemeris
	case ErrCodeInvariant, ErrCodeUnknownChart, ErrCodeMissingPlanet:
		return KindInvariant
	}
	return KindUnknown
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Input is shorthand for an INVALID_INPUT error.
func Input(format string, args ...any) *Error {
	return New(ErrCodeInvalidInput, format, args...)
}

// Invariant is shorthand for an INVARIANT_VIOLATION error.
func Invariant(format string, args ...any) *Error {
	return New(ErrCodeInvariant, format, args...)
}
