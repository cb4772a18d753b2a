package ir

import (
	"errors"
	"fmt"
)

// Error is the error type returned for every contract violation in the
// simulation core. Errors are local and synchronous; nothing retries them.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes core errors.
type ErrorCode string

const (
	// ErrCodeDimension indicates a gate/qubit-count mismatch or an out of
	// range or duplicated register index.
	ErrCodeDimension ErrorCode = "DIMENSION"

	// ErrCodeQubitIndex indicates an unknown or duplicate qubit reference.
	ErrCodeQubitIndex ErrorCode = "QUBIT_INDEX"

	// ErrCodeUnknownGate indicates a gate kind outside the catalog.
	ErrCodeUnknownGate ErrorCode = "UNKNOWN_GATE"

	// ErrCodeInvalidArgument indicates a malformed argument such as
	// non-positive repetitions or a bad scale factor.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeInsufficientData indicates fewer than two distinct points for
	// a fit.
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"

	// ErrCodeNumericalInstability indicates norm or trace drift beyond
	// tolerance. It signals a bug, not a user error.
	ErrCodeNumericalInstability ErrorCode = "NUMERICAL_INSTABILITY"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewDimensionError creates a DIMENSION error.
func NewDimensionError(format string, args ...any) *Error {
	return newError(ErrCodeDimension, format, args...)
}

// NewQubitIndexError creates a QUBIT_INDEX error for the given qubit.
func NewQubitIndexError(q Qubit, format string, args ...any) *Error {
	e := newError(ErrCodeQubitIndex, format, args...)
	e.Details = map[string]string{"qubit": string(q)}
	return e
}

// NewUnknownGateError creates an UNKNOWN_GATE error.
func NewUnknownGateError(kind GateKind) *Error {
	e := newError(ErrCodeUnknownGate, "unsupported gate kind %q", string(kind))
	e.Details = map[string]string{"gate": string(kind)}
	return e
}

// NewInvalidArgument creates an INVALID_ARGUMENT error.
func NewInvalidArgument(format string, args ...any) *Error {
	return newError(ErrCodeInvalidArgument, format, args...)
}

// NewInsufficientDataError creates an INSUFFICIENT_DATA error.
func NewInsufficientDataError(format string, args ...any) *Error {
	return newError(ErrCodeInsufficientData, format, args...)
}

// NewNumericalInstabilityError creates a NUMERICAL_INSTABILITY error.
func NewNumericalInstabilityError(format string, args ...any) *Error {
	return newError(ErrCodeNumericalInstability, format, args...)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDimensionError reports whether err is a DIMENSION error.
// Uses errors.As to handle wrapped errors.
func IsDimensionError(err error) bool { return hasCode(err, ErrCodeDimension) }

// IsQubitIndexError reports whether err is a QUBIT_INDEX error.
func IsQubitIndexError(err error) bool { return hasCode(err, ErrCodeQubitIndex) }

// IsUnknownGateError reports whether err is an UNKNOWN_GATE error.
func IsUnknownGateError(err error) bool { return hasCode(err, ErrCodeUnknownGate) }

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgument(err error) bool { return hasCode(err, ErrCodeInvalidArgument) }

// IsInsufficientDataError reports whether err is an INSUFFICIENT_DATA error.
func IsInsufficientDataError(err error) bool { return hasCode(err, ErrCodeInsufficientData) }

// IsNumericalInstabilityError reports whether err is a NUMERICAL_INSTABILITY error.
func IsNumericalInstabilityError(err error) bool {
	return hasCode(err, ErrCodeNumericalInstability)
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
