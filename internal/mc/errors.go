package mc

import (
	"errors"
	"fmt"
)

// InputError represents a precondition failure detected before sampling.
//
// Input errors include:
//   - Invalid range: lower bound not strictly below upper bound
//   - Invalid function: integrand missing or not evaluable at a
//     representative point of the interval
//   - Invalid sample count: fewer than one sample requested
//
// InputError includes structured fields for diagnostics. There is no
// retry policy: these are caller errors, not transient failures.
type InputError struct {
	// Code identifies the error category.
	Code InputErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the request field that failed validation.
	Field string

	// Details contains additional context.
	Details map[string]string
}

// InputErrorCode categorizes input errors.
type InputErrorCode string

const (
	// ErrCodeInvalidRange indicates the interval is not strictly increasing.
	ErrCodeInvalidRange InputErrorCode = "INVALID_RANGE"

	// ErrCodeInvalidFunction indicates the integrand is missing or failed
	// to evaluate at a representative point.
	ErrCodeInvalidFunction InputErrorCode = "INVALID_FUNCTION"

	// ErrCodeInvalidSampleCount indicates the sample count is below one.
	ErrCodeInvalidSampleCount InputErrorCode = "INVALID_SAMPLE_COUNT"
)

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidRange returns true if the error is an invalid-range error.
// Uses errors.As to handle wrapped errors.
func IsInvalidRange(err error) bool {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeInvalidRange
	}
	return false
}

// IsInvalidFunction returns true if the error is an invalid-function error.
// Uses errors.As to handle wrapped errors.
func IsInvalidFunction(err error) bool {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeInvalidFunction
	}
	return false
}

// IsInvalidSampleCount returns true if the error is an invalid-sample-count
// error. Uses errors.As to handle wrapped errors.
func IsInvalidSampleCount(err error) bool {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeInvalidSampleCount
	}
	return false
}

// NewRangeError creates an InputError for a malformed interval.
func NewRangeError(a, b float64) *InputError {
	return &InputError{
		Code:    ErrCodeInvalidRange,
		Message: fmt.Sprintf("interval must satisfy a < b, got [%g, %g]", a, b),
		Field:   "A",
		Details: map[string]string{
			"a": fmt.Sprintf("%g", a),
			"b": fmt.Sprintf("%g", b),
		},
	}
}

// NewFunctionError creates an InputError for a non-evaluable integrand.
// cause may be nil when the integrand produced a non-finite value rather
// than an explicit error.
func NewFunctionError(message string, cause error) *InputError {
	ie := &InputError{
		Code:    ErrCodeInvalidFunction,
		Message: message,
		Field:   "F",
	}
	if cause != nil {
		ie.Details = map[string]string{"cause": cause.Error()}
	}
	return ie
}

// NewSampleCountError creates an InputError for a non-positive sample count.
func NewSampleCountError(samples int) *InputError {
	return &InputError{
		Code:    ErrCodeInvalidSampleCount,
		Message: fmt.Sprintf("sample count must be at least 1, got %d", samples),
		Field:   "Samples",
		Details: map[string]string{
			"samples": fmt.Sprintf("%d", samples),
		},
	}
}
