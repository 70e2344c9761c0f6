// Package error defines domain-specific errors for the Store Ledger application.
package error

import "errors"

// Advisor domain errors.
var (
	// ErrEmptyQuestion is returned when an advisor question is blank.
	ErrEmptyQuestion = errors.New("question is required")

	// ErrAdviceUnavailable is returned when the AI advice backend fails and
	// no canned answer applies.
	ErrAdviceUnavailable = errors.New("advice service unavailable")
)

// AdvisorErrorCode defines error codes for advisor errors.
// Format: ADV-XXYYYY where XX is category and YYYY is specific error.
type AdvisorErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyQuestion AdvisorErrorCode = "ADV-010001"

	// Upstream errors (02XXXX)
	ErrCodeAdviceUnavailable AdvisorErrorCode = "ADV-020001"

	// Internal errors (99XXXX)
	ErrCodeAdvisorInternalError AdvisorErrorCode = "ADV-990001"
)

// AdvisorError represents an advisor error with code and message.
type AdvisorError struct {
	Code    AdvisorErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AdvisorError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AdvisorError) Unwrap() error {
	return e.Err
}

// NewAdvisorError creates a new AdvisorError with the given code and message.
func NewAdvisorError(code AdvisorErrorCode, message string, err error) *AdvisorError {
	return &AdvisorError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
