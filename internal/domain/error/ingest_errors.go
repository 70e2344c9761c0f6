// Package error defines domain-specific errors for the Store Ledger application.
package error

import "errors"

// Ingestion domain errors.
var (
	// ErrSchemaMismatch is returned when a file structurally does not match
	// the schema it was submitted as (wrong delimiter, too few columns).
	ErrSchemaMismatch = errors.New("file does not match the declared schema")

	// ErrUnknownSource is returned when a file is submitted under an
	// unrecognized source kind.
	ErrUnknownSource = errors.New("unknown source kind")

	// ErrSourceUnavailable is returned when a file source fails to deliver
	// content. The engine never retries; retry policy belongs to the source.
	ErrSourceUnavailable = errors.New("file source unavailable")

	// ErrEmptyBatch is returned when an ingest request carries no files.
	ErrEmptyBatch = errors.New("at least one source file is required")

	// ErrWorkbookUnreadable is returned when a workbook cannot be opened.
	ErrWorkbookUnreadable = errors.New("workbook cannot be read")
)

// IngestErrorCode defines error codes for ingestion errors.
// Format: ING-XXYYYY where XX is category and YYYY is specific error.
type IngestErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyBatch    IngestErrorCode = "ING-010001"
	ErrCodeUnknownSource IngestErrorCode = "ING-010002"

	// Schema errors (02XXXX)
	ErrCodeSchemaMismatch     IngestErrorCode = "ING-020001"
	ErrCodeWorkbookUnreadable IngestErrorCode = "ING-020002"

	// Source errors (03XXXX)
	ErrCodeSourceUnavailable IngestErrorCode = "ING-030001"

	// Throttling (04XXXX)
	ErrCodeRateLimited IngestErrorCode = "ING-040001"

	// Internal errors (99XXXX)
	ErrCodeIngestInternalError IngestErrorCode = "ING-990001"
)

// IngestError represents an ingestion error with code and message.
type IngestError struct {
	Code    IngestErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *IngestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError with the given code and message.
func NewIngestError(code IngestErrorCode, message string, err error) *IngestError {
	return &IngestError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
