// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// AdviceRequest carries a free-form question plus the period comparison
// figures the answer must be grounded on. Figures are preformatted strings so
// the advice backend never touches raw buckets.
type AdviceRequest struct {
	Question       string
	PeriodLabel    string
	TotalSales     string
	TotalExpenses  string
	TotalPayroll   string
	GrossMarginPct string
	NetProfit      string
	SalesChangePct string
}

// AdviceService generates a narrative answer for a financial question.
// Implementations may call an external model; availability is optional and
// callers fall back to canned keyword answers when the service is not
// configured.
type AdviceService interface {
	// IsAvailable reports whether the backend is configured and usable.
	IsAvailable() bool

	// Answer produces a short narrative answer grounded on the request figures.
	Answer(ctx context.Context, request *AdviceRequest) (string, error)
}
