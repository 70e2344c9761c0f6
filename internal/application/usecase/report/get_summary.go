package report

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// GetSummaryInput represents the input for a single-period summary.
type GetSummaryInput struct {
	Buckets             *BucketSet
	Range               DateRange
	AnnualizationFactor decimal.Decimal
}

// GetSummaryOutput represents the dashboard summary payload.
type GetSummaryOutput struct {
	Figures     PeriodFigures    `json:"figures"`
	Inventory   InventoryTotals  `json:"inventory"`
	SkippedRows []SkippedRowView `json:"skipped_rows,omitempty"`
}

// SkippedRowView is the reporting view of a row the ingestion rejected.
type SkippedRowView struct {
	Source string `json:"source"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// GetSummaryUseCase aggregates a single date range into dashboard figures.
type GetSummaryUseCase struct{}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase() *GetSummaryUseCase {
	return &GetSummaryUseCase{}
}

// Execute queries the requested range and derives its ratios.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	if err := validateRange(input.Buckets, input.Range); err != nil {
		return nil, err
	}

	figures := figuresFor(input.Buckets, input.Range, input.AnnualizationFactor)

	output := &GetSummaryOutput{
		Figures:   figures,
		Inventory: input.Buckets.Inventory,
	}
	for _, skipped := range input.Buckets.Skipped {
		output.SkippedRows = append(output.SkippedRows, SkippedRowView{
			Source: string(skipped.Source),
			Index:  skipped.Index,
			Reason: skipped.Reason,
		})
	}

	slog.Debug("Summary computed",
		"start", figures.Aggregate.StartDate,
		"end", figures.Aggregate.EndDate,
		"skippedRows", len(output.SkippedRows),
	)

	return output, nil
}
