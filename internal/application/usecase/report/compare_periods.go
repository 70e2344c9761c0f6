package report

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// ComparePeriodsInput represents the input for a period comparison.
type ComparePeriodsInput struct {
	Buckets *BucketSet
	Current DateRange

	// Mode derives the reference range from the current one; an explicit
	// Reference overrides it.
	Mode      ComparisonMode
	Reference *DateRange

	// AnnualizationFactor scales the period's sales to a yearly figure for
	// inventory turnover (12 for a one-month range). Callers must choose it;
	// there is no hidden default.
	AnnualizationFactor decimal.Decimal
}

// PeriodFigures bundles a period aggregate with its derived ratios.
type PeriodFigures struct {
	Aggregate         *PeriodAggregate `json:"aggregate"`
	GrossMarginPct    decimal.Decimal  `json:"gross_margin_pct"`
	NetProfit         decimal.Decimal  `json:"net_profit"`
	LaborCostPct      decimal.Decimal  `json:"labor_cost_pct"`
	InventoryTurnover decimal.Decimal  `json:"inventory_turnover"`
}

// Deltas holds the period-over-period movement of the headline figures.
// Percent changes follow the zero-previous-is-zero convention; the margin
// moves in points.
type Deltas struct {
	SalesChangePct   decimal.Decimal `json:"sales_change_pct"`
	ExpenseChangePct decimal.Decimal `json:"expense_change_pct"`
	CostChangePct    decimal.Decimal `json:"cost_change_pct"`
	PayrollChangePct decimal.Decimal `json:"payroll_change_pct"`
	ProfitChangePct  decimal.Decimal `json:"profit_change_pct"`
	MarginChangePts  decimal.Decimal `json:"margin_change_pts"`
}

// ComparePeriodsOutput represents the assembled comparison payload.
type ComparePeriodsOutput struct {
	Mode     ComparisonMode `json:"mode"`
	Current  PeriodFigures  `json:"current"`
	Previous PeriodFigures  `json:"previous"`
	Deltas   Deltas         `json:"deltas"`

	SkippedRows int `json:"skipped_rows"`
}

// ComparePeriodsUseCase runs two range queries and derives deltas.
type ComparePeriodsUseCase struct{}

// NewComparePeriodsUseCase creates a new ComparePeriodsUseCase instance.
func NewComparePeriodsUseCase() *ComparePeriodsUseCase {
	return &ComparePeriodsUseCase{}
}

// Execute queries the current and reference ranges and assembles the
// comparison payload.
func (uc *ComparePeriodsUseCase) Execute(ctx context.Context, input ComparePeriodsInput) (*ComparePeriodsOutput, error) {
	if err := validateRange(input.Buckets, input.Current); err != nil {
		return nil, err
	}

	reference := input.Reference
	if reference == nil {
		shifted, err := ShiftRange(input.Current, input.Mode)
		if err != nil {
			return nil, err
		}
		reference = &shifted
	}

	current := figuresFor(input.Buckets, input.Current, input.AnnualizationFactor)
	previous := figuresFor(input.Buckets, *reference, input.AnnualizationFactor)

	output := &ComparePeriodsOutput{
		Mode:     input.Mode,
		Current:  current,
		Previous: previous,
		Deltas: Deltas{
			SalesChangePct:   PercentChange(current.Aggregate.TotalSales, previous.Aggregate.TotalSales),
			ExpenseChangePct: PercentChange(current.Aggregate.TotalExpenses, previous.Aggregate.TotalExpenses),
			CostChangePct:    PercentChange(current.Aggregate.TotalCosts, previous.Aggregate.TotalCosts),
			PayrollChangePct: PercentChange(current.Aggregate.TotalPayroll, previous.Aggregate.TotalPayroll),
			ProfitChangePct:  PercentChange(current.NetProfit, previous.NetProfit),
			MarginChangePts:  PointChange(current.GrossMarginPct, previous.GrossMarginPct),
		},
		SkippedRows: len(input.Buckets.Skipped),
	}

	slog.Debug("Period comparison computed",
		"currentStart", current.Aggregate.StartDate,
		"currentEnd", current.Aggregate.EndDate,
		"referenceStart", previous.Aggregate.StartDate,
		"referenceEnd", previous.Aggregate.EndDate,
		"mode", input.Mode,
	)

	return output, nil
}

func figuresFor(buckets *BucketSet, r DateRange, annualizationFactor decimal.Decimal) PeriodFigures {
	agg := buckets.QueryRange(r.Start, r.End)
	return PeriodFigures{
		Aggregate:         agg,
		GrossMarginPct:    GrossMarginPct(agg.TotalSales, agg.TotalCosts),
		NetProfit:         NetProfit(agg.TotalSales, agg.TotalCosts, agg.TotalPayroll, agg.TotalExpenses),
		LaborCostPct:      LaborCostPct(agg.TotalPayroll, agg.TotalSales),
		InventoryTurnover: InventoryTurnover(agg.TotalSales, agg.TotalInventoryValue, annualizationFactor),
	}
}

func validateRange(buckets *BucketSet, r DateRange) error {
	if buckets == nil {
		return domainerror.NewReportError(
			domainerror.ErrCodeNoDataIngested,
			"no data has been ingested yet",
			domainerror.ErrNoDataIngested,
		)
	}
	if r.Start.IsZero() {
		return domainerror.NewReportError(
			domainerror.ErrCodeMissingStartDate,
			"start_date is required",
			domainerror.ErrMissingStartDate,
		)
	}
	if r.End.IsZero() {
		return domainerror.NewReportError(
			domainerror.ErrCodeMissingEndDate,
			"end_date is required",
			domainerror.ErrMissingEndDate,
		)
	}
	if r.End.Before(r.Start) {
		return domainerror.NewReportError(
			domainerror.ErrCodeInvalidDateRange,
			"end_date must not be before start_date",
			domainerror.ErrInvalidDateRange,
		)
	}
	return nil
}
