package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// ExportCSVInput represents the input for a daily CSV export.
type ExportCSVInput struct {
	Buckets *BucketSet
	Range   DateRange
}

// ExportCSVOutput carries the rendered document and a suggested filename.
type ExportCSVOutput struct {
	Filename string
	Content  []byte
}

// ExportCSVUseCase flattens the day buckets of a range into a CSV document,
// one row per calendar day plus a closing totals row.
type ExportCSVUseCase struct{}

// NewExportCSVUseCase creates a new ExportCSVUseCase instance.
func NewExportCSVUseCase() *ExportCSVUseCase {
	return &ExportCSVUseCase{}
}

// Execute renders the range. Days without any record are written as zero rows
// so the output always covers the full calendar span.
func (uc *ExportCSVUseCase) Execute(ctx context.Context, input ExportCSVInput) (*ExportCSVOutput, error) {
	if err := validateRange(input.Buckets, input.Range); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"date", "sales", "costs", "expenses", "payroll", "baskets", "units", "hours"}
	if err := writer.Write(header); err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to render export",
			err,
		)
	}

	totals := newPeriodAggregate(input.Range.Start, input.Range.End)
	for _, day := range BuildCalendar(input.Range.Start, input.Range.End) {
		row := emptyExportRow(day.DateKey)
		if bucket, ok := input.Buckets.Buckets[day.DateKey]; ok {
			totals.TotalSales = totals.TotalSales.Add(bucket.Sales)
			totals.TotalCosts = totals.TotalCosts.Add(bucket.Costs)
			totals.TotalExpenses = totals.TotalExpenses.Add(bucket.Expenses)
			totals.TotalPayroll = totals.TotalPayroll.Add(bucket.Payroll)
			totals.TransactionCount += bucket.Baskets
			totals.UnitCount += bucket.Units
			totals.TotalHours = totals.TotalHours.Add(bucket.Hours)
			row = []string{
				day.DateKey,
				bucket.Sales.StringFixed(2),
				bucket.Costs.StringFixed(2),
				bucket.Expenses.StringFixed(2),
				bucket.Payroll.StringFixed(2),
				strconv.FormatInt(bucket.Baskets, 10),
				strconv.FormatInt(bucket.Units, 10),
				bucket.Hours.StringFixed(2),
			}
		}
		if err := writer.Write(row); err != nil {
			return nil, domainerror.NewReportError(
				domainerror.ErrCodeReportInternalError,
				"failed to render export",
				err,
			)
		}
	}

	totalsRow := []string{
		"total",
		totals.TotalSales.StringFixed(2),
		totals.TotalCosts.StringFixed(2),
		totals.TotalExpenses.StringFixed(2),
		totals.TotalPayroll.StringFixed(2),
		strconv.FormatInt(totals.TransactionCount, 10),
		strconv.FormatInt(totals.UnitCount, 10),
		totals.TotalHours.StringFixed(2),
	}
	if err := writer.Write(totalsRow); err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to render export",
			err,
		)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternalError,
			"failed to render export",
			err,
		)
	}

	startKey := input.Range.Start.Format("2006-01-02")
	endKey := input.Range.End.Format("2006-01-02")
	return &ExportCSVOutput{
		Filename: "daily-summary-" + startKey + "-" + endKey + ".csv",
		Content:  buf.Bytes(),
	}, nil
}

func emptyExportRow(dateKey string) []string {
	zero := decimal.Zero.StringFixed(2)
	return []string{dateKey, zero, zero, zero, zero, "0", "0", zero}
}

// GetLowStockInput represents the input for the reorder listing.
type GetLowStockInput struct {
	Buckets *BucketSet

	// Limit caps the listing; zero means no cap.
	Limit int
}

// GetLowStockUseCase serves the reorder candidates from the last snapshot.
type GetLowStockUseCase struct{}

// NewGetLowStockUseCase creates a new GetLowStockUseCase instance.
func NewGetLowStockUseCase() *GetLowStockUseCase {
	return &GetLowStockUseCase{}
}

// Execute returns the low stock items, lowest quantity first.
func (uc *GetLowStockUseCase) Execute(ctx context.Context, input GetLowStockInput) ([]entity.LowStockItem, error) {
	if input.Buckets == nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeNoDataIngested,
			"no data has been ingested yet",
			domainerror.ErrNoDataIngested,
		)
	}

	items := make([]entity.LowStockItem, len(input.Buckets.Inventory.LowStock))
	copy(items, input.Buckets.Inventory.LowStock)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Quantity < items[j].Quantity })
	if input.Limit > 0 && len(items) > input.Limit {
		items = items[:input.Limit]
	}
	return items, nil
}
