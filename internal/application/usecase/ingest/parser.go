// Package ingest contains source file ingestion use cases.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
	"github.com/storeledger/backend/internal/domain/valueobject"
)

// ParseResult holds the typed records recovered from one source file plus
// the rows that failed to normalize. A bad row never aborts the batch; it is
// reported here so callers can tell an empty period apart from a parse loss.
type ParseResult struct {
	Sales     []entity.SalesLine
	Inventory []entity.InventoryCount
	Expenses  []entity.ExpenseEntry
	Costs     []entity.ExpenseEntry
	Payroll   []entity.PayrollEntry
	Skipped   []entity.SkippedRow
}

// ParseText parses raw delimited text for the given source kind. The first
// row is the header and is always skipped. Returns a schema mismatch error
// only when the file as a whole cannot structurally be this schema.
func ParseText(kind entity.SourceKind, text string) (*ParseResult, error) {
	schema, ok := SchemaFor(kind)
	if !ok {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeUnknownSource,
			fmt.Sprintf("unknown source kind %q", kind),
			domainerror.ErrUnknownSource,
		)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = schema.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed line is kept as a single-field row so it shows up
			// in the skip report with its position preserved.
			rows = append(rows, []string{err.Error()})
			continue
		}
		if isBlankRow(record) {
			continue
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return &ParseResult{}, nil
	}
	return parseRows(schema, rows[1:])
}

// ParseRows parses already-tabular rows (e.g. from a workbook sheet) for the
// given source kind. The first row is the header and is always skipped.
func ParseRows(kind entity.SourceKind, rows [][]string) (*ParseResult, error) {
	schema, ok := SchemaFor(kind)
	if !ok {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeUnknownSource,
			fmt.Sprintf("unknown source kind %q", kind),
			domainerror.ErrUnknownSource,
		)
	}

	var data [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return &ParseResult{}, nil
	}
	return parseRows(schema, data[1:])
}

func parseRows(schema Schema, data [][]string) (*ParseResult, error) {
	result := &ParseResult{}
	structurallyShort := 0

	for i, row := range data {
		if len(row) < schema.MinColumns {
			structurallyShort++
			result.skip(schema.Kind, i, row, "too few fields")
			continue
		}
		if reason := parseRow(schema, row, result); reason != "" {
			result.skip(schema.Kind, i, row, reason)
		}
	}

	// Every data row short of the structural minimum means the file is not
	// this schema at all (wrong delimiter, wrong export). That is fatal for
	// the file; other sources in the batch continue independently.
	if len(data) > 0 && structurallyShort == len(data) {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeSchemaMismatch,
			fmt.Sprintf("no row matches the %s schema", schema.Kind),
			domainerror.ErrSchemaMismatch,
		)
	}

	return result, nil
}

func parseRow(schema Schema, row []string, result *ParseResult) string {
	switch schema.Kind {
	case entity.SourceSales:
		return parseSalesRow(schema, row, result)
	case entity.SourceInventory:
		return parseInventoryRow(schema, row, result)
	case entity.SourceExpenses:
		return parseLedgerRow(schema, row, expColDate, expColCategory, expColAmount, &result.Expenses)
	case entity.SourceCosts:
		return parseLedgerRow(schema, row, costColDate, costColCategory, costColAmount, &result.Costs)
	case entity.SourcePayroll:
		return parsePayrollRow(schema, row, result)
	default:
		return "unknown source kind"
	}
}

func parseSalesRow(schema Schema, row []string, result *ParseResult) string {
	date, err := valueobject.ParseDate(field(row, salesColDate), schema.DateNotation)
	if err != nil {
		return "date: " + err.Error()
	}

	amount, err := valueobject.ParseAmount(field(row, salesColAmount), schema.AmountConvention)
	if err != nil {
		return "amount: " + err.Error()
	}
	if amount.IsNegative() {
		return "negative amount"
	}

	result.Sales = append(result.Sales, entity.SalesLine{
		Date:        date,
		Department:  fieldOr(row, salesColDepartment, "General"),
		SKU:         field(row, salesColSKU),
		ItemName:    field(row, salesColItem),
		BasketCount: countOrZero(field(row, salesColBaskets)),
		UnitCount:   countOrZero(field(row, salesColItems)),
		Amount:      amount,
	})
	return ""
}

func parseInventoryRow(schema Schema, row []string, result *ParseResult) string {
	quantity, err := valueobject.ParseCount(field(row, invColQuantity))
	if err != nil {
		return "quantity: " + err.Error()
	}
	if quantity < 0 {
		return "negative quantity"
	}

	cost := decimal.Zero
	if raw := field(row, invColCost); raw != "" {
		cost, err = valueobject.ParseAmount(raw, schema.AmountConvention)
		if err != nil {
			return "cost: " + err.Error()
		}
		if cost.IsNegative() {
			return "negative cost"
		}
	}

	result.Inventory = append(result.Inventory, entity.InventoryCount{
		SKU:        field(row, invColSKU),
		ItemName:   field(row, invColItem),
		Department: fieldOr(row, invColDepartment, "General"),
		Quantity:   quantity,
		UnitCost:   cost,
	})
	return ""
}

func parseLedgerRow(schema Schema, row []string, dateCol, categoryCol, amountCol int, out *[]entity.ExpenseEntry) string {
	date, err := valueobject.ParseDate(field(row, dateCol), schema.DateNotation)
	if err != nil {
		return "date: " + err.Error()
	}

	amount, err := valueobject.ParseAmount(field(row, amountCol), schema.AmountConvention)
	if err != nil {
		return "amount: " + err.Error()
	}
	if amount.IsNegative() {
		return "negative amount"
	}

	*out = append(*out, entity.ExpenseEntry{
		Date:     date,
		Category: fieldOr(row, categoryCol, "Other"),
		Amount:   amount,
	})
	return ""
}

func parsePayrollRow(schema Schema, row []string, result *ParseResult) string {
	date, err := valueobject.ParseDate(field(row, payColDate), schema.DateNotation)
	if err != nil {
		return "date: " + err.Error()
	}

	amount, err := valueobject.ParseAmount(field(row, payColAmount), schema.AmountConvention)
	if err != nil {
		return "amount: " + err.Error()
	}
	if amount.IsNegative() {
		return "negative amount"
	}

	hours := decimal.Zero
	if raw := field(row, payColHours); raw != "" {
		if parsed, err := valueobject.ParseAmount(raw, schema.AmountConvention); err == nil && !parsed.IsNegative() {
			hours = parsed
		}
	}

	result.Payroll = append(result.Payroll, entity.PayrollEntry{
		Date:     date,
		Employee: fieldOr(row, payColEmployee, "Unknown"),
		Position: fieldOr(row, payColPosition, "Other"),
		Hours:    hours,
		Amount:   amount,
	})
	return ""
}

func (r *ParseResult) skip(kind entity.SourceKind, index int, row []string, reason string) {
	r.Skipped = append(r.Skipped, entity.SkippedRow{
		Source: kind,
		Index:  index,
		Raw:    strings.Join(row, "|"),
		Reason: reason,
	})
}

// field reads a column defensively: a missing trailing field is empty, not
// an index error.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(row[i]), `"`)
}

func fieldOr(row []string, i int, fallback string) string {
	if v := field(row, i); v != "" {
		return v
	}
	return fallback
}

// countOrZero reads an optional count column; absent or junk counts as zero
// rather than losing the row.
func countOrZero(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := valueobject.ParseCount(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
