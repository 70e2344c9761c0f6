// Package spreadsheet reads multi-sheet workbooks into ingestion batches.
package spreadsheet

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/storeledger/backend/internal/application/usecase/ingest"
	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// sheetKinds maps worksheet names to source kinds. Matching is
// case-insensitive and accepts both English and Spanish sheet names.
var sheetKinds = map[string]entity.SourceKind{
	"sales":      entity.SourceSales,
	"ventas":     entity.SourceSales,
	"inventory":  entity.SourceInventory,
	"inventario": entity.SourceInventory,
	"expenses":   entity.SourceExpenses,
	"gastos":     entity.SourceExpenses,
	"costs":      entity.SourceCosts,
	"costos":     entity.SourceCosts,
	"payroll":    entity.SourcePayroll,
	"nomina":     entity.SourcePayroll,
	"nómina":     entity.SourcePayroll,
}

// ReadWorkbook opens an xlsx document and parses every recognized sheet into
// typed records. Unrecognized sheets are logged and skipped so a workbook can
// carry notes or pivots alongside the data.
func ReadWorkbook(name string, content []byte) (*ingest.ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeWorkbookUnreadable,
			fmt.Sprintf("failed to open workbook %q", name),
			fmt.Errorf("%w: %w", domainerror.ErrWorkbookUnreadable, err),
		)
	}
	defer f.Close()

	combined := &ingest.ParseResult{}
	recognized := 0
	for _, sheet := range f.GetSheetList() {
		kind, ok := sheetKinds[strings.ToLower(strings.TrimSpace(sheet))]
		if !ok {
			slog.Info("Skipping unrecognized worksheet", "workbook", name, "sheet", sheet)
			continue
		}
		recognized++

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, domainerror.NewIngestError(
				domainerror.ErrCodeWorkbookUnreadable,
				fmt.Sprintf("failed to read sheet %q of %q", sheet, name),
				fmt.Errorf("%w: %w", domainerror.ErrWorkbookUnreadable, err),
			)
		}

		result, err := ingest.ParseRows(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		combined.Sales = append(combined.Sales, result.Sales...)
		combined.Inventory = append(combined.Inventory, result.Inventory...)
		combined.Expenses = append(combined.Expenses, result.Expenses...)
		combined.Costs = append(combined.Costs, result.Costs...)
		combined.Payroll = append(combined.Payroll, result.Payroll...)
		combined.Skipped = append(combined.Skipped, result.Skipped...)
	}

	if recognized == 0 {
		return nil, domainerror.NewIngestError(
			domainerror.ErrCodeSchemaMismatch,
			fmt.Sprintf("workbook %q has no recognized sheets", name),
			domainerror.ErrSchemaMismatch,
		)
	}

	return combined, nil
}
