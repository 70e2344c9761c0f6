package report

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

func TestExportCSV(t *testing.T) {
	uc := NewExportCSVUseCase()

	buckets := Ingest(RecordSet{
		Sales: []entity.SalesLine{
			salesLine(day(2025, time.March, 1), "Grocery", 2, 5, "500.00"),
			salesLine(day(2025, time.March, 3), "Grocery", 1, 2, "300.00"),
		},
		Payroll: []entity.PayrollEntry{
			{Date: day(2025, time.March, 1), Employee: "Ana", Position: "Cashier", Hours: dec("8"), Amount: dec("80.00")},
		},
	}, 10)

	output, err := uc.Execute(context.Background(), ExportCSVInput{
		Buckets: buckets,
		Range:   DateRange{Start: day(2025, time.March, 1), End: day(2025, time.March, 3)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Filename != "daily-summary-2025-03-01-2025-03-03.csv" {
		t.Errorf("unexpected filename %q", output.Filename)
	}

	rows, err := csv.NewReader(strings.NewReader(string(output.Content))).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}

	// Header, three calendar days, totals.
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "date" || rows[0][1] != "sales" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2025-03-01" || rows[1][1] != "500.00" {
		t.Errorf("unexpected first day row: %v", rows[1])
	}
	// The gap day is written as zeros, not omitted.
	if rows[2][0] != "2025-03-02" || rows[2][1] != "0.00" {
		t.Errorf("expected zero row for the empty day, got %v", rows[2])
	}
	if rows[3][0] != "2025-03-03" || rows[3][1] != "300.00" {
		t.Errorf("unexpected last day row: %v", rows[3])
	}
	totals := rows[4]
	if totals[0] != "total" || totals[1] != "800.00" || totals[5] != "3" {
		t.Errorf("unexpected totals row: %v", totals)
	}
}

func TestExportCSVValidatesRange(t *testing.T) {
	uc := NewExportCSVUseCase()

	_, err := uc.Execute(context.Background(), ExportCSVInput{
		Buckets: Ingest(RecordSet{}, 10),
		Range:   DateRange{Start: day(2025, time.March, 2), End: day(2025, time.March, 1)},
	})
	if !errors.Is(err, domainerror.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestGetLowStock(t *testing.T) {
	uc := NewGetLowStockUseCase()

	buckets := Ingest(RecordSet{
		Inventory: []entity.InventoryCount{
			{SKU: "a", ItemName: "Rice", Department: "Grocery", Quantity: 8, UnitCost: dec("2.00")},
			{SKU: "b", ItemName: "Milk", Department: "Dairy", Quantity: 1, UnitCost: dec("1.00")},
			{SKU: "c", ItemName: "Bread", Department: "Bakery", Quantity: 3, UnitCost: dec("0.50")},
			{SKU: "d", ItemName: "Salt", Department: "Grocery", Quantity: 50, UnitCost: dec("0.30")},
		},
	}, 10)

	items, err := uc.Execute(context.Background(), GetLowStockInput{Buckets: buckets})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ItemName != "Milk" || items[1].ItemName != "Bread" || items[2].ItemName != "Rice" {
		t.Errorf("unexpected order: %+v", items)
	}

	limited, err := uc.Execute(context.Background(), GetLowStockInput{Buckets: buckets, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected limit to cap the listing, got %d items", len(limited))
	}

	if _, err := uc.Execute(context.Background(), GetLowStockInput{}); !errors.Is(err, domainerror.ErrNoDataIngested) {
		t.Errorf("expected ErrNoDataIngested, got %v", err)
	}
}
