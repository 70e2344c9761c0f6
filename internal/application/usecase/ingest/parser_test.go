package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

const salesFixture = `Date,Department,UPC,Item,Baskets,Items,Reserved,Sales
03-01-2025,Grocery,000123,Rice 1kg,2,5,x,"1,250.50"
03-02-2025,Bakery,000456,Bread,1,2,x,45.00
bad-date,Grocery,000789,Beans,1,1,x,10.00
03-03-2025,Grocery,000789,Beans,1,1,x,not-a-number
03-03-2025,Grocery,000789,Beans,1,1,x,-5.00
`

func TestParseTextSales(t *testing.T) {
	result, err := ParseText(entity.SourceSales, salesFixture)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Sales) != 2 {
		t.Fatalf("expected 2 sales lines, got %d", len(result.Sales))
	}

	first := result.Sales[0]
	if !first.Date.Equal(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %s", first.Date)
	}
	if first.Department != "Grocery" || first.BasketCount != 2 || first.UnitCount != 5 {
		t.Errorf("unexpected line %+v", first)
	}
	if !first.Amount.Equal(dec("1250.50")) {
		t.Errorf("expected amount 1250.50, got %s", first.Amount)
	}

	if len(result.Skipped) != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", len(result.Skipped))
	}
	// Indexes are 0-based over data rows, header excluded.
	if result.Skipped[0].Index != 2 {
		t.Errorf("expected first skip at index 2, got %d", result.Skipped[0].Index)
	}
	if !strings.Contains(result.Skipped[0].Reason, "date") {
		t.Errorf("expected a date reason, got %q", result.Skipped[0].Reason)
	}
	if result.Skipped[2].Reason != "negative amount" {
		t.Errorf("expected negative amount skip, got %q", result.Skipped[2].Reason)
	}
}

func TestParseTextSalesMissingTrailingFields(t *testing.T) {
	text := "Date,Sales\n03-05-2025,Grocery\n"
	result, err := ParseText(entity.SourceSales, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two fields satisfy the structural minimum but carry no amount column.
	if len(result.Sales) != 0 {
		t.Fatalf("expected no sales lines, got %d", len(result.Sales))
	}
	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0].Reason, "amount") {
		t.Errorf("expected an amount skip, got %+v", result.Skipped)
	}
}

func TestParseTextInventory(t *testing.T) {
	text := `UPC,Item,Department,Quantity,Cost
000123,Rice 1kg,Grocery,20,2.50
000456,Milk 1L,Dairy,4,1.10
000789,Misc,,5,
000999,Ghost,-,-3,1.00
`
	result, err := ParseText(entity.SourceInventory, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Inventory) != 3 {
		t.Fatalf("expected 3 inventory lines, got %d", len(result.Inventory))
	}
	if result.Inventory[0].Quantity != 20 || !result.Inventory[0].UnitCost.Equal(dec("2.50")) {
		t.Errorf("unexpected line %+v", result.Inventory[0])
	}
	// Empty department falls back, empty cost counts as zero.
	if result.Inventory[2].Department != "General" {
		t.Errorf("expected General fallback, got %q", result.Inventory[2].Department)
	}
	if !result.Inventory[2].UnitCost.IsZero() {
		t.Errorf("expected zero cost, got %s", result.Inventory[2].UnitCost)
	}

	if len(result.Skipped) != 1 || result.Skipped[0].Reason != "negative quantity" {
		t.Errorf("expected a negative quantity skip, got %+v", result.Skipped)
	}
}

func TestParseTextExpensesSpanishDates(t *testing.T) {
	text := `Fecha;Concepto;Valor
3 de enero de 2025;Arriendo;1.500.000
15 de Enero de 2025;Servicios;85.300,50
20/01/2025;Transporte;12.000
`
	result, err := ParseText(entity.SourceExpenses, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Expenses) != 3 {
		t.Fatalf("expected 3 expenses, got %d (skipped %+v)", len(result.Expenses), result.Skipped)
	}
	if !result.Expenses[0].Date.Equal(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %s", result.Expenses[0].Date)
	}
	if !result.Expenses[0].Amount.Equal(dec("1500000")) {
		t.Errorf("expected 1500000, got %s", result.Expenses[0].Amount)
	}
	if !result.Expenses[1].Amount.Equal(dec("85300.50")) {
		t.Errorf("expected 85300.50, got %s", result.Expenses[1].Amount)
	}
	// Numeric day-first dates are accepted alongside the long form.
	if !result.Expenses[2].Date.Equal(time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %s", result.Expenses[2].Date)
	}
}

func TestParseTextCostsOffsetColumns(t *testing.T) {
	text := `N;Fecha;Concepto;Valor
1;5 de febrero de 2025;Proveedores;2.340.100
2;6 de febrero de 2025;Carnes;450.000
`
	result, err := ParseText(entity.SourceCosts, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Costs) != 2 {
		t.Fatalf("expected 2 cost entries, got %d", len(result.Costs))
	}
	if result.Costs[0].Category != "Proveedores" {
		t.Errorf("unexpected category %q", result.Costs[0].Category)
	}
	if !result.Costs[0].Amount.Equal(dec("2340100")) {
		t.Errorf("expected 2340100, got %s", result.Costs[0].Amount)
	}
	if len(result.Expenses) != 0 {
		t.Error("cost rows must not land in expenses")
	}
}

func TestParseTextPayroll(t *testing.T) {
	text := `Fecha;Empleado;Cargo;Horas;Sueldo
15/01/2025;Ana Gomez;Cajera;160;1.423.500
15/01/2025;Luis Diaz;Bodega;;1.100.000
`
	result, err := ParseText(entity.SourcePayroll, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Payroll) != 2 {
		t.Fatalf("expected 2 payroll entries, got %d", len(result.Payroll))
	}
	first := result.Payroll[0]
	if first.Employee != "Ana Gomez" || first.Position != "Cajera" {
		t.Errorf("unexpected entry %+v", first)
	}
	if !first.Hours.Equal(dec("160")) {
		t.Errorf("expected 160 hours, got %s", first.Hours)
	}
	if !first.Amount.Equal(dec("1423500")) {
		t.Errorf("expected 1423500, got %s", first.Amount)
	}
	// Absent hours count as zero, the row survives.
	if !result.Payroll[1].Hours.IsZero() {
		t.Errorf("expected zero hours, got %s", result.Payroll[1].Hours)
	}
}

func TestParseTextSchemaMismatch(t *testing.T) {
	// A semicolon file submitted as the comma sales schema: every data row
	// collapses into one field.
	text := "Fecha;Concepto;Valor\n3 de enero de 2025;Arriendo;1.500.000\n4 de enero de 2025;Servicios;85.300\n"

	_, err := ParseText(entity.SourceSales, text)
	if !errors.Is(err, domainerror.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}

	var ingestErr *domainerror.IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatal("expected a coded ingest error")
	}
	if ingestErr.Code != domainerror.ErrCodeSchemaMismatch {
		t.Errorf("expected code %s, got %s", domainerror.ErrCodeSchemaMismatch, ingestErr.Code)
	}
}

func TestParseTextUnknownKind(t *testing.T) {
	_, err := ParseText(entity.SourceKind("weather"), "a,b\n1,2\n")
	if !errors.Is(err, domainerror.ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}

func TestParseTextEmptyAndBlank(t *testing.T) {
	for _, text := range []string{"", "\n\n", "Date,Department\n"} {
		result, err := ParseText(entity.SourceSales, text)
		if err != nil {
			t.Fatalf("text %q: unexpected error: %v", text, err)
		}
		if len(result.Sales) != 0 || len(result.Skipped) != 0 {
			t.Errorf("text %q: expected empty result, got %+v", text, result)
		}
	}
}

func TestParseRowsFromSheet(t *testing.T) {
	rows := [][]string{
		{"Date", "Department", "UPC", "Item", "Baskets", "Items", "Reserved", "Sales"},
		{"03-01-2025", "Grocery", "000123", "Rice 1kg", "2", "5", "", "1,250.50"},
		{"", "", ""},
		{"03-02-2025", "Bakery", "000456", "Bread", "1", "2", "", "45.00"},
	}

	result, err := ParseRows(entity.SourceSales, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Sales) != 2 {
		t.Fatalf("expected 2 sales lines, got %d", len(result.Sales))
	}
	if len(result.Skipped) != 0 {
		t.Errorf("blank sheet rows must not be skipped as errors: %+v", result.Skipped)
	}
}
