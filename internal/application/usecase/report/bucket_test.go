package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func salesLine(date time.Time, department string, baskets, units int64, amount string) entity.SalesLine {
	return entity.SalesLine{
		Date:        date,
		Department:  department,
		SKU:         "sku-1",
		ItemName:    "item",
		BasketCount: baskets,
		UnitCount:   units,
		Amount:      dec(amount),
	}
}

func TestIngestBucketsByDay(t *testing.T) {
	records := RecordSet{
		Sales: []entity.SalesLine{
			salesLine(day(2025, time.March, 1), "Grocery", 2, 5, "500.00"),
			salesLine(day(2025, time.March, 2), "Grocery", 1, 2, "300.00"),
			salesLine(day(2025, time.March, 1), "Bakery", 1, 1, "50.00"),
		},
		Expenses: []entity.ExpenseEntry{
			{Date: day(2025, time.March, 1), Category: "Rent", Amount: dec("100.00")},
		},
		Costs: []entity.ExpenseEntry{
			{Date: day(2025, time.March, 2), Category: "Suppliers", Amount: dec("120.00")},
		},
		Payroll: []entity.PayrollEntry{
			{Date: day(2025, time.March, 1), Employee: "Ana", Position: "Cashier", Hours: dec("8"), Amount: dec("80.00")},
		},
	}

	set := Ingest(records, 10)

	if len(set.Buckets) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(set.Buckets))
	}

	first := set.Buckets["2025-03-01"]
	if first == nil {
		t.Fatal("expected a bucket for 2025-03-01")
	}
	if !first.Sales.Equal(dec("550.00")) {
		t.Errorf("expected day sales 550.00, got %s", first.Sales)
	}
	if first.Baskets != 3 {
		t.Errorf("expected 3 baskets, got %d", first.Baskets)
	}
	if !first.SalesByDepartment["Bakery"].Equal(dec("50.00")) {
		t.Errorf("expected Bakery sales 50.00, got %s", first.SalesByDepartment["Bakery"])
	}
	if !first.Expenses.Equal(dec("100.00")) {
		t.Errorf("expected day expenses 100.00, got %s", first.Expenses)
	}
	if !first.Payroll.Equal(dec("80.00")) {
		t.Errorf("expected day payroll 80.00, got %s", first.Payroll)
	}

	second := set.Buckets["2025-03-02"]
	if second == nil {
		t.Fatal("expected a bucket for 2025-03-02")
	}
	if !second.Costs.Equal(dec("120.00")) {
		t.Errorf("expected day costs 120.00, got %s", second.Costs)
	}
}

func TestIngestOrderDoesNotMatter(t *testing.T) {
	a := salesLine(day(2025, time.March, 1), "Grocery", 2, 5, "500.00")
	b := salesLine(day(2025, time.March, 2), "Grocery", 1, 2, "300.00")
	c := salesLine(day(2025, time.March, 1), "Bakery", 1, 1, "50.00")

	forward := Ingest(RecordSet{Sales: []entity.SalesLine{a, b, c}}, 10)
	backward := Ingest(RecordSet{Sales: []entity.SalesLine{c, b, a}}, 10)

	fAgg := forward.QueryRange(day(2025, time.March, 1), day(2025, time.March, 2))
	bAgg := backward.QueryRange(day(2025, time.March, 1), day(2025, time.March, 2))

	if !fAgg.TotalSales.Equal(bAgg.TotalSales) {
		t.Errorf("total sales differ by order: %s vs %s", fAgg.TotalSales, bAgg.TotalSales)
	}
	if fAgg.TransactionCount != bAgg.TransactionCount {
		t.Errorf("transaction counts differ by order: %d vs %d", fAgg.TransactionCount, bAgg.TransactionCount)
	}
	if !fAgg.SalesByDepartment["Grocery"].Equal(bAgg.SalesByDepartment["Grocery"]) {
		t.Error("department breakdown differs by record order")
	}
}

func TestQueryRangeInclusiveBounds(t *testing.T) {
	records := RecordSet{
		Sales: []entity.SalesLine{
			salesLine(day(2025, time.March, 1), "Grocery", 2, 5, "500.00"),
			salesLine(day(2025, time.March, 2), "Grocery", 1, 2, "300.00"),
			salesLine(day(2025, time.March, 3), "Grocery", 4, 4, "999.00"),
		},
	}
	set := Ingest(records, 10)

	tests := []struct {
		name             string
		start            time.Time
		end              time.Time
		wantSales        string
		wantTransactions int64
	}{
		{"full span", day(2025, time.March, 1), day(2025, time.March, 2), "800.00", 3},
		{"start day included", day(2025, time.March, 1), day(2025, time.March, 1), "500.00", 2},
		{"end day included", day(2025, time.March, 2), day(2025, time.March, 2), "300.00", 1},
		{"day outside excluded", day(2025, time.March, 1), day(2025, time.March, 2), "800.00", 3},
		{"empty range", day(2025, time.April, 1), day(2025, time.April, 30), "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := set.QueryRange(tt.start, tt.end)
			if !agg.TotalSales.Equal(dec(tt.wantSales)) {
				t.Errorf("expected sales %s, got %s", tt.wantSales, agg.TotalSales)
			}
			if agg.TransactionCount != tt.wantTransactions {
				t.Errorf("expected %d transactions, got %d", tt.wantTransactions, agg.TransactionCount)
			}
		})
	}
}

func TestQueryRangeEmptyReturnsZeroAggregate(t *testing.T) {
	set := Ingest(RecordSet{}, 10)

	agg := set.QueryRange(day(2025, time.June, 1), day(2025, time.June, 30))
	if agg == nil {
		t.Fatal("expected a zero aggregate, got nil")
	}
	if !agg.TotalSales.IsZero() {
		t.Errorf("expected zero sales, got %s", agg.TotalSales)
	}
	if agg.Days != 30 {
		t.Errorf("expected 30 days, got %d", agg.Days)
	}
	if agg.SalesByDepartment == nil || agg.PayrollByEmployee == nil {
		t.Error("expected allocated breakdown maps on an empty aggregate")
	}
	if !agg.AverageTicket.IsZero() {
		t.Errorf("expected zero average ticket, got %s", agg.AverageTicket)
	}
}

func TestIngestAverageTicketFromBaskets(t *testing.T) {
	records := RecordSet{
		Sales: []entity.SalesLine{
			salesLine(day(2025, time.March, 1), "Grocery", 2, 5, "500.00"),
			salesLine(day(2025, time.March, 2), "Grocery", 2, 2, "300.00"),
		},
	}
	set := Ingest(records, 10)

	agg := set.QueryRange(day(2025, time.March, 1), day(2025, time.March, 2))
	if agg.TransactionCount != 4 {
		t.Fatalf("expected 4 transactions, got %d", agg.TransactionCount)
	}
	if !agg.AverageTicket.Equal(dec("200")) {
		t.Errorf("expected average ticket 200, got %s", agg.AverageTicket)
	}
}

func TestIngestInventoryTotals(t *testing.T) {
	records := RecordSet{
		Inventory: []entity.InventoryCount{
			{SKU: "a", ItemName: "Rice", Department: "Grocery", Quantity: 20, UnitCost: dec("2.50")},
			{SKU: "b", ItemName: "Milk", Department: "Dairy", Quantity: 4, UnitCost: dec("1.00")},
			{SKU: "c", ItemName: "Eggs", Department: "Dairy", Quantity: 0, UnitCost: dec("3.00")},
			{SKU: "d", ItemName: "Bread", Department: "Bakery", Quantity: 2, UnitCost: dec("0.50")},
		},
	}
	set := Ingest(records, 10)

	inv := set.Inventory
	if !inv.TotalValue.Equal(dec("55.00")) {
		t.Errorf("expected total value 55.00, got %s", inv.TotalValue)
	}
	if inv.ProductCount != 3 {
		t.Errorf("expected 3 stocked products, got %d", inv.ProductCount)
	}
	dairy := inv.ByDepartment["Dairy"]
	if dairy.Quantity != 4 {
		t.Errorf("expected Dairy quantity 4, got %d", dairy.Quantity)
	}

	if len(inv.LowStock) != 3 {
		t.Fatalf("expected 3 low stock items, got %d", len(inv.LowStock))
	}
	// Ascending by quantity.
	if inv.LowStock[0].ItemName != "Eggs" || inv.LowStock[1].ItemName != "Bread" || inv.LowStock[2].ItemName != "Milk" {
		t.Errorf("unexpected low stock order: %+v", inv.LowStock)
	}

	// Dateless snapshot totals attach to any queried range.
	agg := set.QueryRange(day(2030, time.January, 1), day(2030, time.January, 31))
	if !agg.TotalInventoryValue.Equal(dec("55.00")) {
		t.Errorf("expected inventory value on aggregate, got %s", agg.TotalInventoryValue)
	}
}

func TestIngestPreservesSkipReport(t *testing.T) {
	records := RecordSet{
		Sales: []entity.SalesLine{
			salesLine(day(2025, time.March, 1), "Grocery", 1, 1, "10.00"),
		},
		Skipped: []entity.SkippedRow{
			{Source: entity.SourceSales, Index: 37, Raw: "bad,row", Reason: "invalid date"},
		},
	}
	set := Ingest(records, 10)

	if len(set.Skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(set.Skipped))
	}
	if set.Skipped[0].Index != 37 {
		t.Errorf("expected skipped row index 37, got %d", set.Skipped[0].Index)
	}

	agg := set.QueryRange(day(2025, time.March, 1), day(2025, time.March, 1))
	if !agg.TotalSales.Equal(dec("10.00")) {
		t.Errorf("valid rows must still aggregate, got %s", agg.TotalSales)
	}
}
