// Package report contains period aggregation and comparison use cases.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/domain/entity"
	"github.com/storeledger/backend/internal/domain/valueobject"
)

// RecordSet is the typed input of one aggregation pass: every parsed record
// of a batch, across all source kinds, plus the rows the parsers skipped.
type RecordSet struct {
	Sales     []entity.SalesLine
	Inventory []entity.InventoryCount
	Expenses  []entity.ExpenseEntry
	Costs     []entity.ExpenseEntry
	Payroll   []entity.PayrollEntry
	Skipped   []entity.SkippedRow
}

// Bucket accumulates one calendar day's totals. Each bucket is written
// during a single ingest pass and read-only afterwards.
type Bucket struct {
	DateKey string `json:"date_key"`

	Sales    decimal.Decimal `json:"sales"`
	Costs    decimal.Decimal `json:"costs"`
	Expenses decimal.Decimal `json:"expenses"`
	Payroll  decimal.Decimal `json:"payroll"`

	Baskets int64           `json:"baskets"`
	Units   int64           `json:"units"`
	Hours   decimal.Decimal `json:"hours"`

	SalesByDepartment  map[string]decimal.Decimal `json:"sales_by_department"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
	CostsByCategory    map[string]decimal.Decimal `json:"costs_by_category"`
	PayrollByEmployee  map[string]decimal.Decimal `json:"payroll_by_employee"`
	PayrollByPosition  map[string]decimal.Decimal `json:"payroll_by_position"`
}

// DepartmentStock is the dateless per-department inventory position.
type DepartmentStock struct {
	Quantity int64           `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// InventoryTotals holds the snapshot-wide inventory figures. Snapshots carry
// no date, so these are grand totals valid for any queried period.
type InventoryTotals struct {
	TotalValue   decimal.Decimal            `json:"total_value"`
	ProductCount int                        `json:"product_count"`
	ByDepartment map[string]DepartmentStock `json:"by_department"`
	LowStock     []entity.LowStockItem      `json:"low_stock"`
}

// BucketSet is the fully materialized result of one ingestion batch: day
// buckets for the dated sources, inventory grand totals, and the skip report.
type BucketSet struct {
	Buckets     map[string]*Bucket  `json:"buckets"`
	Inventory   InventoryTotals     `json:"inventory"`
	Skipped     []entity.SkippedRow `json:"skipped"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Ingest buckets every record by its day key in a single O(n) pass.
// Addition is commutative, so record order never affects the result.
// Inventory records are dateless and only feed the grand totals; the
// lowStockThreshold marks snapshot lines to reorder.
func Ingest(records RecordSet, lowStockThreshold int64) *BucketSet {
	set := &BucketSet{
		Buckets: make(map[string]*Bucket),
		Inventory: InventoryTotals{
			TotalValue:   decimal.Zero,
			ByDepartment: make(map[string]DepartmentStock),
		},
		Skipped:     records.Skipped,
		GeneratedAt: time.Now().UTC(),
	}

	for _, line := range records.Sales {
		b := set.bucket(line.Date)
		b.Sales = b.Sales.Add(line.Amount)
		b.Baskets += line.BasketCount
		b.Units += line.UnitCount
		addTo(b.SalesByDepartment, line.Department, line.Amount)
	}

	for _, e := range records.Expenses {
		b := set.bucket(e.Date)
		b.Expenses = b.Expenses.Add(e.Amount)
		addTo(b.ExpensesByCategory, e.Category, e.Amount)
	}

	for _, c := range records.Costs {
		b := set.bucket(c.Date)
		b.Costs = b.Costs.Add(c.Amount)
		addTo(b.CostsByCategory, c.Category, c.Amount)
	}

	for _, p := range records.Payroll {
		b := set.bucket(p.Date)
		b.Payroll = b.Payroll.Add(p.Amount)
		b.Hours = b.Hours.Add(p.Hours)
		addTo(b.PayrollByEmployee, p.Employee, p.Amount)
		addTo(b.PayrollByPosition, p.Position, p.Amount)
	}

	for _, item := range records.Inventory {
		value := item.Value()
		set.Inventory.TotalValue = set.Inventory.TotalValue.Add(value)
		if item.Quantity > 0 {
			set.Inventory.ProductCount++
		}
		stock := set.Inventory.ByDepartment[item.Department]
		stock.Quantity += item.Quantity
		stock.Value = stock.Value.Add(value)
		set.Inventory.ByDepartment[item.Department] = stock

		if item.Quantity < lowStockThreshold {
			set.Inventory.LowStock = append(set.Inventory.LowStock, entity.LowStockItem{
				ItemName:   item.ItemName,
				Department: item.Department,
				Quantity:   item.Quantity,
			})
		}
	}

	sortLowStock(set.Inventory.LowStock)
	return set
}

// PeriodAggregate is the materialized answer to one period query. A range
// with no matching buckets yields a zero-valued aggregate with allocated
// maps, never nil; callers rely on that.
type PeriodAggregate struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`

	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int64           `json:"transaction_count"` // sum of basket counts
	UnitCount        int64           `json:"unit_count"`
	AverageTicket    decimal.Decimal `json:"average_ticket"`

	TotalCosts    decimal.Decimal `json:"total_costs"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalPayroll  decimal.Decimal `json:"total_payroll"`
	TotalHours    decimal.Decimal `json:"total_hours"`

	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	ProductCount        int             `json:"product_count"`

	SalesByDepartment  map[string]decimal.Decimal `json:"sales_by_department"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
	CostsByCategory    map[string]decimal.Decimal `json:"costs_by_category"`
	PayrollByEmployee  map[string]decimal.Decimal `json:"payroll_by_employee"`
	PayrollByPosition  map[string]decimal.Decimal `json:"payroll_by_position"`
}

// QueryRange sums every bucket whose day key falls within [start, end],
// inclusive on both ends. Inventory figures are grand totals and are
// attached regardless of the range.
func (s *BucketSet) QueryRange(start, end time.Time) *PeriodAggregate {
	agg := newPeriodAggregate(start, end)

	startKey := valueobject.DayKey(valueobject.TruncateToDay(start))
	endKey := valueobject.DayKey(valueobject.TruncateToDay(end))

	for key, b := range s.Buckets {
		// ISO day keys order lexicographically.
		if key < startKey || key > endKey {
			continue
		}
		agg.TotalSales = agg.TotalSales.Add(b.Sales)
		agg.TransactionCount += b.Baskets
		agg.UnitCount += b.Units
		agg.TotalCosts = agg.TotalCosts.Add(b.Costs)
		agg.TotalExpenses = agg.TotalExpenses.Add(b.Expenses)
		agg.TotalPayroll = agg.TotalPayroll.Add(b.Payroll)
		agg.TotalHours = agg.TotalHours.Add(b.Hours)

		mergeInto(agg.SalesByDepartment, b.SalesByDepartment)
		mergeInto(agg.ExpensesByCategory, b.ExpensesByCategory)
		mergeInto(agg.CostsByCategory, b.CostsByCategory)
		mergeInto(agg.PayrollByEmployee, b.PayrollByEmployee)
		mergeInto(agg.PayrollByPosition, b.PayrollByPosition)
	}

	agg.TotalInventoryValue = s.Inventory.TotalValue
	agg.ProductCount = s.Inventory.ProductCount
	agg.AverageTicket = AverageTicket(agg.TotalSales, agg.TransactionCount)
	return agg
}

func newPeriodAggregate(start, end time.Time) *PeriodAggregate {
	return &PeriodAggregate{
		StartDate:           valueobject.DayKey(valueobject.TruncateToDay(start)),
		EndDate:             valueobject.DayKey(valueobject.TruncateToDay(end)),
		Days:                RangeDays(start, end),
		TotalSales:          decimal.Zero,
		AverageTicket:       decimal.Zero,
		TotalCosts:          decimal.Zero,
		TotalExpenses:       decimal.Zero,
		TotalPayroll:        decimal.Zero,
		TotalHours:          decimal.Zero,
		TotalInventoryValue: decimal.Zero,
		SalesByDepartment:   make(map[string]decimal.Decimal),
		ExpensesByCategory:  make(map[string]decimal.Decimal),
		CostsByCategory:     make(map[string]decimal.Decimal),
		PayrollByEmployee:   make(map[string]decimal.Decimal),
		PayrollByPosition:   make(map[string]decimal.Decimal),
	}
}

func (s *BucketSet) bucket(date time.Time) *Bucket {
	key := valueobject.DayKey(date)
	b, ok := s.Buckets[key]
	if !ok {
		b = &Bucket{
			DateKey:            key,
			Sales:              decimal.Zero,
			Costs:              decimal.Zero,
			Expenses:           decimal.Zero,
			Payroll:            decimal.Zero,
			Hours:              decimal.Zero,
			SalesByDepartment:  make(map[string]decimal.Decimal),
			ExpensesByCategory: make(map[string]decimal.Decimal),
			CostsByCategory:    make(map[string]decimal.Decimal),
			PayrollByEmployee:  make(map[string]decimal.Decimal),
			PayrollByPosition:  make(map[string]decimal.Decimal),
		}
		s.Buckets[key] = b
	}
	return b
}

func addTo(m map[string]decimal.Decimal, key string, amount decimal.Decimal) {
	m[key] = m[key].Add(amount)
}

func mergeInto(dst, src map[string]decimal.Decimal) {
	for k, v := range src {
		dst[k] = dst[k].Add(v)
	}
}

// sortLowStock orders reorder candidates by lowest quantity first.
func sortLowStock(items []entity.LowStockItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Quantity < items[j].Quantity
	})
}
