// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceKind identifies which of the five supported record schemas a file
// or worksheet carries.
type SourceKind string

const (
	SourceSales     SourceKind = "sales"
	SourceInventory SourceKind = "inventory"
	SourceExpenses  SourceKind = "expenses"
	SourceCosts     SourceKind = "costs"
	SourcePayroll   SourceKind = "payroll"
)

// SalesLine is one point-of-sale line item, normalized from the comma
// delimited POS export (Date, Department, UPC, Item, Baskets, Items, Sales$).
type SalesLine struct {
	Date        time.Time // day granularity, UTC
	Department  string
	SKU         string
	ItemName    string
	BasketCount int64
	UnitCount   int64
	Amount      decimal.Decimal
}

// InventoryCount is one on-hand inventory snapshot line. Snapshots carry no
// date; they contribute to grand totals only, never to day buckets.
type InventoryCount struct {
	SKU        string
	ItemName   string
	Department string
	Quantity   int64
	UnitCost   decimal.Decimal
}

// Value returns the valuation of the counted stock (quantity x unit cost).
func (c InventoryCount) Value() decimal.Decimal {
	return c.UnitCost.Mul(decimal.NewFromInt(c.Quantity))
}

// ExpenseEntry is one expense ledger row (Fecha; Concepto; Valor).
type ExpenseEntry struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}

// PayrollEntry is one payroll ledger row (Fecha; Empleado; Cargo; Horas; Sueldo).
type PayrollEntry struct {
	Date     time.Time
	Employee string
	Position string
	Hours    decimal.Decimal
	Amount   decimal.Decimal
}

// SkippedRow records a single source row that failed to normalize. Skipped
// rows never abort a batch; they are reported alongside the aggregated totals
// so a caller can tell "no sales" apart from "nothing parsed".
type SkippedRow struct {
	Source SourceKind `json:"source"`
	Index  int        `json:"index"` // 0-based data row index, header excluded
	Raw    string     `json:"raw"`
	Reason string     `json:"reason"`
}

// LowStockItem is an inventory line under the low-stock threshold.
type LowStockItem struct {
	ItemName   string `json:"item_name"`
	Department string `json:"department"`
	Quantity   int64  `json:"quantity"`
}
