// Package ingest contains source file ingestion use cases.
package ingest

import (
	"github.com/storeledger/backend/internal/domain/entity"
	"github.com/storeledger/backend/internal/domain/valueobject"
)

// Schema describes how one source kind is laid out on disk. Differences
// between the source files (delimiter, column order, date notation, amount
// convention) are data here, not separate parsing code paths.
type Schema struct {
	Kind      entity.SourceKind
	Delimiter rune

	// MinColumns is the structural minimum a data row needs to be parseable
	// at all. A file whose every data row falls short is a schema mismatch;
	// an individual short row is skipped and reported.
	MinColumns int

	DateNotation     valueobject.DateNotation
	AmountConvention valueobject.AmountConvention
}

// Fixed column positions per schema. Missing trailing fields are read as
// empty rather than causing an index error.
const (
	// Sales POS export: Date, Department, UPC, Item, Baskets, Items,
	// reserved, Sales$. The eighth field carries the amount; column six is
	// present in the export but not consumed.
	salesColDate       = 0
	salesColDepartment = 1
	salesColSKU        = 2
	salesColItem       = 3
	salesColBaskets    = 4
	salesColItems      = 5
	salesColAmount     = 7

	// Inventory snapshot: UPC, Item, Department, Quantity, Cost.
	invColSKU        = 0
	invColItem       = 1
	invColDepartment = 2
	invColQuantity   = 3
	invColCost       = 4

	// Expense ledger (Gastos): Fecha; Concepto; Valor.
	expColDate     = 0
	expColCategory = 1
	expColAmount   = 2

	// Cost-of-goods ledger (COSTOS): leading row number, then Fecha;
	// Concepto; Valor shifted one column right.
	costColDate     = 1
	costColCategory = 2
	costColAmount   = 3

	// Payroll ledger: Fecha; Empleado; Cargo; Horas; Sueldo.
	payColDate     = 0
	payColEmployee = 1
	payColPosition = 2
	payColHours    = 3
	payColAmount   = 4
)

var schemas = map[entity.SourceKind]Schema{
	entity.SourceSales: {
		Kind:             entity.SourceSales,
		Delimiter:        ',',
		MinColumns:       2,
		DateNotation:     valueobject.NotationMonthFirst,
		AmountConvention: valueobject.ConventionCommaThousands,
	},
	entity.SourceInventory: {
		Kind:             entity.SourceInventory,
		Delimiter:        ',',
		MinColumns:       4,
		AmountConvention: valueobject.ConventionCommaThousands,
	},
	entity.SourceExpenses: {
		Kind:             entity.SourceExpenses,
		Delimiter:        ';',
		MinColumns:       3,
		DateNotation:     valueobject.NotationSpanishLong,
		AmountConvention: valueobject.ConventionPeriodThousands,
	},
	entity.SourceCosts: {
		Kind:             entity.SourceCosts,
		Delimiter:        ';',
		MinColumns:       4,
		DateNotation:     valueobject.NotationSpanishLong,
		AmountConvention: valueobject.ConventionPeriodThousands,
	},
	entity.SourcePayroll: {
		Kind:             entity.SourcePayroll,
		Delimiter:        ';',
		MinColumns:       5,
		DateNotation:     valueobject.NotationDayFirst,
		AmountConvention: valueobject.ConventionPeriodThousands,
	},
}

// SchemaFor returns the layout descriptor for a source kind.
func SchemaFor(kind entity.SourceKind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}
