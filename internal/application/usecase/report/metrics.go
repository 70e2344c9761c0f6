package report

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// GrossMarginPct computes (sales - costOfGoods) / sales * 100.
// Zero sales is defined as a zero margin, never a division fault.
func GrossMarginPct(sales, costOfGoods decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return sales.Sub(costOfGoods).Div(sales).Mul(hundred)
}

// NetProfit computes sales - (costs + payroll + expenses).
func NetProfit(sales, costs, payroll, expenses decimal.Decimal) decimal.Decimal {
	return sales.Sub(costs.Add(payroll).Add(expenses))
}

// LaborCostPct computes payroll / sales * 100, zero when sales is zero.
func LaborCostPct(payroll, sales decimal.Decimal) decimal.Decimal {
	if sales.IsZero() {
		return decimal.Zero
	}
	return payroll.Div(sales).Mul(hundred)
}

// AverageTicket computes sales / transactions, zero when there were none.
func AverageTicket(sales decimal.Decimal, transactions int64) decimal.Decimal {
	if transactions == 0 {
		return decimal.Zero
	}
	return sales.Div(decimal.NewFromInt(transactions))
}

// InventoryTurnover computes annualized sales over the inventory valuation.
// The annualization factor is a required explicit parameter (e.g. 12 when
// the sales figure covers one month), never a hidden constant. Zero
// inventory value is defined as zero turnover.
func InventoryTurnover(sales, inventoryValue, annualizationFactor decimal.Decimal) decimal.Decimal {
	if inventoryValue.IsZero() {
		return decimal.Zero
	}
	return sales.Mul(annualizationFactor).Div(inventoryValue)
}

// PercentChange computes (current - previous) / previous * 100.
// A zero previous value is defined as a zero change, not an "Infinity" or a
// separate "no prior data" marker.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// PointChange computes the difference between two percentages in points
// (used for margin movement, where a ratio of ratios would mislead).
func PointChange(current, previous decimal.Decimal) decimal.Decimal {
	return current.Sub(previous)
}
