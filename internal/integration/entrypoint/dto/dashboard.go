package dto

import (
	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/domain/entity"
)

// SummaryResponse represents the response for the dashboard summary API.
type SummaryResponse struct {
	Data SummaryData `json:"data"`
}

// SummaryData represents the data section of the summary response.
type SummaryData struct {
	Period      PeriodResponse       `json:"period"`
	Figures     FiguresResponse      `json:"figures"`
	Inventory   InventoryResponse    `json:"inventory"`
	SkippedRows []SkippedRowResponse `json:"skipped_rows"`
}

// PeriodResponse represents the period information in a response.
type PeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// FiguresResponse represents an aggregated period with its derived ratios.
type FiguresResponse struct {
	TotalSales         float64            `json:"total_sales"`
	TransactionCount   int64              `json:"transaction_count"`
	UnitCount          int64              `json:"unit_count"`
	AverageTicket      float64            `json:"average_ticket"`
	TotalCosts         float64            `json:"total_costs"`
	TotalExpenses      float64            `json:"total_expenses"`
	TotalPayroll       float64            `json:"total_payroll"`
	TotalHours         float64            `json:"total_hours"`
	GrossMarginPct     float64            `json:"gross_margin_pct"`
	NetProfit          float64            `json:"net_profit"`
	LaborCostPct       float64            `json:"labor_cost_pct"`
	InventoryTurnover  float64            `json:"inventory_turnover"`
	SalesByDepartment  map[string]float64 `json:"sales_by_department"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
	CostsByCategory    map[string]float64 `json:"costs_by_category"`
	PayrollByEmployee  map[string]float64 `json:"payroll_by_employee"`
	PayrollByPosition  map[string]float64 `json:"payroll_by_position"`
}

// InventoryResponse represents the inventory grand totals.
type InventoryResponse struct {
	TotalValue   float64                       `json:"total_value"`
	ProductCount int                           `json:"product_count"`
	ByDepartment map[string]DepartmentStockDTO `json:"by_department"`
}

// DepartmentStockDTO represents a per-department stock position.
type DepartmentStockDTO struct {
	Quantity int64   `json:"quantity"`
	Value    float64 `json:"value"`
}

// ComparisonResponse represents the response for the period comparison API.
type ComparisonResponse struct {
	Data ComparisonData `json:"data"`
}

// ComparisonData represents the data section of the comparison response.
type ComparisonData struct {
	Mode     string         `json:"mode"`
	Current  ComparisonSide `json:"current"`
	Previous ComparisonSide `json:"previous"`
	Deltas   DeltasResponse `json:"deltas"`
}

// ComparisonSide represents one side of a period comparison.
type ComparisonSide struct {
	Period  PeriodResponse  `json:"period"`
	Figures FiguresResponse `json:"figures"`
}

// DeltasResponse represents the period-over-period movements.
type DeltasResponse struct {
	SalesChangePct   float64 `json:"sales_change_pct"`
	ExpenseChangePct float64 `json:"expense_change_pct"`
	CostChangePct    float64 `json:"cost_change_pct"`
	PayrollChangePct float64 `json:"payroll_change_pct"`
	ProfitChangePct  float64 `json:"profit_change_pct"`
	MarginChangePts  float64 `json:"margin_change_pts"`
}

// LowStockResponse represents the response for the low stock API.
type LowStockResponse struct {
	Data []LowStockItemResponse `json:"data"`
}

// LowStockItemResponse represents one reorder candidate.
type LowStockItemResponse struct {
	ItemName   string `json:"item_name"`
	Department string `json:"department"`
	Quantity   int64  `json:"quantity"`
}

// ToSummaryResponse converts a GetSummaryOutput to the response DTO.
func ToSummaryResponse(output *report.GetSummaryOutput) SummaryResponse {
	skipped := make([]SkippedRowResponse, len(output.SkippedRows))
	for i, s := range output.SkippedRows {
		skipped[i] = SkippedRowResponse{Source: s.Source, Index: s.Index, Reason: s.Reason}
	}

	return SummaryResponse{
		Data: SummaryData{
			Period:      toPeriod(output.Figures.Aggregate),
			Figures:     toFigures(output.Figures),
			Inventory:   toInventory(output.Inventory),
			SkippedRows: skipped,
		},
	}
}

// ToComparisonResponse converts a ComparePeriodsOutput to the response DTO.
func ToComparisonResponse(output *report.ComparePeriodsOutput) ComparisonResponse {
	return ComparisonResponse{
		Data: ComparisonData{
			Mode: string(output.Mode),
			Current: ComparisonSide{
				Period:  toPeriod(output.Current.Aggregate),
				Figures: toFigures(output.Current),
			},
			Previous: ComparisonSide{
				Period:  toPeriod(output.Previous.Aggregate),
				Figures: toFigures(output.Previous),
			},
			Deltas: DeltasResponse{
				SalesChangePct:   toFloat(output.Deltas.SalesChangePct),
				ExpenseChangePct: toFloat(output.Deltas.ExpenseChangePct),
				CostChangePct:    toFloat(output.Deltas.CostChangePct),
				PayrollChangePct: toFloat(output.Deltas.PayrollChangePct),
				ProfitChangePct:  toFloat(output.Deltas.ProfitChangePct),
				MarginChangePts:  toFloat(output.Deltas.MarginChangePts),
			},
		},
	}
}

// ToLowStockResponse converts the reorder candidates to the response DTO.
func ToLowStockResponse(items []entity.LowStockItem) LowStockResponse {
	data := make([]LowStockItemResponse, len(items))
	for i, item := range items {
		data[i] = LowStockItemResponse{
			ItemName:   item.ItemName,
			Department: item.Department,
			Quantity:   item.Quantity,
		}
	}
	return LowStockResponse{Data: data}
}

func toPeriod(agg *report.PeriodAggregate) PeriodResponse {
	return PeriodResponse{
		StartDate: agg.StartDate,
		EndDate:   agg.EndDate,
		Days:      agg.Days,
	}
}

func toFigures(figures report.PeriodFigures) FiguresResponse {
	agg := figures.Aggregate
	return FiguresResponse{
		TotalSales:         toFloat(agg.TotalSales),
		TransactionCount:   agg.TransactionCount,
		UnitCount:          agg.UnitCount,
		AverageTicket:      toFloat(agg.AverageTicket),
		TotalCosts:         toFloat(agg.TotalCosts),
		TotalExpenses:      toFloat(agg.TotalExpenses),
		TotalPayroll:       toFloat(agg.TotalPayroll),
		TotalHours:         toFloat(agg.TotalHours),
		GrossMarginPct:     toFloat(figures.GrossMarginPct),
		NetProfit:          toFloat(figures.NetProfit),
		LaborCostPct:       toFloat(figures.LaborCostPct),
		InventoryTurnover:  toFloat(figures.InventoryTurnover),
		SalesByDepartment:  toFloatMap(agg.SalesByDepartment),
		ExpensesByCategory: toFloatMap(agg.ExpensesByCategory),
		CostsByCategory:    toFloatMap(agg.CostsByCategory),
		PayrollByEmployee:  toFloatMap(agg.PayrollByEmployee),
		PayrollByPosition:  toFloatMap(agg.PayrollByPosition),
	}
}

func toInventory(inv report.InventoryTotals) InventoryResponse {
	byDepartment := make(map[string]DepartmentStockDTO, len(inv.ByDepartment))
	for name, stock := range inv.ByDepartment {
		byDepartment[name] = DepartmentStockDTO{
			Quantity: stock.Quantity,
			Value:    toFloat(stock.Value),
		}
	}
	return InventoryResponse{
		TotalValue:   toFloat(inv.TotalValue),
		ProductCount: inv.ProductCount,
		ByDepartment: byDepartment,
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func toFloatMap(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = toFloat(v)
	}
	return out
}
