// Package advisor contains the financial advice and alerting use cases.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/storeledger/backend/internal/application/adapter"
	"github.com/storeledger/backend/internal/application/usecase/report"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// AnswerQuestionInput represents the input for an advisor question.
type AnswerQuestionInput struct {
	Question    string
	PeriodLabel string
	Comparison  *report.ComparePeriodsOutput
}

// AnswerQuestionOutput represents the advisor's answer.
type AnswerQuestionOutput struct {
	Answer string `json:"answer"`

	// Generated is true when the answer came from the AI backend rather
	// than the built-in keyword responses.
	Generated bool `json:"generated"`
}

// AnswerQuestionUseCase answers free-form questions about the store's
// figures. When an AI backend is configured it drafts the answer; otherwise
// a keyword match over the comparison figures produces a canned one.
type AnswerQuestionUseCase struct {
	advice adapter.AdviceService
}

// NewAnswerQuestionUseCase creates a new AnswerQuestionUseCase instance.
func NewAnswerQuestionUseCase(advice adapter.AdviceService) *AnswerQuestionUseCase {
	return &AnswerQuestionUseCase{advice: advice}
}

// Execute answers the question. An AI failure falls back to the canned
// answer rather than surfacing an error.
func (uc *AnswerQuestionUseCase) Execute(ctx context.Context, input AnswerQuestionInput) (*AnswerQuestionOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, domainerror.NewAdvisorError(
			domainerror.ErrCodeEmptyQuestion,
			"question is required",
			domainerror.ErrEmptyQuestion,
		)
	}
	if input.Comparison == nil {
		return nil, domainerror.NewAdvisorError(
			domainerror.ErrCodeAdvisorInternalError,
			"a period comparison is required to ground the answer",
			nil,
		)
	}

	if uc.advice != nil && uc.advice.IsAvailable() {
		answer, err := uc.advice.Answer(ctx, buildAdviceRequest(question, input.PeriodLabel, input.Comparison))
		if err == nil && strings.TrimSpace(answer) != "" {
			return &AnswerQuestionOutput{Answer: answer, Generated: true}, nil
		}
		slog.Warn("AI advice failed, using canned answer", "error", err)
	}

	return &AnswerQuestionOutput{Answer: cannedAnswer(question, input.PeriodLabel, input.Comparison)}, nil
}

func buildAdviceRequest(question, periodLabel string, c *report.ComparePeriodsOutput) *adapter.AdviceRequest {
	return &adapter.AdviceRequest{
		Question:       question,
		PeriodLabel:    periodLabel,
		TotalSales:     c.Current.Aggregate.TotalSales.StringFixed(2),
		TotalExpenses:  c.Current.Aggregate.TotalExpenses.StringFixed(2),
		TotalPayroll:   c.Current.Aggregate.TotalPayroll.StringFixed(2),
		GrossMarginPct: c.Current.GrossMarginPct.StringFixed(1),
		NetProfit:      c.Current.NetProfit.StringFixed(2),
		SalesChangePct: c.Deltas.SalesChangePct.StringFixed(1),
	}
}

// cannedAnswer matches the question against known topics and responds with
// the figures of the current comparison.
func cannedAnswer(question, periodLabel string, c *report.ComparePeriodsOutput) string {
	q := strings.ToLower(question)
	cur := c.Current

	switch {
	case containsAny(q, "venta", "vend", "sales", "revenue"):
		return fmt.Sprintf(
			"Sales for %s were $%s across %d transactions (average ticket $%s), a %s%% change versus the previous period.",
			periodLabel,
			cur.Aggregate.TotalSales.StringFixed(2),
			cur.Aggregate.TransactionCount,
			cur.Aggregate.AverageTicket.StringFixed(2),
			c.Deltas.SalesChangePct.StringFixed(1),
		)
	case containsAny(q, "margen", "margin", "ganancia", "profit", "utilidad"):
		return fmt.Sprintf(
			"Gross margin for %s was %s%% (%s points versus the previous period) with a net profit of $%s.",
			periodLabel,
			cur.GrossMarginPct.StringFixed(1),
			c.Deltas.MarginChangePts.StringFixed(1),
			cur.NetProfit.StringFixed(2),
		)
	case containsAny(q, "gasto", "expense", "costo", "cost"):
		return fmt.Sprintf(
			"Expenses for %s totalled $%s and cost of goods $%s; expenses moved %s%% versus the previous period.",
			periodLabel,
			cur.Aggregate.TotalExpenses.StringFixed(2),
			cur.Aggregate.TotalCosts.StringFixed(2),
			c.Deltas.ExpenseChangePct.StringFixed(1),
		)
	case containsAny(q, "nomina", "nómina", "payroll", "sueldo", "empleado", "labor"):
		return fmt.Sprintf(
			"Payroll for %s was $%s (%s%% of sales) over %s worked hours.",
			periodLabel,
			cur.Aggregate.TotalPayroll.StringFixed(2),
			cur.LaborCostPct.StringFixed(1),
			cur.Aggregate.TotalHours.StringFixed(1),
		)
	case containsAny(q, "cliente", "ticket", "customer", "transac"):
		return fmt.Sprintf(
			"The store served %d baskets in %s with an average ticket of $%s.",
			cur.Aggregate.TransactionCount,
			periodLabel,
			cur.Aggregate.AverageTicket.StringFixed(2),
		)
	case containsAny(q, "inventario", "inventory", "stock"):
		return fmt.Sprintf(
			"Inventory on hand is valued at $%s across %d stocked products.",
			cur.Aggregate.TotalInventoryValue.StringFixed(2),
			cur.Aggregate.ProductCount,
		)
	default:
		return fmt.Sprintf(
			"For %s: sales $%s (%s%%), gross margin %s%%, net profit $%s. Ask about sales, margin, expenses, payroll, customers or inventory for more detail.",
			periodLabel,
			cur.Aggregate.TotalSales.StringFixed(2),
			c.Deltas.SalesChangePct.StringFixed(1),
			cur.GrossMarginPct.StringFixed(1),
			cur.NetProfit.StringFixed(2),
		)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
