package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/application/adapter"
	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/domain/entity"
	domainerror "github.com/storeledger/backend/internal/domain/error"
)

// AlertThresholds are the trigger levels for the comparison-driven alerts.
type AlertThresholds struct {
	SalesDropPct      decimal.Decimal // sales change below the negated value is critical
	SalesJumpPct      decimal.Decimal // sales change above it is a success note
	ExpenseRisePct    decimal.Decimal // expense change above it is a warning
	MinGrossMarginPct decimal.Decimal // margin below it is critical
}

// DefaultAlertThresholds returns the stock trigger levels.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		SalesDropPct:      decimal.NewFromInt(5),
		SalesJumpPct:      decimal.NewFromInt(20),
		ExpenseRisePct:    decimal.NewFromInt(10),
		MinGrossMarginPct: decimal.NewFromInt(20),
	}
}

// GenerateAlertsInput represents the input for an alert evaluation.
type GenerateAlertsInput struct {
	PeriodLabel string
	Comparison  *report.ComparePeriodsOutput
	Thresholds  AlertThresholds

	// SendDigest also delivers the triggered alerts through the configured
	// notifier. Delivery failures are logged, never returned.
	SendDigest bool
}

// GenerateAlertsOutput represents the triggered alerts.
type GenerateAlertsOutput struct {
	Alerts []entity.Alert `json:"alerts"`
}

// GenerateAlertsUseCase evaluates a period comparison against thresholds.
type GenerateAlertsUseCase struct {
	notifier adapter.AlertNotifier
}

// NewGenerateAlertsUseCase creates a new GenerateAlertsUseCase instance.
func NewGenerateAlertsUseCase(notifier adapter.AlertNotifier) *GenerateAlertsUseCase {
	return &GenerateAlertsUseCase{notifier: notifier}
}

// Execute evaluates the thresholds in a fixed order so the alert listing is
// stable for a given comparison.
func (uc *GenerateAlertsUseCase) Execute(ctx context.Context, input GenerateAlertsInput) (*GenerateAlertsOutput, error) {
	if input.Comparison == nil {
		return nil, domainerror.NewAdvisorError(
			domainerror.ErrCodeAdvisorInternalError,
			"a period comparison is required to evaluate alerts",
			nil,
		)
	}

	alerts := evaluate(input.Comparison, input.Thresholds)

	if input.SendDigest && len(alerts) > 0 && uc.notifier != nil {
		if err := uc.notifier.SendDigest(ctx, input.PeriodLabel, alerts); err != nil {
			slog.Warn("Alert digest delivery failed", "error", err)
		}
	}

	return &GenerateAlertsOutput{Alerts: alerts}, nil
}

func evaluate(c *report.ComparePeriodsOutput, t AlertThresholds) []entity.Alert {
	var alerts []entity.Alert

	salesChange := c.Deltas.SalesChangePct
	if salesChange.LessThan(t.SalesDropPct.Neg()) {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertCritical,
			Message: fmt.Sprintf("Sales dropped %s%% versus the previous period.",
				salesChange.Abs().StringFixed(1)),
			Recommendation: "Review pricing and promotions on the top departments and check for stockouts.",
		})
	}

	if c.Deltas.ExpenseChangePct.GreaterThan(t.ExpenseRisePct) {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertWarning,
			Message: fmt.Sprintf("Expenses grew %s%% versus the previous period.",
				c.Deltas.ExpenseChangePct.StringFixed(1)),
			Recommendation: "Go through the expense categories with the largest increase and renegotiate recurring costs.",
		})
	}

	if c.Current.GrossMarginPct.LessThan(t.MinGrossMarginPct) {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertCritical,
			Message: fmt.Sprintf("Gross margin is %s%%, below the %s%% floor.",
				c.Current.GrossMarginPct.StringFixed(1), t.MinGrossMarginPct.StringFixed(0)),
			Recommendation: "Check supplier prices against shelf prices; low-margin departments may need repricing.",
		})
	}

	if salesChange.GreaterThan(t.SalesJumpPct) {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertSuccess,
			Message: fmt.Sprintf("Sales grew %s%% versus the previous period.",
				salesChange.StringFixed(1)),
			Recommendation: "Keep the current assortment and make sure the fast movers stay stocked.",
		})
	}

	return alerts
}
