package advisor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/storeledger/backend/internal/application/usecase/report"
	"github.com/storeledger/backend/internal/domain/entity"
)

type stubNotifier struct {
	sent   int
	label  string
	alerts []entity.Alert
	err    error
}

func (s *stubNotifier) SendDigest(ctx context.Context, periodLabel string, alerts []entity.Alert) error {
	s.sent++
	s.label = periodLabel
	s.alerts = alerts
	return s.err
}

func comparison(sales, prevSales, expenses, prevExpenses, costs string) *report.ComparePeriodsOutput {
	dec := decimal.RequireFromString
	cur := &report.PeriodAggregate{
		TotalSales:    dec(sales),
		TotalExpenses: dec(expenses),
		TotalCosts:    dec(costs),
	}
	prev := &report.PeriodAggregate{
		TotalSales:    dec(prevSales),
		TotalExpenses: dec(prevExpenses),
	}
	return &report.ComparePeriodsOutput{
		Current: report.PeriodFigures{
			Aggregate:      cur,
			GrossMarginPct: report.GrossMarginPct(cur.TotalSales, cur.TotalCosts),
		},
		Previous: report.PeriodFigures{Aggregate: prev},
		Deltas: report.Deltas{
			SalesChangePct:   report.PercentChange(cur.TotalSales, prev.TotalSales),
			ExpenseChangePct: report.PercentChange(cur.TotalExpenses, prev.TotalExpenses),
		},
	}
}

func TestGenerateAlerts(t *testing.T) {
	uc := NewGenerateAlertsUseCase(nil)

	tests := []struct {
		name           string
		comparison     *report.ComparePeriodsOutput
		wantSeverities []entity.AlertSeverity
	}{
		{
			name:           "sales drop is critical",
			comparison:     comparison("800", "1000", "100", "100", "400"),
			wantSeverities: []entity.AlertSeverity{entity.AlertCritical},
		},
		{
			name:           "expense growth is a warning",
			comparison:     comparison("1000", "1000", "230", "200", "400"),
			wantSeverities: []entity.AlertSeverity{entity.AlertWarning},
		},
		{
			name:           "thin margin is critical",
			comparison:     comparison("1000", "1000", "100", "100", "900"),
			wantSeverities: []entity.AlertSeverity{entity.AlertCritical},
		},
		{
			name:           "sales jump is a success note",
			comparison:     comparison("1300", "1000", "100", "100", "400"),
			wantSeverities: []entity.AlertSeverity{entity.AlertSuccess},
		},
		{
			name:           "quiet period triggers nothing",
			comparison:     comparison("1020", "1000", "102", "100", "400"),
			wantSeverities: nil,
		},
		{
			name:       "multiple triggers stack in order",
			comparison: comparison("800", "1000", "250", "200", "700"),
			wantSeverities: []entity.AlertSeverity{
				entity.AlertCritical, // sales drop
				entity.AlertWarning,  // expense growth
				entity.AlertCritical, // thin margin
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := uc.Execute(context.Background(), GenerateAlertsInput{
				PeriodLabel: "this week",
				Comparison:  tt.comparison,
				Thresholds:  DefaultAlertThresholds(),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(output.Alerts) != len(tt.wantSeverities) {
				t.Fatalf("expected %d alerts, got %+v", len(tt.wantSeverities), output.Alerts)
			}
			for i, want := range tt.wantSeverities {
				if output.Alerts[i].Severity != want {
					t.Errorf("alert %d: expected %s, got %s", i, want, output.Alerts[i].Severity)
				}
				if output.Alerts[i].Recommendation == "" {
					t.Errorf("alert %d: expected a recommendation", i)
				}
			}
		})
	}
}

func TestGenerateAlertsSendsDigest(t *testing.T) {
	notifier := &stubNotifier{}
	uc := NewGenerateAlertsUseCase(notifier)

	_, err := uc.Execute(context.Background(), GenerateAlertsInput{
		PeriodLabel: "this week",
		Comparison:  comparison("800", "1000", "100", "100", "400"),
		Thresholds:  DefaultAlertThresholds(),
		SendDigest:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.sent != 1 || notifier.label != "this week" || len(notifier.alerts) != 1 {
		t.Errorf("expected one digest with one alert, got %+v", notifier)
	}

	// Nothing triggered, nothing delivered.
	notifier.sent = 0
	_, err = uc.Execute(context.Background(), GenerateAlertsInput{
		Comparison: comparison("1000", "1000", "100", "100", "400"),
		Thresholds: DefaultAlertThresholds(),
		SendDigest: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notifier.sent != 0 {
		t.Error("an empty alert listing must not be delivered")
	}
}
