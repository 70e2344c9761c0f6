package report

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestGrossMarginPct(t *testing.T) {
	tests := []struct {
		name  string
		sales string
		costs string
		want  string
	}{
		{"typical margin", "1000", "600", "40"},
		{"zero costs", "1000", "0", "100"},
		{"zero sales", "0", "600", "0"},
		{"costs above sales", "100", "150", "-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GrossMarginPct(dec(tt.sales), dec(tt.costs))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNetProfit(t *testing.T) {
	got := NetProfit(dec("1000"), dec("400"), dec("200"), dec("150"))
	if !got.Equal(dec("250")) {
		t.Errorf("expected 250, got %s", got)
	}

	loss := NetProfit(dec("100"), dec("400"), dec("200"), dec("150"))
	if !loss.Equal(dec("-650")) {
		t.Errorf("expected -650, got %s", loss)
	}
}

func TestLaborCostPct(t *testing.T) {
	got := LaborCostPct(dec("200"), dec("1000"))
	if !got.Equal(dec("20")) {
		t.Errorf("expected 20, got %s", got)
	}
	if !LaborCostPct(dec("200"), decimal.Zero).IsZero() {
		t.Error("expected zero labor pct on zero sales")
	}
}

func TestAverageTicket(t *testing.T) {
	got := AverageTicket(dec("800"), 4)
	if !got.Equal(dec("200")) {
		t.Errorf("expected 200, got %s", got)
	}
	if !AverageTicket(dec("800"), 0).IsZero() {
		t.Error("expected zero average ticket on zero transactions")
	}
}

func TestInventoryTurnover(t *testing.T) {
	// One month of sales annualized against the stock position.
	got := InventoryTurnover(dec("1000"), dec("3000"), dec("12"))
	if !got.Equal(dec("4")) {
		t.Errorf("expected 4, got %s", got)
	}
	if !InventoryTurnover(dec("1000"), decimal.Zero, dec("12")).IsZero() {
		t.Error("expected zero turnover on zero inventory")
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"growth", "120", "100", "20"},
		{"decline", "80", "100", "-20"},
		{"flat", "100", "100", "0"},
		{"zero previous", "50", "0", "0"},
		{"both zero", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentChange(dec(tt.current), dec(tt.previous))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPointChange(t *testing.T) {
	got := PointChange(dec("42.5"), dec("40"))
	if !got.Equal(dec("2.5")) {
		t.Errorf("expected 2.5, got %s", got)
	}
}
