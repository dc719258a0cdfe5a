package order

import (
	"testing"

	"github.com/electric-hospitality/catering-api/internal/menu"
	"github.com/shopspring/decimal"
)

func testCatalog() menu.Catalog {
	return menu.Catalog{
		"mains": {
			{Name: "Wings", Price: decimal.RequireFromString("24.00")},
			{Name: "Brisket", Price: decimal.RequireFromString("18.50")},
		},
		"sides": {
			{Name: "Slaw", Price: decimal.RequireFromString("6.25")},
		},
	}
}

func TestLedgerSubtotal(t *testing.T) {
	l := NewLedger(testCatalog())
	l.SetQuantity("Wings", 2)
	l.SetQuantity("Slaw", 3)

	want := decimal.RequireFromString("66.75") // 2*24 + 3*6.25
	if !l.Subtotal().Equal(want) {
		t.Errorf("subtotal: got %s, want %s", l.Subtotal(), want)
	}
}

func TestLedgerTotalEqualsSubtotalPlusTax(t *testing.T) {
	l := NewLedger(testCatalog())
	l.SetQuantity("Brisket", 3)

	rate := decimal.RequireFromString("0.089")
	sub := l.Subtotal()
	tax := l.Tax(rate)
	total := l.Total(rate)

	if !total.Equal(sub.Add(tax)) {
		t.Errorf("total %s != subtotal %s + tax %s", total, sub, tax)
	}
}

func TestLedgerQuantityNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"int", 3, 3},
		{"string digits", "4", 4},
		{"string float", "2.9", 2},
		{"negative", -5, 0},
		{"garbage", "abc", 0},
		{"float", 2.0, 2},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(testCatalog())
			l.SetQuantity("Wings", tt.input)
			if got := l.Quantity("Wings"); got != tt.want {
				t.Errorf("SetQuantity(%v): got %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLedgerUnknownItemIgnored(t *testing.T) {
	l := NewLedger(testCatalog())
	l.SetQuantity("Unicorn Tray", 5)
	if !l.Subtotal().IsZero() {
		t.Errorf("expected zero subtotal, got %s", l.Subtotal())
	}
}

func TestLedgerZeroRemovesLine(t *testing.T) {
	l := NewLedger(testCatalog())
	l.SetQuantity("Wings", 2)
	l.SetQuantity("Wings", 0)

	if len(l.Summary()) != 0 {
		t.Errorf("expected no lines, got %d", len(l.Summary()))
	}
	if l.CanSubmit() {
		t.Error("expected CanSubmit to be false for an empty order")
	}
}

func TestLedgerSummary(t *testing.T) {
	l := NewLedger(testCatalog())
	l.SetQuantity("Slaw", 2)
	l.SetQuantity("Wings", 1)

	lines := l.Summary()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// Sorted by name.
	if lines[0].Name != "Slaw" || lines[1].Name != "Wings" {
		t.Errorf("unexpected order: %v", lines)
	}
	if lines[0].Subtotal != "12.50" {
		t.Errorf("slaw subtotal: got %s, want 12.50", lines[0].Subtotal)
	}
}

func TestLedgerObserverNotified(t *testing.T) {
	l := NewLedger(testCatalog())
	calls := 0
	l.Subscribe(func() { calls++ })

	l.SetQuantity("Wings", 1)
	l.SetQuantity("Wings", 2)
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}
}
