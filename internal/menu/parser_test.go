package menu

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseRows(t *testing.T) {
	rows := [][]string{
		{"Item", "Price", "Unit", "Serves"},
		{"Wings", "$24.00", "dozen", "Serves 4-6"},
		{"Tossed in your choice of sauce"},
		{"", "ignored row"},
		{"Price per tray", "10"},
		{"Veggie Tray", "45", "", "Serves 10"},
	}

	items := ParseRows(rows)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	wings := items[0]
	if wings.Name != "Wings" {
		t.Errorf("name: got %q, want Wings", wings.Name)
	}
	if !wings.Price.Equal(decimal.NewFromInt(24)) {
		t.Errorf("price: got %s, want 24", wings.Price)
	}
	if wings.Unit != "dozen" {
		t.Errorf("unit: got %q, want dozen", wings.Unit)
	}
	if wings.ServingSuggestion != "Serves 4-6" {
		t.Errorf("serving suggestion: got %q", wings.ServingSuggestion)
	}
	if wings.Description != "Tossed in your choice of sauce" {
		t.Errorf("description: got %q", wings.Description)
	}

	veggie := items[1]
	if veggie.Unit != "1" {
		t.Errorf("default unit: got %q, want 1", veggie.Unit)
	}
	if veggie.Description != "" {
		t.Errorf("description: got %q, want empty", veggie.Description)
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	items := ParseRows([][]string{{"Item", "Price"}})
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestParseRowsEmpty(t *testing.T) {
	if items := ParseRows(nil); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestParseRowsOrphanDescription(t *testing.T) {
	// A description row before any item is dropped, not attached.
	rows := [][]string{
		{"Item", "Price"},
		{"Stray description line"},
		{"Brisket", "18.50", "lb"},
	}
	items := ParseRows(rows)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Description != "" {
		t.Errorf("expected no description, got %q", items[0].Description)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$12.50 ea", "12.5"},
		{"24", "24"},
		{"$1,000", "1000"},
		{"market price", "0"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parsePrice(tt.input)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("parsePrice(%q): got %s, want %s", tt.input, got, want)
			}
		})
	}
}
