package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one orderable menu line parsed from the sheet.
type Item struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Unit              string          `json:"unit"`
	Measurement       string          `json:"measurement"`
	Description       string          `json:"description"`
	ServingSuggestion string          `json:"serving_suggestion"`
}

// ParseRows converts raw sheet rows into menu items.
//
// Row 0 is a header label row and is dropped. A row with a non-empty second
// cell opens a new item; a following row with an empty second cell is that
// item's description. Rows with an empty first cell, rows whose first cell
// mentions "price" (stray headers) and description rows with no open item
// are skipped.
func ParseRows(rows [][]string) []Item {
	var items []Item
	var current *Item

	if len(rows) > 0 {
		rows = rows[1:]
	}

	for _, row := range rows {
		first := cell(row, 0)
		if first == "" || strings.Contains(strings.ToLower(first), "price") {
			continue
		}

		if second := cell(row, 1); second != "" {
			meas := cell(row, 3)
			unit := cell(row, 2)
			if unit == "" {
				unit = "1"
			}
			items = append(items, Item{
				Name:              first,
				Price:             parsePrice(second),
				Unit:              unit,
				Measurement:       meas,
				ServingSuggestion: meas,
			})
			current = &items[len(items)-1]
		} else if current != nil {
			current.Description = first
		}
	}

	return items
}

// parsePrice strips everything but digits and periods before conversion, so
// "$12.50 ea" parses as 12.50. Malformed or absent prices default to 0.
func parsePrice(s string) decimal.Decimal {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
