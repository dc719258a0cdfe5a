package order

import (
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/electric-hospitality/catering-api/internal/menu"
	"github.com/shopspring/decimal"
)

// Line is one item with a selected quantity and its computed subtotal,
// formatted for submission.
type Line struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

// Ledger holds per-item quantities for one session and derives subtotal,
// tax, and total. Totals are always recomputed from the lines, never stored.
type Ledger struct {
	mu         sync.RWMutex
	catalog    menu.Catalog
	quantities map[string]int
	observers  []func()
}

// NewLedger creates an empty ledger over the given catalog.
func NewLedger(catalog menu.Catalog) *Ledger {
	return &Ledger{
		catalog:    catalog,
		quantities: make(map[string]int),
	}
}

// Subscribe registers fn to run after every quantity change. The UI layer
// subscribes to recompute its displays.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

// SetQuantity sets an item's quantity. Accepts the loosely typed values the
// order form produces: negative, fractional and non-numeric inputs all
// normalize to 0. Unknown item names are ignored.
func (l *Ledger) SetQuantity(name string, qty any) {
	if _, ok := l.catalog.Find(name); !ok {
		return
	}

	n := normalizeQuantity(qty)

	l.mu.Lock()
	if n == 0 {
		delete(l.quantities, name)
	} else {
		l.quantities[name] = n
	}
	observers := l.observers
	l.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// Quantity returns the current quantity for an item.
func (l *Ledger) Quantity(name string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.quantities[name]
}

// Subtotal is Σ(quantity × price) over all lines, at full precision.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.subtotalLocked()
}

func (l *Ledger) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for name, qty := range l.quantities {
		item, ok := l.catalog.Find(name)
		if !ok {
			continue
		}
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum
}

// Tax is subtotal × rate at full precision.
func (l *Ledger) Tax(rate decimal.Decimal) decimal.Decimal {
	return l.Subtotal().Mul(rate)
}

// Total is subtotal + tax.
func (l *Ledger) Total(rate decimal.Decimal) decimal.Decimal {
	sub := l.Subtotal()
	return sub.Add(sub.Mul(rate))
}

// CanSubmit reports whether the order has anything in it. The submit action
// stays disabled while this is false.
func (l *Ledger) CanSubmit() bool {
	return l.Subtotal().IsPositive()
}

// Summary returns only the lines with quantity > 0, each with its subtotal
// rounded to 2 decimal places at this formatting boundary. Lines are sorted
// by name for stable output.
func (l *Ledger) Summary() []Line {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := make([]Line, 0, len(l.quantities))
	for name, qty := range l.quantities {
		item, ok := l.catalog.Find(name)
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Name:     name,
			Quantity: qty,
			Subtotal: item.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// normalizeQuantity clamps to a non-negative integer; anything unparseable
// becomes 0.
func normalizeQuantity(v any) int {
	var n int
	switch q := v.(type) {
	case int:
		n = q
	case int32:
		n = int(q)
	case int64:
		n = int(q)
	case float64:
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return 0
		}
		n = int(q)
	case string:
		parsed, err := strconv.Atoi(q)
		if err != nil {
			f, ferr := strconv.ParseFloat(q, 64)
			if ferr != nil {
				return 0
			}
			parsed = int(f)
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}
