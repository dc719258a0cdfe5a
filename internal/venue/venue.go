package venue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Venue kinds. Delivery venues enforce a minimum lead time on the requested
// delivery date; pickup venues instead offer an enumerated set of order
// deadlines.
const (
	KindDelivery = "DELIVERY"
	KindPickup   = "PICKUP"
)

// ErrUnknownVenue is returned by ByKey for keys outside the registry.
var ErrUnknownVenue = errors.New("unknown venue")

// Section is one named menu section backed by a Google Sheets range.
// Optional sections (desserts on venues without them) fail silently when the
// range is absent instead of surfacing a load error.
type Section struct {
	Name     string
	Range    string
	Optional bool
}

// Venue is the explicit per-storefront configuration that the original site
// inferred from the page environment. Selected once at session start and
// passed to every component.
type Venue struct {
	Key         string
	DisplayName string
	Kind        string

	TaxRate     decimal.Decimal
	MinLeadTime time.Duration

	Sections []Section

	// Tripleseat wiring. SkipLead venues never create CRM leads.
	SkipLead        bool
	TripleseatVenue string
	EventTypeID     string
	LeadSourceID    string
	Rooms           map[string]string

	// Pickup venues only: weekday and hour of the recurring order deadline.
	DeadlineWeekday time.Weekday
	DeadlineHour    int
}

var registry = map[string]*Venue{
	"ladybird": {
		Key:         "ladybird",
		DisplayName: "Ladybird",
		Kind:        KindDelivery,
		TaxRate:     decimal.NewFromFloat(0.089),
		MinLeadTime: 72 * time.Hour,
		Sections: []Section{
			{Name: "mains", Range: "Mains!A2:D14"},
			{Name: "sides", Range: "Sides!A2:D10"},
			{Name: "desserts", Range: "Desserts!A2:D6", Optional: true},
		},
		TripleseatVenue: "18694",
		EventTypeID:     "1",
		LeadSourceID:    "112995",
		Rooms: map[string]string{
			"Unassigned":            "219793",
			"Off-Site":              "219803",
			"Buyout":                "219804",
			"Flag Room":             "219806",
			"The Deck on The Grove": "219808",
			"Argosy Trailer Area":   "219811",
			"Inside Only":           "219812",
			"Lanai Room":            "219813",
			"The Ranger Station":    "260477",
			"Black Bear Bar":        "260478",
			"The Patio":             "263401",
			"The Grove":             "269825",
			"Happy Traveler":        "284432",
		},
	},
	"muchacho": {
		Key:         "muchacho",
		DisplayName: "Muchacho",
		Kind:        KindDelivery,
		TaxRate:     decimal.NewFromFloat(0.089),
		MinLeadTime: 72 * time.Hour,
		Sections: []Section{
			{Name: "mains", Range: "Mains!A2:D20"},
			{Name: "sides", Range: "Sides!A2:D12"},
		},
		TripleseatVenue: "18695",
		EventTypeID:     "1",
		LeadSourceID:    "112995",
		Rooms: map[string]string{
			"Unassigned":    "219792",
			"Inside Only":   "219796",
			"BUY-OUT":       "219797",
			"Patio 2":       "219800",
			"Off-Site":      "219805",
			"Pick-up Order": "219807",
			"Patio":         "219809",
			"TigerSun":      "383127",
		},
	},
	"dug-out": {
		Key:         "dug-out",
		DisplayName: "The Dug-Out",
		Kind:        KindDelivery,
		TaxRate:     decimal.Zero,
		MinLeadTime: 72 * time.Hour,
		Sections: []Section{
			{Name: "mains", Range: "Mains!A2:D16"},
			{Name: "sides", Range: "Sides!A2:D8"},
		},
		TripleseatVenue: "20521",
		EventTypeID:     "1",
		LeadSourceID:    "112995",
		Rooms: map[string]string{
			"Unassigned":    "241847",
			"Electric Room": "288107",
			"Off-Site":      "241847",
		},
	},
	"family-meal": {
		Key:         "family-meal",
		DisplayName: "Family Meal",
		Kind:        KindPickup,
		TaxRate:     decimal.NewFromFloat(0.089),
		Sections: []Section{
			{Name: "meals", Range: "Meals!A2:D20"},
			{Name: "extras", Range: "Extras!A2:D10", Optional: true},
		},
		SkipLead:        true,
		DeadlineWeekday: time.Wednesday,
		DeadlineHour:    17,
	},
}

// ByKey looks up a venue by its URL key.
func ByKey(key string) (*Venue, error) {
	v, ok := registry[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVenue, key)
	}
	return v, nil
}

// Keys returns all registered venue keys.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}

// EarliestDelivery returns the minimum allowed delivery time as of now.
func (v *Venue) EarliestDelivery(now time.Time) time.Time {
	return now.Add(v.MinLeadTime)
}

// PickupWindows is how many upcoming order deadlines a pickup venue
// offers. The menu surfaces exactly this many and order validation
// accepts no others.
const PickupWindows = 4

// PickupDeadlines enumerates the next n order deadlines for a pickup venue.
// Deadlines recur weekly on DeadlineWeekday at DeadlineHour local time.
func (v *Venue) PickupDeadlines(now time.Time, n int) []time.Time {
	if v.Kind != KindPickup {
		return nil
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), v.DeadlineHour, 0, 0, 0, now.Location())
	for next.Weekday() != v.DeadlineWeekday || !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	deadlines := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		deadlines = append(deadlines, next.AddDate(0, 0, 7*i))
	}
	return deadlines
}

// RoomID resolves a free-text delivery location to a Tripleseat room ID.
// Matches room names case-insensitively as substrings; when several names
// match, the longest one wins so nested names like "The Deck on The Grove"
// resolve to the most specific room. External-looking locations fall back
// to Off-Site, then Unassigned.
func (v *Venue) RoomID(location string) string {
	if len(v.Rooms) == 0 || location == "" {
		return v.Rooms["Unassigned"]
	}

	loc := strings.ToLower(location)
	var matchName, matchID string
	for name, id := range v.Rooms {
		if name == "Unassigned" || name == "Off-Site" {
			continue
		}
		if !strings.Contains(loc, strings.ToLower(name)) {
			continue
		}
		if len(name) > len(matchName) || (len(name) == len(matchName) && name < matchName) {
			matchName, matchID = name, id
		}
	}
	if matchID != "" {
		return matchID
	}

	if !strings.Contains(loc, "onsite") && !strings.Contains(loc, "on-site") {
		if id, ok := v.Rooms["Off-Site"]; ok {
			return id
		}
	}
	return v.Rooms["Unassigned"]
}
