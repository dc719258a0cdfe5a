package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/electric-hospitality/catering-api/internal/venue"
)

// Party size selection modes.
const (
	PartySizeExact = "exact"
	PartySizeRange = "range"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^[0-9\s\-()]+$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// Contact is the required contact block of every order.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Delivery carries the venue-variant delivery/pickup fields. Delivery venues
// use Location (or Address/City/Zip) plus Date and Time; pickup venues use
// Deadline, chosen from the venue's enumerated windows.
type Delivery struct {
	Location string `json:"location"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
	Date     string `json:"date"` // 2006-01-02
	Time     string `json:"time"` // 15:04
	Deadline string `json:"deadline"`
}

// PartySize is either an exact count or a min/max range.
type PartySize struct {
	Mode  string `json:"mode"`
	Exact string `json:"exact"`
	Min   string `json:"min"`
	Max   string `json:"max"`
}

// FieldError names a field that failed a format or constraint check.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Result is the outcome of a validation pass. When the lead-time rule fails,
// EarliestAllowed carries the computed boundary so the caller can reset the
// date field to it.
type Result struct {
	OK              bool         `json:"ok"`
	Missing         []string     `json:"missing,omitempty"`
	Invalid         []FieldError `json:"invalid,omitempty"`
	EarliestAllowed *time.Time   `json:"earliest_allowed,omitempty"`
}

func (r *Result) missing(field string) {
	r.Missing = append(r.Missing, field)
}

func (r *Result) invalid(field, reason string) {
	r.Invalid = append(r.Invalid, FieldError{Field: field, Reason: reason})
}

// Guests returns the exact party size as an integer, for lead guest counts.
// Range mode uses the maximum. Returns 0 when unparseable.
func (p PartySize) Guests() int {
	s := p.Exact
	if p.Mode == PartySizeRange {
		s = p.Max
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Label formats the party size for notes and spreadsheet rows.
func (p PartySize) Label() string {
	if p.Mode == PartySizeRange {
		return fmt.Sprintf("%s-%s", strings.TrimSpace(p.Min), strings.TrimSpace(p.Max))
	}
	return strings.TrimSpace(p.Exact)
}

// Validate checks the contact, delivery and party-size blocks against the
// venue's required-field set. It never mutates its inputs; callers use the
// returned field lists to mark and focus offending inputs.
func Validate(contact Contact, delivery Delivery, party PartySize, v *venue.Venue, now time.Time) Result {
	var res Result

	if strings.TrimSpace(contact.Name) == "" {
		res.missing("name")
	}
	if strings.TrimSpace(contact.Email) == "" {
		res.missing("email")
	} else if !emailRe.MatchString(contact.Email) {
		res.invalid("email", "must be a valid email address")
	}
	if strings.TrimSpace(contact.Phone) == "" {
		res.missing("phone")
	} else if !phoneRe.MatchString(contact.Phone) {
		res.invalid("phone", "may only contain digits, spaces, hyphens and parentheses")
	}

	validatePartySize(party, &res)

	switch v.Kind {
	case venue.KindPickup:
		validatePickup(delivery, v, now, &res)
	default:
		validateDelivery(delivery, v, now, &res)
	}

	res.OK = len(res.Missing) == 0 && len(res.Invalid) == 0
	return res
}

func validatePartySize(party PartySize, res *Result) {
	if party.Mode == PartySizeRange {
		if strings.TrimSpace(party.Min) == "" {
			res.missing("party_size_min")
		} else if !isPositiveInt(party.Min) {
			res.invalid("party_size_min", "must be a positive number")
		}
		if strings.TrimSpace(party.Max) == "" {
			res.missing("party_size_max")
		} else if !isPositiveInt(party.Max) {
			res.invalid("party_size_max", "must be a positive number")
		}
		return
	}

	if strings.TrimSpace(party.Exact) == "" {
		res.missing("party_size")
	} else if !isPositiveInt(party.Exact) {
		res.invalid("party_size", "must be a positive number")
	}
}

func validateDelivery(d Delivery, v *venue.Venue, now time.Time, res *Result) {
	// Either a single free-text location, or a structured address.
	if strings.TrimSpace(d.Location) == "" {
		if strings.TrimSpace(d.Address) == "" {
			res.missing("location")
		} else {
			if strings.TrimSpace(d.City) == "" {
				res.missing("city")
			}
			if strings.TrimSpace(d.Zip) == "" {
				res.missing("zip")
			} else if !zipRe.MatchString(strings.TrimSpace(d.Zip)) {
				res.invalid("zip", "must be 5 digits or ZIP+4")
			}
		}
	}

	if strings.TrimSpace(d.Date) == "" {
		res.missing("date")
	}
	if strings.TrimSpace(d.Time) == "" {
		res.missing("time")
	}
	if d.Date == "" || d.Time == "" {
		return
	}

	when, err := time.ParseInLocation("2006-01-02 15:04", d.Date+" "+d.Time, now.Location())
	if err != nil {
		res.invalid("date", "invalid date or time format")
		return
	}

	earliest := v.EarliestDelivery(now)
	if when.Before(earliest) {
		res.EarliestAllowed = &earliest
		res.invalid("date", fmt.Sprintf(
			"delivery requires %d hours notice; earliest available is %s",
			int(v.MinLeadTime.Hours()), earliest.Format("Jan 2, 2006 3:04 PM")))
	}
}

func validatePickup(d Delivery, v *venue.Venue, now time.Time, res *Result) {
	if strings.TrimSpace(d.Deadline) == "" {
		res.missing("deadline")
		return
	}

	when, err := time.ParseInLocation(time.RFC3339, d.Deadline, now.Location())
	if err != nil {
		res.invalid("deadline", "invalid deadline selection")
		return
	}
	if !when.After(now) {
		res.invalid("deadline", "selected order deadline has passed")
		return
	}

	for _, w := range v.PickupDeadlines(now, venue.PickupWindows) {
		if w.Equal(when) {
			return
		}
	}
	res.invalid("deadline", "deadline is not an available order window")
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}
