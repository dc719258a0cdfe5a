package validate

import (
	"testing"
	"time"

	"github.com/electric-hospitality/catering-api/internal/venue"
)

func deliveryVenue() *venue.Venue {
	return &venue.Venue{
		Key:         "test",
		Kind:        venue.KindDelivery,
		MinLeadTime: 72 * time.Hour,
	}
}

func pickupVenue() *venue.Venue {
	return &venue.Venue{
		Key:             "test-pickup",
		Kind:            venue.KindPickup,
		DeadlineWeekday: time.Wednesday,
		DeadlineHour:    17,
	}
}

func validContact() Contact {
	return Contact{Name: "Sam Carter", Email: "sam@example.com", Phone: "404-555-0134"}
}

func validDelivery(now time.Time) Delivery {
	when := now.Add(96 * time.Hour)
	return Delivery{
		Location: "The Grove",
		Date:     when.Format("2006-01-02"),
		Time:     when.Format("15:04"),
	}
}

func TestValidateOK(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	res := Validate(validContact(), validDelivery(now), PartySize{Mode: PartySizeExact, Exact: "25"}, deliveryVenue(), now)
	if !res.OK {
		t.Fatalf("expected OK, got missing=%v invalid=%v", res.Missing, res.Invalid)
	}
}

func TestValidateMissingFields(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	res := Validate(Contact{}, Delivery{}, PartySize{}, deliveryVenue(), now)
	if res.OK {
		t.Fatal("expected validation to fail")
	}

	want := map[string]bool{"name": true, "email": true, "phone": true, "party_size": true, "location": true, "date": true, "time": true}
	for _, f := range res.Missing {
		delete(want, f)
	}
	for f := range want {
		t.Errorf("expected %s in missing list, got %v", f, res.Missing)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"a@b.co", true},
		{"sam+orders@example.com", true},
		{"not-an-email", false},
		{"a@b", false},
		{"a b@c.com", false},
	}

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			c := validContact()
			c.Email = tt.email
			res := Validate(c, validDelivery(now), PartySize{Mode: PartySizeExact, Exact: "10"}, deliveryVenue(), now)
			if res.OK != tt.ok {
				t.Errorf("email %q: got ok=%v, want %v (invalid=%v)", tt.email, res.OK, tt.ok, res.Invalid)
			}
		})
	}
}

func TestValidatePhoneFormat(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		phone string
		ok    bool
	}{
		{"404-555-0134", true},
		{"(404) 555 0134", true},
		{"call me maybe", false},
		{"+1 404 555 0134", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			c := validContact()
			c.Phone = tt.phone
			res := Validate(c, validDelivery(now), PartySize{Mode: PartySizeExact, Exact: "10"}, deliveryVenue(), now)
			if res.OK != tt.ok {
				t.Errorf("phone %q: got OK=%v, want %v", tt.phone, res.OK, tt.ok)
			}
		})
	}
}

func TestValidateZip(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d := validDelivery(now)
	d.Location = ""
	d.Address = "123 Edgewood Ave"
	d.City = "Atlanta"
	d.Zip = "30303"
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "10"}, deliveryVenue(), now)
	if !res.OK {
		t.Fatalf("expected OK, got missing=%v invalid=%v", res.Missing, res.Invalid)
	}

	d.Zip = "303"
	res = Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "10"}, deliveryVenue(), now)
	if res.OK {
		t.Fatal("expected short zip to fail")
	}
}

func TestValidateLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	v := deliveryVenue()

	// 48h out: inside the 72h window.
	d := validDelivery(now)
	tooSoon := now.Add(48 * time.Hour)
	d.Date = tooSoon.Format("2006-01-02")
	d.Time = tooSoon.Format("15:04")

	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "10"}, v, now)
	if res.OK {
		t.Fatal("expected lead-time validation to fail")
	}
	if res.EarliestAllowed == nil {
		t.Fatal("expected EarliestAllowed to be set")
	}
	if !res.EarliestAllowed.Equal(now.Add(72 * time.Hour)) {
		t.Errorf("EarliestAllowed: got %v, want %v", res.EarliestAllowed, now.Add(72*time.Hour))
	}
}

func TestValidateLeadTimeBoundary(t *testing.T) {
	// Exactly at the boundary is allowed.
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d := Delivery{
		Location: "The Grove",
		Date:     "2026-03-05",
		Time:     "10:00",
	}
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "10"}, deliveryVenue(), now)
	if !res.OK {
		t.Fatalf("expected boundary time to pass, got invalid=%v", res.Invalid)
	}
}

func TestValidatePartySizeRange(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	p := PartySize{Mode: PartySizeRange, Min: "10", Max: "20"}
	res := Validate(validContact(), validDelivery(now), p, deliveryVenue(), now)
	if !res.OK {
		t.Fatalf("expected range party size to pass, got missing=%v invalid=%v", res.Missing, res.Invalid)
	}

	p.Max = ""
	res = Validate(validContact(), validDelivery(now), p, deliveryVenue(), now)
	if res.OK {
		t.Fatal("expected missing max to fail")
	}
}

func TestValidatePickupDeadline(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // a Monday
	v := pickupVenue()

	windows := v.PickupDeadlines(now, venue.PickupWindows)
	d := Delivery{Deadline: windows[0].Format(time.RFC3339)}
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "4"}, v, now)
	if !res.OK {
		t.Fatalf("expected enumerated deadline to pass, got invalid=%v", res.Invalid)
	}
}

func TestValidatePickupDeadlineBeyondOffered(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	v := pickupVenue()

	// One week past the last deadline the menu actually offers.
	windows := v.PickupDeadlines(now, venue.PickupWindows+1)
	d := Delivery{Deadline: windows[len(windows)-1].Format(time.RFC3339)}
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "4"}, v, now)
	if res.OK {
		t.Fatal("expected deadline beyond the offered windows to fail")
	}
}

func TestValidatePickupDeadlinePast(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	d := Delivery{Deadline: now.Add(-24 * time.Hour).Format(time.RFC3339)}
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "4"}, pickupVenue(), now)
	if res.OK {
		t.Fatal("expected past deadline to fail")
	}
}

func TestValidatePickupDeadlineOffWindow(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	// Future, but not one of the venue's enumerated windows.
	d := Delivery{Deadline: now.Add(49 * time.Hour).Format(time.RFC3339)}
	res := Validate(validContact(), d, PartySize{Mode: PartySizeExact, Exact: "4"}, pickupVenue(), now)
	if res.OK {
		t.Fatal("expected off-window deadline to fail")
	}
}

func TestPartySizeGuests(t *testing.T) {
	tests := []struct {
		p    PartySize
		want int
	}{
		{PartySize{Mode: PartySizeExact, Exact: "25"}, 25},
		{PartySize{Mode: PartySizeRange, Min: "10", Max: "20"}, 20},
		{PartySize{Mode: PartySizeExact, Exact: "abc"}, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Guests(); got != tt.want {
			t.Errorf("Guests(%+v): got %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestPartySizeLabel(t *testing.T) {
	p := PartySize{Mode: PartySizeRange, Min: "10", Max: "20"}
	if got := p.Label(); got != "10-20" {
		t.Errorf("Label: got %q, want 10-20", got)
	}
}
