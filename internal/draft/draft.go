package draft

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/electric-hospitality/catering-api/internal/validate"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no draft exists for the session.
var ErrNotFound = errors.New("draft not found")

// Quantity tolerates the loosely typed values stored by the original form
// ("3" and 3 are both valid). Anything unparseable decodes as 0.
type Quantity int

func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*q = 0
			return nil
		}
		n = int(f)
	}
	if n < 0 {
		n = 0
	}
	*q = Quantity(n)
	return nil
}

// LineQuantity is one saved item quantity.
type LineQuantity struct {
	ItemName string   `json:"item_name"`
	Quantity Quantity `json:"quantity"`
}

// Draft is the in-progress order state for one session. Written on every
// field mutation, restored on load, deleted only on confirmed successful
// submission.
type Draft struct {
	Quantities []LineQuantity     `json:"quantities"`
	Contact    validate.Contact   `json:"contact"`
	Delivery   validate.Delivery  `json:"delivery"`
	Party      validate.PartySize `json:"party_size"`
	Comments   string             `json:"comments"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// Marshal serializes the draft for storage.
func (d *Draft) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Unmarshal deserializes a stored draft.
func Unmarshal(b []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Store persists drafts keyed by (venue, session). One writer per session;
// last write wins.
type Store interface {
	Save(ctx context.Context, venueKey string, session uuid.UUID, d *Draft) error
	Get(ctx context.Context, venueKey string, session uuid.UUID) (*Draft, error)
	Delete(ctx context.Context, venueKey string, session uuid.UUID) error
}
