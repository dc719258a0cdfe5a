package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/electric-hospitality/catering-api/internal/order"
	"github.com/electric-hospitality/catering-api/internal/venue"
)

// Event length assumed when only a start time is known.
const defaultEventDuration = 3 * time.Hour

// LeadCreator creates a CRM lead for a submitted order. Implementations
// return the lead ID when the API reports one.
type LeadCreator interface {
	CreateLead(ctx context.Context, req *Request) (leadID string, err error)
}

// TripleseatCredentials are sent both as headers and body fields; some
// Tripleseat deployments read one, some the other.
type TripleseatCredentials struct {
	PublicKey      string
	ConsumerKey    string
	ConsumerSecret string
}

// TripleseatClient posts leads to the Tripleseat lead-creation endpoint.
// In fire-and-forget mode the response cannot be read; a dispatch without a
// transport error is then counted as success.
type TripleseatClient struct {
	http          *http.Client
	endpoint      string
	creds         TripleseatCredentials
	fireAndForget bool
}

func NewTripleseatClient(endpoint string, creds TripleseatCredentials, fireAndForget bool, timeout time.Duration) *TripleseatClient {
	return &TripleseatClient{
		http:          &http.Client{Timeout: timeout},
		endpoint:      endpoint,
		creds:         creds,
		fireAndForget: fireAndForget,
	}
}

// leadPayload is the wire format of a lead-creation request.
type leadPayload struct {
	PublicKey      string         `json:"public_key"`
	ConsumerKey    string         `json:"consumer_key,omitempty"`
	ConsumerSecret string         `json:"consumer_secret,omitempty"`
	Lead           leadBody       `json:"lead"`
	CustomFields   map[string]any `json:"custom_fields,omitempty"`
}

type leadBody struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phone_number"`
	LocationID   string   `json:"location_id"`
	EventTypeID  string   `json:"event_type_id"`
	LeadSourceID string   `json:"lead_source_id"`
	Description  string   `json:"description"`
	Rooms        []string `json:"rooms"`
	GuestCount   int      `json:"guest_count"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Notes        string   `json:"notes"`
}

// leadResult is the subset of Tripleseat's response we read. Success is
// signaled by either the flag or the presence of a lead ID.
type leadResult struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id"`
	Error   string `json:"error"`
}

func (c *TripleseatClient) CreateLead(ctx context.Context, req *Request) (string, error) {
	payload := BuildLeadPayload(req, c.creds)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal lead: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Public-Key", c.creds.PublicKey)
	httpReq.Header.Set("X-Consumer-Key", c.creds.ConsumerKey)
	httpReq.Header.Set("X-Consumer-Secret", c.creds.ConsumerSecret)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("tripleseat request: %w", err)
	}
	defer resp.Body.Close()

	if c.fireAndForget {
		io.Copy(io.Discard, resp.Body)
		return "", nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var result leadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Non-JSON body with a 2xx status is treated as success.
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return "", nil
		}
		return "", fmt.Errorf("tripleseat status %d: unreadable response", resp.StatusCode)
	}

	if result.Success || result.LeadID != "" {
		return result.LeadID, nil
	}
	if result.Error != "" {
		return "", fmt.Errorf("tripleseat: %s", result.Error)
	}
	return "", fmt.Errorf("tripleseat status %d: lead not created", resp.StatusCode)
}

// BuildLeadPayload converts a validated submission into the Tripleseat lead
// format: name split on the first space, event start from the requested
// date+time, end three hours later, room resolved from the delivery
// location, and the order summarized into the notes block.
func BuildLeadPayload(req *Request, creds TripleseatCredentials) leadPayload {
	first, last := splitName(req.Contact.Name)

	start := eventStart(req)
	end := start.Add(defaultEventDuration)

	var rooms []string
	if roomID := req.Venue.RoomID(req.Delivery.Location); roomID != "" {
		rooms = []string{roomID}
	}

	return leadPayload{
		PublicKey:      creds.PublicKey,
		ConsumerKey:    creds.ConsumerKey,
		ConsumerSecret: creds.ConsumerSecret,
		Lead: leadBody{
			FirstName:    first,
			LastName:     last,
			Email:        req.Contact.Email,
			PhoneNumber:  req.Contact.Phone,
			LocationID:   req.Venue.TripleseatVenue,
			EventTypeID:  req.Venue.EventTypeID,
			LeadSourceID: req.Venue.LeadSourceID,
			Description:  fmt.Sprintf("Catering Order - %s", req.Venue.DisplayName),
			Rooms:        rooms,
			GuestCount:   req.Party.Guests(),
			StartDate:    formatLeadDate(start),
			EndDate:      formatLeadDate(end),
			Notes:        formatLeadNotes(req),
		},
		CustomFields: map[string]any{
			"delivery_location": req.Delivery.Location,
			"subtotal_amount":   req.Subtotal.StringFixed(2),
			"total_amount":      req.Total.StringFixed(2),
		},
	}
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func eventStart(req *Request) time.Time {
	if req.Venue.Kind == venue.KindPickup {
		if t, err := time.Parse(time.RFC3339, req.Delivery.Deadline); err == nil {
			return t
		}
	}
	t, err := time.Parse("2006-01-02 15:04", req.Delivery.Date+" "+req.Delivery.Time)
	if err != nil {
		return time.Now()
	}
	return t
}

func formatLeadDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}

func formatLeadNotes(req *Request) string {
	var b strings.Builder
	b.WriteString("CATERING ORDER DETAILS\n")
	b.WriteString("======================\n\n")
	fmt.Fprintf(&b, "Party Size: %s\n", req.Party.Label())
	fmt.Fprintf(&b, "Subtotal: $%s\n", req.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Total (with tax): $%s\n\n", req.Total.StringFixed(2))
	b.WriteString("ORDER ITEMS\n")
	b.WriteString("-----------\n")
	b.WriteString(formatOrderLines(req.Lines))
	if req.Comments != "" {
		b.WriteString("\n\nADDITIONAL NOTES\n")
		b.WriteString("---------------\n")
		b.WriteString(req.Comments)
	}
	fmt.Fprintf(&b, "\n\nThis lead was generated from the %s Catering Order Form.", req.Venue.DisplayName)
	return b.String()
}

func formatOrderLines(lines []order.Line) string {
	if len(lines) == 0 {
		return "No items ordered"
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%s - %d units - $%s", l.Name, l.Quantity, l.Subtotal)
	}
	return strings.Join(parts, "\n")
}
