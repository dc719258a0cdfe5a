package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/electric-hospitality/catering-api/internal/draft"
	"github.com/electric-hospitality/catering-api/internal/order"
	"github.com/electric-hospitality/catering-api/internal/validate"
	"github.com/electric-hospitality/catering-api/internal/venue"
	"github.com/electric-hospitality/catering-api/internal/ws"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Submission states. A submission walks Idle → Validating → RecordingToSheet
// → CreatingLead (skippable per venue) → SendingEmail → Done; Failed absorbs
// from any step.
const (
	StateIdle           = "IDLE"
	StateValidating     = "VALIDATING"
	StateRecordingSheet = "RECORDING_TO_SHEET"
	StateCreatingLead   = "CREATING_LEAD"
	StateSendingEmail   = "SENDING_EMAIL"
	StateDone           = "DONE"
	StateFailed         = "FAILED"
)

// Request is one validated-and-computed order ready for submission.
type Request struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Venue     *venue.Venue

	Contact  validate.Contact
	Delivery validate.Delivery
	Party    validate.PartySize
	Comments string

	Lines    []order.Line
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Result reports which external writes succeeded. Produced once per attempt
// and never persisted. Notice carries the softened message shown when the
// CRM lead fails but the order still went through.
type Result struct {
	State               string `json:"state"`
	SheetSubmitted      bool   `json:"sheet_submitted"`
	TripleseatSubmitted bool   `json:"tripleseat_submitted"`
	EmailSubmitted      bool   `json:"email_submitted"`
	LeadID              string `json:"lead_id,omitempty"`
	Notice              string `json:"notice,omitempty"`
}

// ValidationError carries the field-level validation result through the
// error return.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d missing, %d invalid",
		len(e.Result.Missing), len(e.Result.Invalid))
}

// Logbook records accepted submissions server-side. The staff feed and any
// duplicate-order audit read from it.
type Logbook interface {
	LogSubmission(ctx context.Context, req *Request, res *Result) error
}

// Broadcaster pushes submission events to the staff feed.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToVenue(venueKey string, event ws.Event)
}

// Orchestrator drives one submission through its steps with the documented
// failure policy: sheet write is mandatory (with one fallback transport),
// lead creation never blocks, email runs only after a recorded order.
type Orchestrator struct {
	sheet  SheetRecorder
	lead   LeadCreator
	email  EmailSender
	drafts draft.Store
	logs   Logbook
	feed   Broadcaster
	now    func() time.Time
}

func NewOrchestrator(sheet SheetRecorder, lead LeadCreator, email EmailSender, drafts draft.Store, logs Logbook, feed Broadcaster) *Orchestrator {
	return &Orchestrator{
		sheet:  sheet,
		lead:   lead,
		email:  email,
		drafts: drafts,
		logs:   logs,
		feed:   feed,
		now:    time.Now,
	}
}

// Submit runs the full pipeline for one attempt. There is no submission
// deduplication: a repeated call records a duplicate row, lead and email.
func (o *Orchestrator) Submit(ctx context.Context, req *Request) (*Result, error) {
	res := &Result{State: StateValidating}

	vr := validate.Validate(req.Contact, req.Delivery, req.Party, req.Venue, o.now())
	if !vr.OK {
		res.State = StateIdle
		return res, &ValidationError{Result: vr}
	}
	if req.Subtotal.LessThanOrEqual(decimal.Zero) {
		res.State = StateIdle
		return res, &ValidationError{Result: validate.Result{
			Invalid: []validate.FieldError{{Field: "order", Reason: "order is empty"}},
		}}
	}

	res.State = StateRecordingSheet
	if err := o.sheet.Record(ctx, o.sheetPayload(req)); err != nil {
		res.State = StateFailed
		return res, err
	}
	res.SheetSubmitted = true

	if !req.Venue.SkipLead {
		res.State = StateCreatingLead
		leadID, err := o.lead.CreateLead(ctx, req)
		if err != nil {
			// Lead failure never blocks the order; surface a softened notice.
			log.Printf("ERROR: create lead for %s: %v", req.Venue.Key, err)
			res.Notice = "Your order was received, but our booking system could not be updated automatically. Our team will follow up."
		} else {
			res.TripleseatSubmitted = true
			res.LeadID = leadID
		}
	}

	res.State = StateSendingEmail
	if err := o.email.SendConfirmation(ctx, req); err != nil {
		// Order is recorded; draft stays so the visitor can retry the email.
		res.State = StateFailed
		return res, fmt.Errorf("order recorded but confirmation email failed: %w", err)
	}
	res.EmailSubmitted = true

	if err := o.drafts.Delete(ctx, req.Venue.Key, req.SessionID); err != nil {
		log.Printf("ERROR: clear draft %s/%s: %v", req.Venue.Key, req.SessionID, err)
	}

	if o.logs != nil {
		if err := o.logs.LogSubmission(ctx, req, res); err != nil {
			log.Printf("ERROR: log submission %s: %v", req.ID, err)
		}
	}

	if o.feed != nil {
		o.broadcast(req, res)
	}

	res.State = StateDone
	return res, nil
}

// sheetPayload flattens the order into the field set the Apps Script
// endpoint expects.
func (o *Orchestrator) sheetPayload(req *Request) map[string]any {
	return map[string]any{
		"submission_id": req.ID.String(),
		"venue":         req.Venue.DisplayName,
		"timestamp":     o.now().Format(time.RFC3339),
		"name":          req.Contact.Name,
		"email":         req.Contact.Email,
		"phone":         req.Contact.Phone,
		"location":      req.Delivery.Location,
		"address":       req.Delivery.Address,
		"city":          req.Delivery.City,
		"zip":           req.Delivery.Zip,
		"date":          req.Delivery.Date,
		"time":          req.Delivery.Time,
		"deadline":      req.Delivery.Deadline,
		"party_size":    req.Party.Label(),
		"order":         req.Lines,
		"subtotal":      req.Subtotal.StringFixed(2),
		"tax":           req.Tax.StringFixed(2),
		"total":         req.Total.StringFixed(2),
		"comments":      req.Comments,
	}
}

func (o *Orchestrator) broadcast(req *Request, res *Result) {
	payload, err := json.Marshal(map[string]any{
		"submission_id": req.ID.String(),
		"venue":         req.Venue.Key,
		"name":          req.Contact.Name,
		"party_size":    req.Party.Label(),
		"total":         req.Total.StringFixed(2),
		"lead_id":       res.LeadID,
	})
	if err != nil {
		return
	}
	o.feed.BroadcastToVenue(req.Venue.Key, ws.Event{
		Type:    "submission.created",
		Payload: payload,
	})
}
