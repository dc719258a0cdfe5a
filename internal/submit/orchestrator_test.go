package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/electric-hospitality/catering-api/internal/draft"
	"github.com/electric-hospitality/catering-api/internal/order"
	"github.com/electric-hospitality/catering-api/internal/validate"
	"github.com/electric-hospitality/catering-api/internal/venue"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Mocks ---

type mockSheet struct {
	recordFn func(ctx context.Context, payload map[string]any) error
	calls    int
}

func (m *mockSheet) Record(ctx context.Context, payload map[string]any) error {
	m.calls++
	if m.recordFn != nil {
		return m.recordFn(ctx, payload)
	}
	return nil
}

type mockLead struct {
	createFn func(ctx context.Context, req *Request) (string, error)
	calls    int
}

func (m *mockLead) CreateLead(ctx context.Context, req *Request) (string, error) {
	m.calls++
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return "12345", nil
}

type mockEmail struct {
	sendFn func(ctx context.Context, req *Request) error
	calls  int
}

func (m *mockEmail) SendConfirmation(ctx context.Context, req *Request) error {
	m.calls++
	if m.sendFn != nil {
		return m.sendFn(ctx, req)
	}
	return nil
}

// --- Helpers ---

func testVenue() *venue.Venue {
	return &venue.Venue{
		Key:         "ladybird",
		DisplayName: "Ladybird",
		Kind:        venue.KindDelivery,
		TaxRate:     decimal.RequireFromString("0.089"),
		MinLeadTime: 72 * time.Hour,
	}
}

func testRequest(v *venue.Venue) *Request {
	when := time.Now().Add(96 * time.Hour)
	sub := decimal.RequireFromString("48.00")
	tax := sub.Mul(v.TaxRate)
	return &Request{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		Venue:     v,
		Contact:   validate.Contact{Name: "Sam Carter", Email: "sam@example.com", Phone: "404-555-0134"},
		Delivery: validate.Delivery{
			Location: "The Grove",
			Date:     when.Format("2006-01-02"),
			Time:     when.Format("15:04"),
		},
		Party:    validate.PartySize{Mode: validate.PartySizeExact, Exact: "12"},
		Lines:    []order.Line{{Name: "Wings", Quantity: 2, Subtotal: "48.00"}},
		Subtotal: sub,
		Tax:      tax,
		Total:    sub.Add(tax),
	}
}

func seededDrafts(t *testing.T, req *Request) *draft.MemStore {
	t.Helper()
	store := draft.NewMemStore()
	err := store.Save(context.Background(), req.Venue.Key, req.SessionID, &draft.Draft{
		Quantities: []draft.LineQuantity{{ItemName: "Wings", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	return store
}

func draftExists(t *testing.T, store *draft.MemStore, req *Request) bool {
	t.Helper()
	_, err := store.Get(context.Background(), req.Venue.Key, req.SessionID)
	return err == nil
}

// --- Tests ---

func TestSubmitHappyPath(t *testing.T) {
	req := testRequest(testVenue())
	sheet := &mockSheet{}
	lead := &mockLead{}
	email := &mockEmail{}
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(sheet, lead, email, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if res.State != StateDone {
		t.Errorf("state: got %s, want %s", res.State, StateDone)
	}
	if !res.SheetSubmitted || !res.TripleseatSubmitted || !res.EmailSubmitted {
		t.Errorf("expected all writes submitted, got %+v", res)
	}
	if res.LeadID != "12345" {
		t.Errorf("lead ID: got %q, want 12345", res.LeadID)
	}
	if draftExists(t, drafts, req) {
		t.Error("expected draft to be cleared after full success")
	}
}

func TestSubmitValidationFailure(t *testing.T) {
	req := testRequest(testVenue())
	req.Contact.Email = "not-an-email"
	sheet := &mockSheet{}
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(sheet, &mockLead{}, &mockEmail{}, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if res.State != StateIdle {
		t.Errorf("state: got %s, want %s", res.State, StateIdle)
	}
	if sheet.calls != 0 {
		t.Error("sheet must not be written on validation failure")
	}
	if !draftExists(t, drafts, req) {
		t.Error("draft must survive a validation failure")
	}
}

func TestSubmitEmptyOrderRejected(t *testing.T) {
	req := testRequest(testVenue())
	req.Lines = nil
	req.Subtotal = decimal.Zero

	o := NewOrchestrator(&mockSheet{}, &mockLead{}, &mockEmail{}, draft.NewMemStore(), nil, nil)
	_, err := o.Submit(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty order, got %v", err)
	}
}

func TestSubmitSheetFailureAborts(t *testing.T) {
	req := testRequest(testVenue())
	sheet := &mockSheet{recordFn: func(context.Context, map[string]any) error {
		return ErrSheetWrite
	}}
	lead := &mockLead{}
	email := &mockEmail{}
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(sheet, lead, email, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)

	if !errors.Is(err, ErrSheetWrite) {
		t.Fatalf("expected ErrSheetWrite, got %v", err)
	}
	if res.State != StateFailed {
		t.Errorf("state: got %s, want %s", res.State, StateFailed)
	}
	if lead.calls != 0 {
		t.Error("lead must not be created when the sheet write fails")
	}
	if email.calls != 0 {
		t.Error("email must not be sent when the sheet write fails")
	}
	if !draftExists(t, drafts, req) {
		t.Error("draft must survive a failed submission")
	}
}

func TestSubmitLeadFailureDoesNotBlock(t *testing.T) {
	req := testRequest(testVenue())
	lead := &mockLead{createFn: func(context.Context, *Request) (string, error) {
		return "", errors.New("tripleseat down")
	}}
	email := &mockEmail{}
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(&mockSheet{}, lead, email, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if res.State != StateDone {
		t.Errorf("state: got %s, want %s", res.State, StateDone)
	}
	if res.TripleseatSubmitted {
		t.Error("tripleseat should be reported as not submitted")
	}
	if res.Notice == "" {
		t.Error("expected a softened notice when the lead fails")
	}
	if email.calls != 1 {
		t.Error("email must still be sent after a lead failure")
	}
	if draftExists(t, drafts, req) {
		t.Error("draft should be cleared: the order itself succeeded")
	}
}

func TestSubmitSkipLeadVenue(t *testing.T) {
	v := testVenue()
	v.Kind = venue.KindPickup
	v.SkipLead = true
	v.DeadlineWeekday = time.Wednesday
	v.DeadlineHour = 17

	req := testRequest(v)
	req.Delivery = validate.Delivery{
		Deadline: v.PickupDeadlines(time.Now(), 1)[0].Format(time.RFC3339),
	}

	lead := &mockLead{}
	o := NewOrchestrator(&mockSheet{}, lead, &mockEmail{}, draft.NewMemStore(), nil, nil)
	res, err := o.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if lead.calls != 0 {
		t.Error("lead must not be created for a SkipLead venue")
	}
	if res.TripleseatSubmitted {
		t.Error("tripleseat should be reported as not submitted")
	}
}

func TestSubmitEmailFailureKeepsDraft(t *testing.T) {
	req := testRequest(testVenue())
	email := &mockEmail{sendFn: func(context.Context, *Request) error {
		return errors.New("relay down")
	}}
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(&mockSheet{}, &mockLead{}, email, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)

	if err == nil {
		t.Fatal("expected an error when the email fails")
	}
	if res.State != StateFailed {
		t.Errorf("state: got %s, want %s", res.State, StateFailed)
	}
	if !res.SheetSubmitted {
		t.Error("sheet write should be reported: the order was recorded")
	}
	if !draftExists(t, drafts, req) {
		t.Error("draft must survive an email failure so the visitor can retry")
	}
}

func TestSubmitDryRunClients(t *testing.T) {
	req := testRequest(testVenue())
	drafts := seededDrafts(t, req)

	o := NewOrchestrator(DryRunSheetRecorder{}, DryRunLeadCreator{}, DryRunEmailSender{}, drafts, nil, nil)
	res, err := o.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.State != StateDone {
		t.Errorf("state: got %s, want %s", res.State, StateDone)
	}
}
