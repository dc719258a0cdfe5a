package submit

import (
	"context"
	"log"
)

// Dry-run implementations of the three external writes. Selected only by an
// explicit configuration opt-in; they log what would have been sent and
// perform no network I/O, so test submissions never reach the production
// sheet, CRM or inbox.

type DryRunSheetRecorder struct{}

func (DryRunSheetRecorder) Record(ctx context.Context, payload map[string]any) error {
	log.Printf("DRY RUN: would record sheet row for %v", payload["name"])
	return nil
}

type DryRunLeadCreator struct{}

func (DryRunLeadCreator) CreateLead(ctx context.Context, req *Request) (string, error) {
	log.Printf("DRY RUN: would create lead for %s at %s", req.Contact.Name, req.Venue.DisplayName)
	return "dry-run", nil
}

type DryRunEmailSender struct{}

func (DryRunEmailSender) SendConfirmation(ctx context.Context, req *Request) error {
	log.Printf("DRY RUN: would email confirmation for %s to %s", req.ID, req.Contact.Email)
	return nil
}
