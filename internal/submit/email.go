package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EmailSender dispatches the order confirmation email.
type EmailSender interface {
	SendConfirmation(ctx context.Context, req *Request) error
}

// Web3FormsSender relays email through Web3Forms. The service answers with a
// {"success": bool} envelope.
type Web3FormsSender struct {
	http      *http.Client
	endpoint  string
	accessKey string
	to        string
}

func NewWeb3FormsSender(endpoint, accessKey, to string, timeout time.Duration) *Web3FormsSender {
	return &Web3FormsSender{
		http:      &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		accessKey: accessKey,
		to:        to,
	}
}

func (s *Web3FormsSender) SendConfirmation(ctx context.Context, req *Request) error {
	form := url.Values{}
	form.Set("access_key", s.accessKey)
	form.Set("subject", fmt.Sprintf("New Catering Order - %s", req.Venue.DisplayName))
	form.Set("from_name", fmt.Sprintf("%s Catering", req.Venue.DisplayName))
	form.Set("replyto", req.Contact.Email)
	form.Set("ccemail", req.Contact.Email)
	form.Set("to", s.to)
	form.Set("message", formatConfirmation(req))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil
		}
		return fmt.Errorf("email status %d: unreadable response", resp.StatusCode)
	}
	if !envelope.Success {
		return fmt.Errorf("email relay rejected message: %s", envelope.Message)
	}
	return nil
}

// SendReport relays an arbitrary plain-text message, used by the endpoint
// health check for its status report.
func (s *Web3FormsSender) SendReport(ctx context.Context, subject, message string) error {
	form := url.Values{}
	form.Set("access_key", s.accessKey)
	form.Set("subject", subject)
	form.Set("from_name", "Catering API Monitor")
	form.Set("to", s.to)
	form.Set("message", message)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil
		}
		return fmt.Errorf("email status %d: unreadable response", resp.StatusCode)
	}
	if !envelope.Success {
		return fmt.Errorf("email relay rejected message: %s", envelope.Message)
	}
	return nil
}

// formatConfirmation renders the plain-text order confirmation body.
func formatConfirmation(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New catering order from the %s order form.\n\n", req.Venue.DisplayName)

	fmt.Fprintf(&b, "CONTACT\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Contact.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Contact.Email)
	fmt.Fprintf(&b, "Phone: %s\n\n", req.Contact.Phone)

	if req.Delivery.Deadline != "" {
		fmt.Fprintf(&b, "PICKUP\n")
		fmt.Fprintf(&b, "Order deadline: %s\n\n", req.Delivery.Deadline)
	} else {
		fmt.Fprintf(&b, "DELIVERY\n")
		if req.Delivery.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", req.Delivery.Location)
		} else {
			fmt.Fprintf(&b, "Address: %s, %s %s\n", req.Delivery.Address, req.Delivery.City, req.Delivery.Zip)
		}
		fmt.Fprintf(&b, "Date: %s at %s\n\n", req.Delivery.Date, req.Delivery.Time)
	}

	fmt.Fprintf(&b, "Party size: %s\n\n", req.Party.Label())

	fmt.Fprintf(&b, "ORDER\n%s\n\n", formatOrderLines(req.Lines))
	fmt.Fprintf(&b, "Subtotal: $%s\n", req.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Tax: $%s\n", req.Tax.StringFixed(2))
	fmt.Fprintf(&b, "Total: $%s\n", req.Total.StringFixed(2))

	if req.Comments != "" {
		fmt.Fprintf(&b, "\nComments:\n%s\n", req.Comments)
	}
	return b.String()
}
