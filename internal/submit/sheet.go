package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSheetWrite is returned when every sheet transport fails. The submission
// aborts: an order is never emailed without a recorded row.
var ErrSheetWrite = errors.New("order could not be recorded")

// SheetRecorder records a submitted order to the spreadsheet.
type SheetRecorder interface {
	Record(ctx context.Context, payload map[string]any) error
}

// sheetTransport is one way of delivering the payload to the Apps Script
// endpoint. The recorder walks its transports in order; all but the first
// are fallbacks.
type sheetTransport struct {
	name     string
	fallback bool
	send     func(ctx context.Context, payload map[string]any) error
}

// AppsScriptRecorder writes to the Google Apps Script web app: JSON first,
// then an URL-encoded form post (the transport the old proxy used) before
// giving up.
type AppsScriptRecorder struct {
	http       *http.Client
	endpoint   string
	transports []sheetTransport
}

func NewAppsScriptRecorder(endpoint string, timeout time.Duration) *AppsScriptRecorder {
	r := &AppsScriptRecorder{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
	r.transports = []sheetTransport{
		{name: "json", send: r.sendJSON},
		{name: "form", fallback: true, send: r.sendForm},
	}
	return r
}

func (r *AppsScriptRecorder) Record(ctx context.Context, payload map[string]any) error {
	var lastErr error
	for _, t := range r.transports {
		if err := t.send(ctx, payload); err != nil {
			if t.fallback {
				log.Printf("ERROR: sheet fallback transport %s: %v", t.name, err)
			} else {
				log.Printf("ERROR: sheet transport %s: %v, trying fallback", t.name, err)
			}
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrSheetWrite, lastErr)
}

func (r *AppsScriptRecorder) sendJSON(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return r.do(req)
}

func (r *AppsScriptRecorder) sendForm(ctx context.Context, payload map[string]any) error {
	form := url.Values{}
	for key, value := range payload {
		switch v := value.(type) {
		case string:
			form.Set(key, v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshal field %s: %w", key, err)
			}
			form.Set(key, string(b))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return r.do(req)
}

// do sends the request and interprets the response the way Apps Script
// behaves in practice: any 2xx counts as success even when the body is not
// JSON; a JSON body with an "error" field is a failure regardless.
func (r *AppsScriptRecorder) do(req *http.Request) error {
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		return fmt.Errorf("apps script: %s", parsed.Error)
	}
	return nil
}
