package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/electric-hospitality/catering-api/internal/config"
	"github.com/electric-hospitality/catering-api/internal/submit"
	"github.com/go-chi/chi/v5"
)

// ProxyHandler keeps the legacy serverless endpoints alive under /api so
// older storefront builds keep working. Each endpoint injects credentials
// server-side; nothing secret reaches the browser.
type ProxyHandler struct {
	cfg   *config.Config
	http  *http.Client
	sheet submit.SheetRecorder
}

func NewProxyHandler(cfg *config.Config, sheet submit.SheetRecorder) *ProxyHandler {
	return &ProxyHandler{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.HTTPTimeout},
		sheet: sheet,
	}
}

func (h *ProxyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sheet-proxy", h.SheetProxy)
	r.Post("/tripleseat/leads", h.TripleseatLeads)
	r.Post("/tripleseat/mock", h.TripleseatMock)
}

// SheetProxy handles POST /api/sheet-proxy: forwards the order payload to
// the Apps Script web app, falling back to a form-encoded post.
func (h *ProxyHandler) SheetProxy(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.sheet.Record(r.Context(), payload); err != nil {
		log.Printf("ERROR: sheet proxy: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit order"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// TripleseatLeads handles POST /api/tripleseat/leads: forwards the lead
// body to Tripleseat after injecting the public key and consumer
// credentials.
func (h *ProxyHandler) TripleseatLeads(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// Credentials live only on the server; the client never sends them.
	payload["public_key"] = h.cfg.TripleseatPublicKey

	body, err := json.Marshal(payload)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create lead"})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.TripleseatURL, bytes.NewReader(body))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create lead"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Public-Key", h.cfg.TripleseatPublicKey)
	req.Header.Set("X-Consumer-Key", h.cfg.TripleseatConsumerKey)
	req.Header.Set("X-Consumer-Secret", h.cfg.TripleseatConsumerSecret)

	resp, err := h.http.Do(req)
	if err != nil {
		log.Printf("ERROR: tripleseat proxy: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create lead"})
		return
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var parsed map[string]any
	if json.Unmarshal(raw, &parsed) != nil {
		// Tripleseat sometimes answers 2xx with a non-JSON body.
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		log.Printf("ERROR: tripleseat proxy: status %d, unreadable response", resp.StatusCode)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create lead"})
		return
	}
	writeJSON(w, resp.StatusCode, parsed)
}

// TripleseatMock handles POST /api/tripleseat/mock: simulates a successful
// lead creation for storefront testing without touching the real CRM.
func (h *ProxyHandler) TripleseatMock(w http.ResponseWriter, r *http.Request) {
	io.Copy(io.Discard, r.Body)

	// Simulate upstream latency so loading states are exercised.
	select {
	case <-time.After(300 * time.Millisecond):
	case <-r.Context().Done():
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"lead_id": fmt.Sprintf("%05d", rand.Intn(100000)),
		"message": "Mock lead created",
	})
}
