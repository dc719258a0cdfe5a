package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/electric-hospitality/catering-api/internal/draft"
	"github.com/electric-hospitality/catering-api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// DraftHandler persists per-session order drafts.
type DraftHandler struct {
	store draft.Store
}

func NewDraftHandler(store draft.Store) *DraftHandler {
	return &DraftHandler{store: store}
}

func (h *DraftHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Save)
	r.Delete("/", h.Delete)
}

// Get handles GET /venues/{venue}/draft.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := venueFromURL(w, r)
	if v == nil {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}

	d, err := h.store.Get(r.Context(), v.Key, claims.SessionID)
	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no draft saved"})
			return
		}
		log.Printf("ERROR: get draft %s/%s: %v", v.Key, claims.SessionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load draft"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Save handles PUT /venues/{venue}/draft. The body is stored as-is
// after a decode pass that normalizes quantities, so a draft written by
// an older client still restores.
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	v := venueFromURL(w, r)
	if v == nil {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	var d draft.Draft
	if err := json.Unmarshal(body, &d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft payload"})
		return
	}
	d.UpdatedAt = time.Now().UTC()

	if err := h.store.Save(r.Context(), v.Key, claims.SessionID, &d); err != nil {
		log.Printf("ERROR: save draft %s/%s: %v", v.Key, claims.SessionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save draft"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Delete handles DELETE /venues/{venue}/draft.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	v := venueFromURL(w, r)
	if v == nil {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}

	if err := h.store.Delete(r.Context(), v.Key, claims.SessionID); err != nil {
		log.Printf("ERROR: delete draft %s/%s: %v", v.Key, claims.SessionID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear draft"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
