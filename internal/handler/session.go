package handler

import (
	"net/http"

	"github.com/electric-hospitality/catering-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionHandler issues draft session tokens. A session is one visitor's
// order-in-progress; the token namespaces their draft.
type SessionHandler struct {
	jwtSecret string
}

func NewSessionHandler(jwtSecret string) *SessionHandler {
	return &SessionHandler{jwtSecret: jwtSecret}
}

func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.Create)
}

type sessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
}

// Create handles POST /session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New()
	token, err := auth.GenerateSessionToken(h.jwtSecret, sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, Token: token})
}
