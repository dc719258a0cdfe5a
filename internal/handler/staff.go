package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/electric-hospitality/catering-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// StaffHandler authenticates staff for the live submissions feed.
type StaffHandler struct {
	jwtSecret    string
	passwordHash string
}

func NewStaffHandler(jwtSecret, passwordHash string) *StaffHandler {
	return &StaffHandler{jwtSecret: jwtSecret, passwordHash: passwordHash}
}

func (h *StaffHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

type staffLoginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /auth/staff/login.
func (h *StaffHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if h.passwordHash == "" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "staff login is not configured"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateStaffToken(h.jwtSecret)
	if err != nil {
		log.Printf("ERROR: generate staff token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
