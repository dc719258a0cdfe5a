package handler

import (
	"net/http"

	"github.com/electric-hospitality/catering-api/internal/health"
	"github.com/go-chi/chi/v5"
)

// HealthHandler exposes the endpoint monitor over HTTP.
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health-check", h.Check)
}

// Check handles GET /api/health-check: probes the external services the
// order flow depends on and reports per-target status.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Run(r.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
