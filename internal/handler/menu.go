package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/electric-hospitality/catering-api/internal/menu"
	"github.com/electric-hospitality/catering-api/internal/venue"
	"github.com/go-chi/chi/v5"
)

// CatalogLoader defines the menu methods needed by menu handlers.
// Satisfied by *menu.Client; narrow interface for testability.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, v *venue.Venue) (menu.Catalog, error)
}

// MenuHandler serves venue menu catalogs.
type MenuHandler struct {
	loader CatalogLoader
}

func NewMenuHandler(loader CatalogLoader) *MenuHandler {
	return &MenuHandler{loader: loader}
}

func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

type menuResponse struct {
	Venue     string       `json:"venue"`
	TaxRate   string       `json:"tax_rate"`
	Kind      string       `json:"kind"`
	Sections  menu.Catalog `json:"sections"`
	Deadlines []time.Time  `json:"deadlines,omitempty"`
}

// Get handles GET /venues/{venue}/menu.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	v := venueFromURL(w, r)
	if v == nil {
		return
	}

	catalog, err := h.loader.LoadCatalog(r.Context(), v)
	if err != nil {
		log.Printf("ERROR: load catalog %s: %v", v.Key, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "Failed to load menu items. Please refresh the page to try again.",
		})
		return
	}

	resp := menuResponse{
		Venue:    v.Key,
		TaxRate:  v.TaxRate.String(),
		Kind:     v.Kind,
		Sections: catalog,
	}
	if v.Kind == venue.KindPickup {
		resp.Deadlines = v.PickupDeadlines(time.Now(), venue.PickupWindows)
	}
	writeJSON(w, http.StatusOK, resp)
}
