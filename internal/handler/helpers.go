package handler

import (
	"encoding/json"
	"net/http"

	"github.com/electric-hospitality/catering-api/internal/venue"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// venueFromURL resolves the {venue} URL parameter. Writes a 404 and returns
// nil when the key is unknown.
func venueFromURL(w http.ResponseWriter, r *http.Request) *venue.Venue {
	v, err := venue.ByKey(chi.URLParam(r, "venue"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown venue"})
		return nil
	}
	return v
}
