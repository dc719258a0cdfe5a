package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/electric-hospitality/catering-api/internal/draft"
	"github.com/electric-hospitality/catering-api/internal/middleware"
	"github.com/electric-hospitality/catering-api/internal/order"
	"github.com/electric-hospitality/catering-api/internal/submit"
	"github.com/electric-hospitality/catering-api/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Submitter defines the submission method needed by quote handlers.
// Satisfied by *submit.Orchestrator.
type Submitter interface {
	Submit(ctx context.Context, req *submit.Request) (*submit.Result, error)
}

// QuoteHandler accepts order submissions: it prices the requested
// quantities against the live catalog, computes totals server-side, and
// hands the result to the submission pipeline. Client-sent amounts are
// never trusted.
type QuoteHandler struct {
	loader    CatalogLoader
	submitter Submitter
}

func NewQuoteHandler(loader CatalogLoader, submitter Submitter) *QuoteHandler {
	return &QuoteHandler{loader: loader, submitter: submitter}
}

func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Submit)
}

type quoteRequest struct {
	Quantities []draft.LineQuantity `json:"quantities"`
	Contact    validate.Contact     `json:"contact"`
	Delivery   validate.Delivery    `json:"delivery"`
	Party      validate.PartySize   `json:"party_size"`
	Comments   string               `json:"comments"`
}

type quoteResponse struct {
	SubmissionID string        `json:"submission_id"`
	Result       submit.Result `json:"result"`
	Subtotal     string        `json:"subtotal"`
	Tax          string        `json:"tax"`
	Total        string        `json:"total"`
}

// Submit handles POST /venues/{venue}/quote.
func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	v := venueFromURL(w, r)
	if v == nil {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return
	}

	var body quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	catalog, err := h.loader.LoadCatalog(r.Context(), v)
	if err != nil {
		log.Printf("ERROR: load catalog for quote %s: %v", v.Key, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "Failed to load menu items. Please refresh the page to try again.",
		})
		return
	}

	ledger := order.NewLedger(catalog)
	for _, q := range body.Quantities {
		ledger.SetQuantity(q.ItemName, int(q.Quantity))
	}

	req := &submit.Request{
		ID:        uuid.New(),
		SessionID: claims.SessionID,
		Venue:     v,
		Contact:   body.Contact,
		Delivery:  body.Delivery,
		Party:     body.Party,
		Comments:  body.Comments,
		Lines:     ledger.Summary(),
		Subtotal:  ledger.Subtotal(),
		Tax:       ledger.Tax(v.TaxRate),
		Total:     ledger.Total(v.TaxRate),
	}

	res, err := h.submitter.Submit(r.Context(), req)
	if err != nil {
		var verr *submit.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, verr.Result)
			return
		}
		log.Printf("ERROR: submit order %s for %s: %v", req.ID, v.Key, err)
		if errors.Is(err, submit.ErrSheetWrite) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "There was an error submitting your order. Please try again.",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, quoteErrorBody(res))
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		SubmissionID: req.ID.String(),
		Result:       *res,
		Subtotal:     req.Subtotal.StringFixed(2),
		Tax:          req.Tax.StringFixed(2),
		Total:        req.Total.StringFixed(2),
	})
}

// quoteErrorBody reports a partial failure without leaking internals. When
// the order was recorded but the email failed, the visitor is told their
// order went through.
func quoteErrorBody(res *submit.Result) map[string]any {
	body := map[string]any{
		"error": "There was an error submitting your order. Please try again.",
	}
	if res != nil && res.SheetSubmitted {
		body["error"] = "Your order was received, but the confirmation email could not be sent. Our team will be in touch."
		body["result"] = res
	}
	return body
}
