package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGLogbook records accepted submissions in Postgres.
//
// Schema:
//
//	CREATE TABLE submissions (
//	    id           UUID        PRIMARY KEY,
//	    venue_key    TEXT        NOT NULL,
//	    contact_name TEXT        NOT NULL,
//	    party_size   TEXT        NOT NULL,
//	    total        NUMERIC     NOT NULL,
//	    lead_id      TEXT,
//	    body         JSONB       NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PGLogbook struct {
	pool *pgxpool.Pool
}

func NewPGLogbook(pool *pgxpool.Pool) *PGLogbook {
	return &PGLogbook{pool: pool}
}

func (l *PGLogbook) LogSubmission(ctx context.Context, req *Request, res *Result) error {
	body, err := json.Marshal(map[string]any{
		"contact":  req.Contact,
		"delivery": req.Delivery,
		"party":    req.Party,
		"lines":    req.Lines,
		"comments": req.Comments,
		"subtotal": req.Subtotal.StringFixed(2),
		"tax":      req.Tax.StringFixed(2),
		"total":    req.Total.StringFixed(2),
		"result":   res,
	})
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	_, err = l.pool.Exec(ctx, `
		INSERT INTO submissions (id, venue_key, contact_name, party_size, total, lead_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		req.ID, req.Venue.Key, req.Contact.Name, req.Party.Label(),
		req.Total.StringFixed(2), res.LeadID, body, time.Now())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}
