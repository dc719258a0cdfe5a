package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists drafts in Postgres.
//
// Schema:
//
//	CREATE TABLE drafts (
//	    venue_key  TEXT        NOT NULL,
//	    session_id UUID        NOT NULL,
//	    body       JSONB       NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (venue_key, session_id)
//	);
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Save(ctx context.Context, venueKey string, session uuid.UUID, d *Draft) error {
	d.UpdatedAt = time.Now()
	b, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO drafts (venue_key, session_id, body, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (venue_key, session_id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		venueKey, session, b, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, venueKey string, session uuid.UUID) (*Draft, error) {
	var b []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM drafts WHERE venue_key = $1 AND session_id = $2`,
		venueKey, session).Scan(&b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return Unmarshal(b)
}

func (s *PGStore) Delete(ctx context.Context, venueKey string, session uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM drafts WHERE venue_key = $1 AND session_id = $2`,
		venueKey, session)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
