package draft

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store. Used in tests and when no database is
// configured; drafts then survive only for the process lifetime.
type MemStore struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{drafts: make(map[string][]byte)}
}

func memKey(venueKey string, session uuid.UUID) string {
	return venueKey + "/" + session.String()
}

func (s *MemStore) Save(ctx context.Context, venueKey string, session uuid.UUID, d *Draft) error {
	d.UpdatedAt = time.Now()
	b, err := d.Marshal()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.drafts[memKey(venueKey, session)] = b
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Get(ctx context.Context, venueKey string, session uuid.UUID) (*Draft, error) {
	s.mu.RLock()
	b, ok := s.drafts[memKey(venueKey, session)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(b)
}

func (s *MemStore) Delete(ctx context.Context, venueKey string, session uuid.UUID) error {
	s.mu.Lock()
	delete(s.drafts, memKey(venueKey, session))
	s.mu.Unlock()
	return nil
}
