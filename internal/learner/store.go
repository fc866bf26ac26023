package learner

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Load when no record exists for the id.
var ErrNotFound = errors.New("learner record not found")

// Store persists learner records keyed by learner id.
// Save is an upsert; implementations must be durable on return.
type Store interface {
	// Load returns the record for the learner, or ErrNotFound.
	Load(ctx context.Context, learnerID string) (*Record, error)

	// Save writes the record, replacing any existing one for the same id.
	Save(ctx context.Context, record *Record) error
}

// MemoryStore is an in-process Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Load(_ context.Context, learnerID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[learnerID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.LearnerID] = &cp
	return nil
}
