package profilestore

import (
	"context"
	"sync"
)

// InMemoryStore is a Store backed by process memory. It is used as the
// development driver and as the collaborator double in tests.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]*Record)}
}

// PutProfile stores the record keyed by account id.
func (s *InMemoryStore) PutProfile(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	s.records[rec.AccountID] = &copied
	return nil
}

// Get returns the stored record for an account id, or nil. Test helper.
func (s *InMemoryStore) Get(accountID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records[accountID]
}

// Len returns the number of stored profiles. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
