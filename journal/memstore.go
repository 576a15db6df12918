package journal

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory implementation of Store for testing.
type MemStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new in-memory journal.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]*Record)}
}

// Put stores a copy of r.
func (s *MemStore) Put(r *Record) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, r.ID)
	}
	cp := *r
	s.records[r.ID] = &cp
	return nil
}

// Get returns a copy of the record.
func (s *MemStore) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

// List returns copies of all records, oldest first.
func (s *MemStore) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MarkSubmitted sets the submitted hash of a successful, unsubmitted record.
func (s *MemStore) MarkSubmitted(id, txHash string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := r.Submittable(); err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	at = at.UTC()
	r.SubmittedTxHash = txHash
	r.SubmittedAt = &at
	return nil
}
