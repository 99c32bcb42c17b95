package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/breedbook/coicalc/internal/pedigree"
)

// MemoryStore is a mutex-guarded in-memory record store. It backs tests and
// fixtures and doubles as the reference implementation of the store
// interfaces the batch driver relies on.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]pedigree.Record
}

// Verify interface compliance.
var _ pedigree.Repository = (*MemoryStore)(nil)

// NewMemoryStore creates a store pre-populated with the given records.
func NewMemoryStore(records ...pedigree.Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]pedigree.Record, len(records))}
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return s
}

// Get returns a copy of the record for id, if present.
func (s *MemoryStore) Get(_ context.Context, id string) (*pedigree.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, false, nil
	}
	out := rec
	if rec.KnownCoefficient != nil {
		v := *rec.KnownCoefficient
		out.KnownCoefficient = &v
	}
	return &out, true, nil
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(rec pedigree.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

// SetCoefficient stores a computed COI percentage on an existing record.
func (s *MemoryStore) SetCoefficient(_ context.Context, id string, pct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("no record with id %q", id)
	}
	rec.KnownCoefficient = &pct
	s.records[id] = rec
	return nil
}

// ListIDs returns every stored identifier in sorted order.
func (s *MemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// CountMissingCoefficient returns how many records still lack a stored COI.
func (s *MemoryStore) CountMissingCoefficient(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	missing := 0
	for _, rec := range s.records {
		if rec.KnownCoefficient == nil {
			missing++
		}
	}
	return missing, nil
}
