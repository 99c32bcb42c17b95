package store

import (
	"context"

	"github.com/breedbook/coicalc/internal/pedigree"
)

// TieredStore is a two-tier read-only repository: lookups consult the
// primary (owned-record) tier first and fall back to the secondary
// (public/denormalized) tier for identifiers the primary does not hold.
// I/O failures from either tier propagate; a miss in the primary is not a
// failure.
type TieredStore struct {
	primary   pedigree.Repository
	secondary pedigree.Repository
}

// Verify interface compliance.
var _ pedigree.Repository = (*TieredStore)(nil)

// NewTieredStore combines a primary and a secondary repository.
func NewTieredStore(primary, secondary pedigree.Repository) *TieredStore {
	return &TieredStore{primary: primary, secondary: secondary}
}

// Get looks up id in the primary tier, then the secondary.
func (s *TieredStore) Get(ctx context.Context, id string) (*pedigree.Record, bool, error) {
	rec, ok, err := s.primary.Get(ctx, id)
	if err != nil || ok {
		return rec, ok, err
	}
	return s.secondary.Get(ctx, id)
}
