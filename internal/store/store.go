package store

import (
	"context"

	"github.com/breedbook/coicalc/internal/pedigree"
)

// RecordStore is a read-write record store. Batch processing needs the full
// surface: lookups for tree building, enumeration for -batch-all, and writes
// to persist computed coefficients.
type RecordStore interface {
	pedigree.Repository

	// SetCoefficient stores a computed COI percentage on an existing record.
	SetCoefficient(ctx context.Context, id string, pct float64) error
	// ListIDs returns every stored identifier in sorted order.
	ListIDs(ctx context.Context) ([]string, error)
	// CountMissingCoefficient returns how many records lack a stored COI.
	CountMissingCoefficient(ctx context.Context) (int, error)
}

// Verify the concrete stores satisfy the full surface.
var (
	_ RecordStore = (*MemoryStore)(nil)
	_ RecordStore = (*SQLiteStore)(nil)
)
