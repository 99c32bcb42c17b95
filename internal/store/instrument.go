package store

import (
	"context"

	"github.com/breedbook/coicalc/internal/pedigree"
)

// ReadCounter counts repository lookups for instrumentation.
type ReadCounter interface {
	IncRepositoryReads()
}

// instrumentedRepository decorates a repository with read counting.
type instrumentedRepository struct {
	inner pedigree.Repository
	reads ReadCounter
}

// Instrument wraps repo so every lookup increments the given counter.
func Instrument(repo pedigree.Repository, reads ReadCounter) pedigree.Repository {
	return &instrumentedRepository{inner: repo, reads: reads}
}

// Get delegates to the wrapped repository after counting the read.
func (r *instrumentedRepository) Get(ctx context.Context, id string) (*pedigree.Record, bool, error) {
	r.reads.IncRepositoryReads()
	return r.inner.Get(ctx, id)
}
