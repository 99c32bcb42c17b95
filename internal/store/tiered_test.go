package store

import (
	"context"
	"errors"
	"testing"

	"github.com/breedbook/coicalc/internal/pedigree"
)

// failingRepository always reports an I/O failure.
type failingRepository struct {
	err error
}

func (r failingRepository) Get(context.Context, string) (*pedigree.Record, bool, error) {
	return nil, false, r.err
}

func TestTieredStoreGet(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore(pedigree.Record{ID: "owned", DisplayName: "primary copy"})
	secondary := NewMemoryStore(
		pedigree.Record{ID: "owned", DisplayName: "public copy"},
		pedigree.Record{ID: "public-only"},
	)
	tiered := NewTieredStore(primary, secondary)

	t.Run("PrimaryWins", func(t *testing.T) {
		rec, ok, err := tiered.Get(ctx, "owned")
		if err != nil || !ok {
			t.Fatalf("Get() = (%v, %v, %v), want record", rec, ok, err)
		}
		if rec.DisplayName != "primary copy" {
			t.Errorf("Get() DisplayName = %q, want the primary tier's record", rec.DisplayName)
		}
	})

	t.Run("FallsBackOnMiss", func(t *testing.T) {
		_, ok, err := tiered.Get(ctx, "public-only")
		if err != nil || !ok {
			t.Errorf("Get() = (ok=%v, err=%v), want hit from the secondary tier", ok, err)
		}
	})

	t.Run("MissInBothTiers", func(t *testing.T) {
		rec, ok, err := tiered.Get(ctx, "nowhere")
		if err != nil || ok || rec != nil {
			t.Errorf("Get() = (%v, %v, %v), want a clean miss", rec, ok, err)
		}
	})

	t.Run("PrimaryErrorPropagates", func(t *testing.T) {
		cause := errors.New("primary down")
		broken := NewTieredStore(failingRepository{err: cause}, secondary)
		_, _, err := broken.Get(ctx, "owned")
		if !errors.Is(err, cause) {
			t.Errorf("Get() error = %v, want the primary failure, not a fallback", err)
		}
	})

	t.Run("SecondaryErrorPropagates", func(t *testing.T) {
		cause := errors.New("secondary down")
		broken := NewTieredStore(primary, failingRepository{err: cause})
		_, _, err := broken.Get(ctx, "public-only")
		if !errors.Is(err, cause) {
			t.Errorf("Get() error = %v, want the secondary failure", err)
		}
	})
}

// countingReads implements ReadCounter for the instrumentation decorator.
type countingReads struct {
	n int
}

func (c *countingReads) IncRepositoryReads() { c.n++ }

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	counter := &countingReads{}
	repo := Instrument(NewMemoryStore(pedigree.Record{ID: "A"}), counter)

	if _, _, err := repo.Get(ctx, "A"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, _, err := repo.Get(ctx, "miss"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if counter.n != 2 {
		t.Errorf("read count = %d, want 2 (misses count too)", counter.n)
	}
}
