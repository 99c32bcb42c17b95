package pedigree_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/logging"
	"github.com/breedbook/coicalc/internal/pedigree"
	"github.com/breedbook/coicalc/internal/pedigree/mocks"
	"github.com/breedbook/coicalc/internal/store"
)

// rec is a test shorthand for ancestry rows.
func rec(id, sireID, damID string) pedigree.Record {
	return pedigree.Record{ID: id, SireID: sireID, DamID: damID}
}

func TestBuilderBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyIdentifier", func(t *testing.T) {
		b := pedigree.NewBuilder(store.NewMemoryStore())
		node, err := b.Build(ctx, "", 8)
		if err != nil {
			t.Fatalf("Build() error = %v, want nil", err)
		}
		if node != nil {
			t.Errorf("Build(\"\") = %v, want nil", node)
		}
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {
		b := pedigree.NewBuilder(store.NewMemoryStore())
		node, err := b.Build(ctx, "ghost", 8)
		if err != nil {
			t.Fatalf("Build() error = %v, want nil", err)
		}
		if node != nil {
			t.Errorf("Build(unknown) = %v, want nil", node)
		}
	})

	t.Run("ZeroDepth", func(t *testing.T) {
		b := pedigree.NewBuilder(store.NewMemoryStore(rec("A", "", "")))
		node, err := b.Build(ctx, "A", 0)
		if err != nil {
			t.Fatalf("Build() error = %v, want nil", err)
		}
		if node != nil {
			t.Errorf("Build(depth=0) = %v, want nil", node)
		}
	})

	t.Run("FullTree", func(t *testing.T) {
		repo := store.NewMemoryStore(
			rec("R", "S", "D"),
			rec("S", "GF", ""),
			rec("D", "", ""),
			rec("GF", "", ""),
		)
		b := pedigree.NewBuilder(repo)

		root, err := b.Build(ctx, "R", 8)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if root == nil || root.ID != "R" {
			t.Fatalf("Build() root = %v, want node R", root)
		}
		if root.Sire == nil || root.Sire.ID != "S" {
			t.Errorf("root.Sire = %v, want node S", root.Sire)
		}
		if root.Dam == nil || root.Dam.ID != "D" {
			t.Errorf("root.Dam = %v, want node D", root.Dam)
		}
		if root.Sire.Sire == nil || root.Sire.Sire.ID != "GF" {
			t.Errorf("root.Sire.Sire = %v, want node GF", root.Sire.Sire)
		}
		if root.Sire.Dam != nil {
			t.Errorf("root.Sire.Dam = %v, want nil for empty dam reference", root.Sire.Dam)
		}
	})

	t.Run("DepthTruncation", func(t *testing.T) {
		repo := store.NewMemoryStore(
			rec("R", "S", ""),
			rec("S", "GF", ""),
			rec("GF", "", ""),
		)
		b := pedigree.NewBuilder(repo)

		root, err := b.Build(ctx, "R", 2)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if root.Sire == nil {
			t.Fatal("root.Sire = nil, want node S within the depth budget")
		}
		if root.Sire.Sire != nil {
			t.Errorf("root.Sire.Sire = %v, want nil beyond the depth budget", root.Sire.Sire)
		}
	})

	t.Run("DanglingParentReference", func(t *testing.T) {
		repo := store.NewMemoryStore(rec("R", "missing-sire", ""))
		b := pedigree.NewBuilder(repo)

		root, err := b.Build(ctx, "R", 8)
		if err != nil {
			t.Fatalf("Build() error = %v, want nil for a dangling reference", err)
		}
		if root == nil || root.Sire != nil {
			t.Errorf("Build() = %v, want root with nil sire", root)
		}
	})

	t.Run("KnownCoefficientPropagated", func(t *testing.T) {
		pct := 12.5
		repo := store.NewMemoryStore(pedigree.Record{ID: "A", KnownCoefficient: &pct})
		b := pedigree.NewBuilder(repo)

		root, err := b.Build(ctx, "A", 8)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if root.Inbreeding != 0.125 {
			t.Errorf("root.Inbreeding = %v, want 0.125", root.Inbreeding)
		}
	})
}

func TestBuilderBuildCycle(t *testing.T) {
	ctx := context.Background()

	t.Run("SelfParent", func(t *testing.T) {
		repo := store.NewMemoryStore(rec("A", "A", ""))
		var buf bytes.Buffer
		b := pedigree.NewBuilder(repo,
			pedigree.WithBuilderLogger(logging.NewLogger(&buf, "test")))

		root, err := b.Build(ctx, "A", 8)
		if err != nil {
			t.Fatalf("Build() error = %v, want cycle tolerated", err)
		}
		if root == nil || root.Sire != nil {
			t.Errorf("Build() = %v, want root with suppressed sire branch", root)
		}
		if !strings.Contains(buf.String(), "ancestry cycle broken") {
			t.Errorf("log output = %q, want a cycle warning", buf.String())
		}
	})

	t.Run("MutualParents", func(t *testing.T) {
		repo := store.NewMemoryStore(
			rec("A", "B", ""),
			rec("B", "A", ""),
		)
		b := pedigree.NewBuilder(repo)

		root, err := b.Build(ctx, "A", 8)
		if err != nil {
			t.Fatalf("Build() error = %v, want cycle tolerated", err)
		}
		if root == nil || root.Sire == nil {
			t.Fatal("Build() should resolve A and B before the guard trips")
		}
		if root.Sire.Sire != nil {
			t.Errorf("B's sire = %v, want nil where the cycle closes", root.Sire.Sire)
		}
	})
}

// TestBuilderMemoization verifies that an ancestor reachable through both
// parental branches is fetched from the repository exactly once per build.
func TestBuilderMemoization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	records := map[string]pedigree.Record{
		"R":  rec("R", "S", "D"),
		"S":  rec("S", "GF", ""),
		"D":  rec("D", "GF", ""),
		"GF": rec("GF", "", ""),
	}
	for id, r := range records {
		r := r
		repo.EXPECT().Get(gomock.Any(), id).Return(&r, true, nil).Times(1)
	}

	b := pedigree.NewBuilder(repo)
	root, err := b.Build(context.Background(), "R", 8)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if root.Sire.Sire == nil || root.Dam.Sire == nil {
		t.Fatal("Build() dropped a branch to the shared grandsire")
	}
	if root.Sire.Sire != root.Dam.Sire {
		t.Error("shared grandsire not memoized, want the same node instance on both branches")
	}
}

func TestBuilderRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cause := errors.New("disk read failed")
	repo := mocks.NewMockRepository(ctrl)
	r := rec("R", "S", "")
	repo.EXPECT().Get(gomock.Any(), "R").Return(&r, true, nil)
	repo.EXPECT().Get(gomock.Any(), "S").Return(nil, false, cause)

	b := pedigree.NewBuilder(repo)
	_, err := b.Build(context.Background(), "R", 8)
	if err == nil {
		t.Fatal("Build() error = nil, want repository failure to propagate")
	}

	var repoErr apperrors.RepositoryError
	if !errors.As(err, &repoErr) {
		t.Fatalf("Build() error = %v, want apperrors.RepositoryError", err)
	}
	if repoErr.ID != "S" {
		t.Errorf("RepositoryError.ID = %q, want %q", repoErr.ID, "S")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want the cause wrapped")
	}
}

// TestBuilderParallel verifies the concurrent fan-out mode produces the same
// tree shape as sequential evaluation on collapse-free data.
func TestBuilderParallel(t *testing.T) {
	repo := store.NewMemoryStore(
		rec("R", "S", "D"),
		rec("S", "SS", "SD"),
		rec("D", "DS", "DD"),
		rec("SS", "", ""),
		rec("SD", "", ""),
		rec("DS", "", ""),
		rec("DD", "", ""),
	)
	b := pedigree.NewBuilder(repo, pedigree.WithParallel(true))

	root, err := b.Build(context.Background(), "R", 8)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, n := range []*pedigree.Node{
		root, root.Sire, root.Dam,
		root.Sire.Sire, root.Sire.Dam, root.Dam.Sire, root.Dam.Dam,
	} {
		if n == nil {
			t.Fatal("Build() dropped a node in parallel mode")
		}
	}
}
