package pedigree

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/logging"
)

// Builder materializes ancestor trees from a Repository to a bounded depth.
// A fresh memoization cache is created per Build call, so a Builder is safe
// for concurrent use and holds no state between calls.
type Builder struct {
	repo     Repository
	log      logging.Logger
	parallel bool
	tracer   trace.Tracer
}

// BuilderOption configures a Builder during construction.
type BuilderOption func(*Builder)

// WithBuilderLogger sets the logger used for data-quality warnings.
func WithBuilderLogger(l logging.Logger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// WithParallel enables structured concurrent fan-out of the sire and dam
// subtrees at every node. The default is strict sequential depth-first
// evaluation, which additionally guarantees run-to-run determinism on
// pedigrees with heavy collapse (see Build).
func WithParallel(parallel bool) BuilderOption {
	return func(b *Builder) { b.parallel = parallel }
}

// NewBuilder creates a Builder reading from repo.
func NewBuilder(repo Repository, opts ...BuilderOption) *Builder {
	b := &Builder{
		repo:   repo,
		log:    logging.NopLogger{},
		tracer: otel.Tracer("coicalc/pedigree"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build materializes the ancestor tree rooted at id, traversing at most
// depth levels (the root occupies the first level). It returns nil without
// error when the identifier is empty, unknown, or suppressed by the cycle
// guard; only repository I/O failures produce an error.
//
// In parallel mode an ancestor concurrently in flight on a sibling branch is
// treated like a cycle, i.e. as unresolved; sequential mode reproduces the
// reference resolution order exactly and is the default.
func (b *Builder) Build(ctx context.Context, id string, depth int) (*Node, error) {
	ctx, span := b.tracer.Start(ctx, "pedigree.Build", trace.WithAttributes(
		attribute.String("pedigree.root_id", id),
		attribute.Int("pedigree.depth", depth),
	))
	defer span.End()

	return b.build(ctx, id, depth, newBuildCache())
}

func (b *Builder) build(ctx context.Context, id string, depth int, cache *buildCache) (*Node, error) {
	if depth <= 0 || id == "" {
		return nil, nil
	}

	switch state, memo := cache.begin(id); state {
	case stateInProgress:
		// The identifier is its own ancestor: bad data entry, tolerated as a
		// missing branch rather than an error.
		b.log.Warn("ancestry cycle broken", logging.String("id", id))
		return nil, nil
	case stateResolved:
		return memo, nil
	}

	rec, ok, err := b.repo.Get(ctx, id)
	if err != nil {
		cache.resolve(id, nil)
		return nil, apperrors.RepositoryError{ID: id, Cause: err}
	}
	if !ok {
		cache.resolve(id, nil)
		return nil, nil
	}

	var sire, dam *Node
	if b.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := b.build(gctx, rec.SireID, depth-1, cache)
			sire = n
			return err
		})
		g.Go(func() error {
			n, err := b.build(gctx, rec.DamID, depth-1, cache)
			dam = n
			return err
		})
		if err := g.Wait(); err != nil {
			cache.resolve(id, nil)
			return nil, err
		}
	} else {
		if sire, err = b.build(ctx, rec.SireID, depth-1, cache); err != nil {
			cache.resolve(id, nil)
			return nil, err
		}
		if dam, err = b.build(ctx, rec.DamID, depth-1, cache); err != nil {
			cache.resolve(id, nil)
			return nil, err
		}
	}

	node := &Node{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Sire:        sire,
		Dam:         dam,
		Inbreeding:  knownFraction(rec),
	}
	cache.resolve(id, node)
	return node, nil
}

// knownFraction converts a stored percentage coefficient to the fractional
// form used in Wright's formula. Records without a stored value contribute
// zero, matching the behavior for ancestors whose own pedigree is unknown.
func knownFraction(rec *Record) float64 {
	if rec.KnownCoefficient == nil {
		return 0
	}
	return *rec.KnownCoefficient / 100
}
