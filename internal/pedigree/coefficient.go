package pedigree

import (
	"context"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/logging"
)

// Observer receives computation outcomes for instrumentation. The engine
// calls it synchronously; implementations must be cheap and non-blocking.
type Observer interface {
	// ComputationObserved reports one finished computation with its status
	// ("ok" or "error") and wall-clock duration.
	ComputationObserved(status string, d time.Duration)
	// NodesBuilt reports the number of tree nodes materialized for one
	// computation.
	NodesBuilt(n int)
}

// nopObserver is the default Observer when none is configured.
type nopObserver struct{}

func (nopObserver) ComputationObserved(string, time.Duration) {}
func (nopObserver) NodesBuilt(int)                            {}

// Calculator computes standardized inbreeding coefficients using Wright's
// path-counting method over trees materialized by a Builder.
type Calculator struct {
	builder  *Builder
	log      logging.Logger
	observer Observer
	tracer   trace.Tracer
}

// CalculatorOption configures a Calculator during construction.
type CalculatorOption func(*Calculator)

// WithLogger sets the calculator's logger.
func WithLogger(l logging.Logger) CalculatorOption {
	return func(c *Calculator) { c.log = l }
}

// WithObserver sets the instrumentation observer.
func WithObserver(o Observer) CalculatorOption {
	return func(c *Calculator) { c.observer = o }
}

// NewCalculator creates a Calculator over the given builder.
func NewCalculator(builder *Builder, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		builder:  builder,
		log:      logging.NopLogger{},
		observer: nopObserver{},
		tracer:   otel.Tracer("coicalc/pedigree"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns the COI of the individual rootID as a percentage in
// [0, 100], rounded to two decimal places, considering at most
// maxGenerations ancestor generations above the root.
//
// The result is a pure function of the ancestry data reachable within the
// depth budget. Individuals lacking a resolvable sire or dam, and individuals
// whose parental lineages share no ancestor, have a coefficient of zero.
// Only repository I/O failures produce an error; incomplete or cyclic
// ancestry degrades the path set instead.
func (c *Calculator) Compute(ctx context.Context, rootID string, maxGenerations int) (float64, error) {
	ctx, span := c.tracer.Start(ctx, "pedigree.Compute", trace.WithAttributes(
		attribute.String("pedigree.root_id", rootID),
		attribute.Int("pedigree.max_generations", maxGenerations),
	))
	defer span.End()

	start := time.Now()
	coi, err := c.compute(ctx, rootID, maxGenerations)
	if err != nil {
		c.observer.ComputationObserved("error", time.Since(start))
		return 0, apperrors.WrapError(err, "computing COI for %q", rootID)
	}
	c.observer.ComputationObserved("ok", time.Since(start))
	return coi, nil
}

func (c *Calculator) compute(ctx context.Context, rootID string, maxGenerations int) (float64, error) {
	// Root plus maxGenerations ancestor levels.
	root, err := c.builder.Build(ctx, rootID, maxGenerations+1)
	if err != nil {
		return 0, err
	}
	c.observer.NodesBuilt(len(CollectAncestors(root)))

	// Inbreeding is undefined without both parents known.
	if root == nil || root.Sire == nil || root.Dam == nil {
		c.log.Debug("pedigree incomplete, coefficient is zero",
			logging.String("id", rootID))
		return 0, nil
	}

	sireSet := AncestorSet(root.Sire)
	damSet := AncestorSet(root.Dam)

	// Intersect by identifier; iterate in sorted order so the floating-point
	// accumulation is reproducible.
	var commonIDs []string
	for id := range sireSet {
		if _, ok := damSet[id]; ok {
			commonIDs = append(commonIDs, id)
		}
	}
	if len(commonIDs) == 0 {
		return 0, nil
	}
	sort.Strings(commonIDs)

	var total float64
	for _, id := range commonIDs {
		ancestor := sireSet[id]
		sirePaths := FindPaths(root.Sire, id)
		damPaths := FindPaths(root.Dam, id)
		for _, p := range sirePaths {
			for _, q := range damPaths {
				total += math.Pow(0.5, float64(len(p)+len(q)-1)) * (1 + ancestor.Inbreeding)
			}
		}
	}

	coi := math.Round(total*100*100) / 100
	if coi < 0 {
		coi = 0
	}
	if coi > 100 {
		coi = 100
	}
	return coi, nil
}
