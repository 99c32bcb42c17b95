// Package batch drives COI computation over a list of individuals: each
// identifier is computed sequentially, its result persisted, and its outcome
// logged, without letting a single failure halt the run. It mirrors the host
// system's maintenance drivers that backfill stored coefficients.
package batch

import (
	"context"
	"time"

	"github.com/breedbook/coicalc/internal/logging"
)

// Computer produces a COI percentage for one individual.
type Computer interface {
	Compute(ctx context.Context, rootID string, maxGenerations int) (float64, error)
}

// CoefficientWriter persists a computed coefficient back onto the
// individual's stored record.
type CoefficientWriter interface {
	SetCoefficient(ctx context.Context, id string, pct float64) error
}

// RemainingCounter reports how many individuals still lack a stored
// coefficient after a run.
type RemainingCounter interface {
	CountMissingCoefficient(ctx context.Context) (int, error)
}

// Outcome is the per-identifier result of a batch run.
type Outcome struct {
	// ID is the identifier that was processed.
	ID string
	// Coefficient is the computed percentage; zero when Err is set.
	Coefficient float64
	// Duration is the time the computation took.
	Duration time.Duration
	// Err is the computation or persistence failure, nil on success.
	Err error
}

// Summary aggregates a batch run.
type Summary struct {
	// Computed counts identifiers whose coefficient was computed and stored.
	Computed int
	// Failed counts identifiers that errored; their Err is in Outcomes.
	Failed int
	// Remaining counts individuals still lacking a stored coefficient after
	// the run, or -1 when no counter was configured.
	Remaining int
	// Outcomes holds every per-identifier result, in processing order.
	Outcomes []Outcome
}

// ProgressReporter observes per-identifier completion during a run.
// Implementations handle the visual representation (spinner, log lines);
// the runner focuses on sequencing and resilience.
type ProgressReporter interface {
	// Completed reports one finished identifier along with run progress.
	Completed(outcome Outcome, done, total int)
}

// NullProgressReporter is a no-op ProgressReporter for quiet mode and tests.
type NullProgressReporter struct{}

// Completed discards the observation.
func (NullProgressReporter) Completed(Outcome, int, int) {}

// Runner executes batch computations.
type Runner struct {
	computer    Computer
	writer      CoefficientWriter
	counter     RemainingCounter
	log         logging.Logger
	reporter    ProgressReporter
	generations int
}

// RunnerOption configures a Runner during construction.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger for per-identifier outcomes.
func WithRunnerLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// WithProgressReporter sets the progress reporter.
func WithProgressReporter(p ProgressReporter) RunnerOption {
	return func(r *Runner) { r.reporter = p }
}

// WithRemainingCounter enables the trailing missing-coefficient report.
func WithRemainingCounter(c RemainingCounter) RunnerOption {
	return func(r *Runner) { r.counter = c }
}

// NewRunner creates a Runner computing with the given generation depth and
// persisting through writer.
func NewRunner(computer Computer, writer CoefficientWriter, generations int, opts ...RunnerOption) *Runner {
	r := &Runner{
		computer:    computer,
		writer:      writer,
		log:         logging.NopLogger{},
		reporter:    NullProgressReporter{},
		generations: generations,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes ids in order. A per-identifier failure is logged and
// recorded, and the run continues with the next identifier; only context
// cancellation stops the run early, returning the partial summary alongside
// the context error.
func (r *Runner) Run(ctx context.Context, ids []string) (Summary, error) {
	summary := Summary{Remaining: -1, Outcomes: make([]Outcome, 0, len(ids))}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		start := time.Now()
		coi, err := r.computer.Compute(ctx, id, r.generations)
		if err == nil {
			err = r.writer.SetCoefficient(ctx, id, coi)
		}
		outcome := Outcome{ID: id, Coefficient: coi, Duration: time.Since(start), Err: err}

		if err != nil {
			outcome.Coefficient = 0
			summary.Failed++
			r.log.Error("coefficient update failed",
				logging.String("id", id),
				logging.Err(err))
		} else {
			summary.Computed++
			r.log.Info("coefficient updated",
				logging.String("id", id),
				logging.Float64("coi", coi),
				logging.Dur("elapsed", outcome.Duration))
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		r.reporter.Completed(outcome, len(summary.Outcomes), len(ids))
	}

	if r.counter != nil {
		remaining, err := r.counter.CountMissingCoefficient(ctx)
		if err != nil {
			r.log.Warn("could not count remaining individuals", logging.Err(err))
		} else {
			summary.Remaining = remaining
		}
	}
	return summary, nil
}
