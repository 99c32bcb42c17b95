package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/breedbook/coicalc/internal/batch"
	"github.com/breedbook/coicalc/internal/cli"
	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/logging"
	"github.com/breedbook/coicalc/internal/pedigree"
	"github.com/breedbook/coicalc/internal/store"
	"github.com/breedbook/coicalc/internal/ui"
)

// runSingle computes and displays the coefficient of one individual.
func (a *Application) runSingle(ctx context.Context, calc *pedigree.Calculator, out io.Writer) int {
	start := time.Now()
	coi, err := calc.Compute(ctx, a.cfg.ID, a.cfg.Generations)
	if err != nil {
		return apperrors.HandleComputationError(err, out, cli.CLIColorProvider{})
	}

	if a.cfg.Quiet {
		cli.DisplayQuietResult(coi, out)
	} else {
		cli.DisplayResult(a.cfg.ID, coi, a.cfg.Generations, time.Since(start), out)
	}
	return apperrors.ExitSuccess
}

// runBatch computes and persists coefficients for a list of individuals,
// from the batch file or the whole store.
func (a *Application) runBatch(ctx context.Context, calc *pedigree.Calculator, writable store.RecordStore, out io.Writer) int {
	if writable == nil {
		fmt.Fprintf(out, "%sError: batch mode needs a writable record store%s\n",
			ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorConfig
	}

	ids, err := a.batchIDs(ctx, writable)
	if err != nil {
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if len(ids) == 0 {
		fmt.Fprintf(out, "Nothing to process.\n")
		return apperrors.ExitSuccess
	}

	opts := []batch.RunnerOption{
		batch.WithRunnerLogger(a.log),
		batch.WithRemainingCounter(writable),
	}
	var reporter *cli.SpinnerReporter
	if !a.cfg.Quiet {
		reporter = cli.NewSpinnerReporter(out)
		opts = append(opts, batch.WithProgressReporter(reporter))
	}

	runner := batch.NewRunner(calc, writable, a.cfg.Generations, opts...)
	summary, err := runner.Run(ctx, ids)
	if reporter != nil {
		reporter.Stop()
	}
	if err != nil {
		code := apperrors.HandleComputationError(err, out, cli.CLIColorProvider{})
		a.log.Warn("batch run stopped early",
			logging.Int("computed", summary.Computed),
			logging.Int("failed", summary.Failed),
			logging.Err(err))
		return code
	}

	if !a.cfg.Quiet {
		cli.DisplayBatchSummary(summary, out)
	} else {
		fmt.Fprintf(out, "%d computed, %d failed\n", summary.Computed, summary.Failed)
	}
	if summary.Failed > 0 {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// batchIDs resolves the identifiers to process: the lines of the batch file,
// or every stored identifier in -batch-all mode.
func (a *Application) batchIDs(ctx context.Context, lister store.RecordStore) ([]string, error) {
	if a.cfg.BatchAll {
		ids, err := lister.ListIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing stored individuals: %w", err)
		}
		return ids, nil
	}
	return readIDFile(a.cfg.BatchFile)
}

// readIDFile reads one identifier per line, skipping blank lines and
// #-comments.
func readIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return ids, nil
}
