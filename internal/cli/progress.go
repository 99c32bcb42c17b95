package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/breedbook/coicalc/internal/batch"
	"github.com/breedbook/coicalc/internal/ui"
)

// Spinner abstracts the terminal spinner so tests can substitute a fake.
type Spinner interface {
	Start()
	Stop()
	SetSuffix(s string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (r *realSpinner) Start()             { r.s.Start() }
func (r *realSpinner) Stop()              { r.s.Stop() }
func (r *realSpinner) SetSuffix(s string) { r.s.Suffix = s }

// newSpinner is a package variable so tests can inject a fake implementation.
var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " computing..."
	return &realSpinner{s: s}
}

// SpinnerReporter reports batch progress on a terminal spinner. It implements
// batch.ProgressReporter.
type SpinnerReporter struct {
	sp Spinner
}

// Verify interface compliance.
var _ batch.ProgressReporter = (*SpinnerReporter)(nil)

// NewSpinnerReporter creates a reporter writing spinner frames to out and
// starts the spinner immediately.
func NewSpinnerReporter(out io.Writer) *SpinnerReporter {
	r := &SpinnerReporter{sp: newSpinner(out)}
	r.sp.Start()
	return r
}

// Completed advances the progress display after one individual finishes.
func (r *SpinnerReporter) Completed(outcome batch.Outcome, done, total int) {
	status := ui.ColorGreen() + "ok" + ui.ColorReset()
	if outcome.Err != nil {
		status = ui.ColorRed() + "failed" + ui.ColorReset()
	}
	r.sp.SetSuffix(fmt.Sprintf(" computing %d/%d (%s: %s)...", done, total, outcome.ID, status))
}

// Stop halts the spinner. Callers should defer this after construction.
func (r *SpinnerReporter) Stop() {
	r.sp.Stop()
}
