// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//
//   - Print* functions echo configuration or mode information before a run.

package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/breedbook/coicalc/internal/batch"
	"github.com/breedbook/coicalc/internal/config"
	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/format"
	"github.com/breedbook/coicalc/internal/ui"
)

// CLIColorProvider implements apperrors.ColorProvider using the active theme.
type CLIColorProvider struct{}

// Verify interface compliance.
var _ apperrors.ColorProvider = CLIColorProvider{}

// ErrorColor returns the theme's error color code.
func (CLIColorProvider) ErrorColor() string { return ui.ColorRed() }

// WarnColor returns the theme's warning color code.
func (CLIColorProvider) WarnColor() string { return ui.ColorYellow() }

// Reset returns the theme's reset code.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// PrintExecutionConfig displays the current execution configuration to the
// user: target individual or batch source, generation depth, and timeout.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	switch {
	case cfg.BatchAll:
		fmt.Fprintf(out, "Computing COI for %severy stored individual%s.\n",
			ui.ColorPrimary(), ui.ColorReset())
	case cfg.BatchFile != "":
		fmt.Fprintf(out, "Computing COI for identifiers listed in %s%s%s.\n",
			ui.ColorPrimary(), cfg.BatchFile, ui.ColorReset())
	default:
		fmt.Fprintf(out, "Computing COI for %s%s%s.\n",
			ui.ColorPrimary(), cfg.ID, ui.ColorReset())
	}
	fmt.Fprintf(out, "Traversing %s%d%s ancestor generations with a timeout of %s%s%s.\n",
		ui.ColorCyan(), cfg.Generations, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	mode := "sequential"
	if cfg.Parallel {
		mode = "parallel subtree"
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s resolution.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(), mode)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// DisplayResult displays a single computed coefficient with its timing.
func DisplayResult(id string, coi float64, generations int, duration time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\nCOI(%s%s%s, %d generations) = %s%s%s\n",
		ui.ColorPrimary(), id, ui.ColorReset(), generations,
		ui.ColorGreen(), format.FormatCoefficient(coi), ui.ColorReset())
	fmt.Fprintf(out, "Computed in %s%s%s.\n",
		ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
}

// DisplayQuietResult prints only the bare value for script consumption.
func DisplayQuietResult(coi float64, out io.Writer) {
	fmt.Fprintf(out, "%.2f\n", coi)
}

// DisplayBatchSummary presents a batch run: a failure table when failures
// occurred, then totals and the trailing count of individuals still lacking
// a stored coefficient. Uses manual padding to correctly handle ANSI color
// codes.
func DisplayBatchSummary(summary batch.Summary, out io.Writer) {
	if summary.Failed > 0 {
		fmt.Fprintf(out, "\n--- Failures ---\n")

		maxIDLen := 2 // "ID" header length
		for _, o := range summary.Outcomes {
			if o.Err != nil && len(o.ID) > maxIDLen {
				maxIDLen = len(o.ID)
			}
		}

		fmt.Fprintf(out, "%sID%s%s   %sError%s\n",
			ui.ColorUnderline(), ui.ColorReset(), padRight("", maxIDLen-2),
			ui.ColorUnderline(), ui.ColorReset())
		for _, o := range summary.Outcomes {
			if o.Err == nil {
				continue
			}
			fmt.Fprintf(out, "%s%s%s%s   %s%v%s\n",
				ui.ColorPrimary(), o.ID, ui.ColorReset(), padRight("", maxIDLen-len(o.ID)),
				ui.ColorRed(), o.Err, ui.ColorReset())
		}
	}

	fmt.Fprintf(out, "\n--- Batch Summary ---\n")
	fmt.Fprintf(out, "Computed: %s%d%s   Failed: %s%d%s\n",
		ui.ColorGreen(), summary.Computed, ui.ColorReset(),
		ui.ColorRed(), summary.Failed, ui.ColorReset())
	if summary.Remaining >= 0 {
		fmt.Fprintf(out, "Individuals still lacking a coefficient: %s%d%s\n",
			ui.ColorYellow(), summary.Remaining, ui.ColorReset())
	}
}

// padRight returns a string of spaces with the given length appended to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
