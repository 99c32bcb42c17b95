package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ColorProvider supplies ANSI color codes for error presentation. The
// indirection keeps this package free of any dependency on the UI layer.
type ColorProvider interface {
	// ErrorColor returns the escape code used for failure messages.
	ErrorColor() string
	// WarnColor returns the escape code used for cancellation messages.
	WarnColor() string
	// Reset returns the escape code that clears formatting.
	Reset() string
}

// HandleComputationError inspects a computation failure, writes a
// human-readable diagnostic to out, and maps the failure to an exit code.
//
// Parameters:
//   - err: The error returned by the computation.
//   - out: The writer for the diagnostic message.
//   - colors: The provider of ANSI color codes.
//
// Returns:
//   - int: The process exit code corresponding to the error class.
func HandleComputationError(err error, out io.Writer, colors ColorProvider) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sComputation timed out: %v%s\n", colors.ErrorColor(), err, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sComputation canceled.%s\n", colors.WarnColor(), colors.Reset())
		return ExitErrorCanceled
	case IsRepositoryError(err):
		fmt.Fprintf(out, "%sRepository failure: %v%s\n", colors.ErrorColor(), err, colors.Reset())
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "%sError: %v%s\n", colors.ErrorColor(), err, colors.Reset())
		return ExitErrorGeneric
	}
}
