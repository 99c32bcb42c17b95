package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
)

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/breedbook/coicalc/internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether the arguments request the version banner.
// Checked before flag parsing so -version works without any other flag.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-version", "--version":
			return true
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "coicalc %s (%s)\n", Version, runtime.Version())
}

// IsHelpError reports whether err means the user asked for usage output,
// which is a successful exit rather than a failure.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
