// Package config defines the application configuration and its resolution
// from command-line flags and environment variables, with the priority
// CLI flags > environment > defaults.
package config

import (
	"flag"
	"io"
	"time"

	apperrors "github.com/breedbook/coicalc/internal/errors"
)

const (
	// EnvPrefix is prepended to every environment variable override key.
	EnvPrefix = "COICALC_"
	// DefaultGenerations is the ancestor depth used when none is requested.
	// Callers commonly use 8 or 10.
	DefaultGenerations = 8
	// MaxGenerations bounds the requested ancestor depth. Beyond this the
	// 0.5^pathlength contributions are far below the two-decimal output
	// resolution.
	MaxGenerations = 32
	// DefaultTimeout bounds a single run.
	DefaultTimeout = 2 * time.Minute
)

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	// ID is the individual to compute, in single-computation mode.
	ID string
	// Generations is the number of ancestor generations to traverse.
	Generations int
	// Timeout bounds the whole run.
	Timeout time.Duration
	// DBPath is the SQLite database holding ancestry records.
	DBPath string
	// PublicDBPath optionally names a secondary public-records database
	// consulted for identifiers the primary does not hold.
	PublicDBPath string
	// BatchFile names a file of identifiers (one per line) to process.
	BatchFile string
	// BatchAll processes every identifier in the store.
	BatchAll bool
	// Parallel enables concurrent sire/dam subtree resolution.
	Parallel bool
	// MetricsAddr, when set, serves prometheus metrics on this address for
	// the duration of the run.
	MetricsAddr string
	// Quiet suppresses everything but the result.
	Quiet bool
	// Verbose enables debug logging.
	Verbose bool
	// NoColor disables ANSI colors in output.
	NoColor bool
}

// ParseConfig resolves the configuration from command-line arguments and the
// environment.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, excluding the program name.
//   - errWriter: The writer for flag parsing diagnostics.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError on invalid
//     input, or nil.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Generations: DefaultGenerations,
		Timeout:     DefaultTimeout,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.ID, "id", "", "identifier of the individual to compute")
	fs.IntVar(&cfg.Generations, "generations", DefaultGenerations, "ancestor generations to traverse")
	fs.IntVar(&cfg.Generations, "g", DefaultGenerations, "ancestor generations to traverse (shorthand)")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "overall run timeout")
	fs.StringVar(&cfg.DBPath, "db", "", "path to the ancestry SQLite database")
	fs.StringVar(&cfg.PublicDBPath, "public-db", "", "path to a secondary public-records database")
	fs.StringVar(&cfg.BatchFile, "batch", "", "file with identifiers to process, one per line")
	fs.BoolVar(&cfg.BatchAll, "batch-all", false, "process every identifier in the store")
	fs.BoolVar(&cfg.Parallel, "parallel", false, "resolve sire and dam subtrees concurrently")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the run")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "print only the computed value")
	fs.BoolVar(&cfg.Quiet, "q", false, "print only the computed value (shorthand)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable debug logging (shorthand)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration for consistency.
func (c AppConfig) Validate() error {
	if c.Generations < 1 {
		return apperrors.NewConfigError("generations must be at least 1, got %d", c.Generations)
	}
	if c.Generations > MaxGenerations {
		return apperrors.NewConfigError("generations must be at most %d, got %d", MaxGenerations, c.Generations)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.ID == "" && c.BatchFile == "" && !c.BatchAll {
		return apperrors.NewConfigError("nothing to do: provide -id, -batch, or -batch-all")
	}
	if c.ID != "" && (c.BatchFile != "" || c.BatchAll) {
		return apperrors.NewConfigError("-id cannot be combined with batch mode")
	}
	if c.BatchFile != "" && c.BatchAll {
		return apperrors.NewConfigError("-batch and -batch-all are mutually exclusive")
	}
	if c.BatchAll && c.DBPath == "" {
		return apperrors.NewConfigError("-batch-all requires -db")
	}
	return nil
}

// IsBatch reports whether the configuration selects batch mode.
func (c AppConfig) IsBatch() bool {
	return c.BatchFile != "" || c.BatchAll
}
