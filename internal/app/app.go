// Package app wires the configuration, storage, engine, and presentation
// layers into the runnable application. It owns process-level concerns:
// signal handling, the run timeout, logging setup, and exit codes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/breedbook/coicalc/internal/cli"
	"github.com/breedbook/coicalc/internal/config"
	apperrors "github.com/breedbook/coicalc/internal/errors"
	"github.com/breedbook/coicalc/internal/logging"
	"github.com/breedbook/coicalc/internal/metrics"
	"github.com/breedbook/coicalc/internal/pedigree"
	"github.com/breedbook/coicalc/internal/store"
	"github.com/breedbook/coicalc/internal/ui"
)

// Application is the assembled program. Construct it with New and drive it
// with Run.
type Application struct {
	cfg     config.AppConfig
	log     logging.Logger
	metrics *metrics.Metrics

	// repo, when non-nil, replaces the SQLite-backed repository. Used by
	// tests and embedders.
	repo pedigree.Repository
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRepository injects a pre-built record repository instead of opening
// the configured database files.
func WithRepository(repo pedigree.Repository) AppOption {
	return func(a *Application) { a.repo = repo }
}

// WithAppLogger replaces the default logger.
func WithAppLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.log = l }
}

// New parses the command line and environment into a ready-to-run
// Application.
//
// Parameters:
//   - args: The command-line arguments, excluding the program name.
//   - errWriter: The writer for flag parsing diagnostics.
//   - opts: Optional overrides, mainly for tests.
//
// Returns:
//   - *Application: The assembled application, nil on error.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	cfg, err := config.ParseConfig("coicalc", args, errWriter)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:     cfg,
		metrics: metrics.NewMetrics(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logging.NewLogger(os.Stderr, "coicalc")
	}
	return a, nil
}

// Config returns the resolved configuration.
func (a *Application) Config() config.AppConfig {
	return a.cfg
}

// Run executes the configured mode and returns the process exit code. The
// run is bounded by the configured timeout and by SIGINT/SIGTERM.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.cfg.NoColor)
	a.applyLogLevel()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	repo, writable, cleanup, err := a.openRepository()
	if err != nil {
		fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorConfig
	}
	defer cleanup()

	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	calc := pedigree.NewCalculator(
		pedigree.NewBuilder(
			store.Instrument(repo, a.metrics),
			pedigree.WithBuilderLogger(a.log),
			pedigree.WithParallel(a.cfg.Parallel),
		),
		pedigree.WithLogger(a.log),
		pedigree.WithObserver(a.metrics),
	)

	if !a.cfg.Quiet {
		cli.PrintExecutionConfig(a.cfg, out)
	}

	if a.cfg.IsBatch() {
		return a.runBatch(ctx, calc, writable, out)
	}
	return a.runSingle(ctx, calc, out)
}

// applyLogLevel maps the verbosity flags onto the global zerolog level.
func (a *Application) applyLogLevel() {
	switch {
	case a.cfg.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.cfg.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// openRepository resolves the record source: an injected repository wins,
// otherwise the configured database files are opened, tiered when a public
// copy is configured. Reads go through the returned Repository; writes and
// enumeration go to the writable store, which is nil when the source is
// read-only. The cleanup closes whatever was opened.
func (a *Application) openRepository() (pedigree.Repository, store.RecordStore, func(), error) {
	if a.repo != nil {
		writable, _ := a.repo.(store.RecordStore)
		return a.repo, writable, func() {}, nil
	}
	if a.cfg.DBPath == "" {
		return nil, nil, nil, apperrors.NewConfigError("no record source: provide -db")
	}

	primary, err := store.NewSQLiteStore(a.cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening ancestry database: %w", err)
	}
	if a.cfg.PublicDBPath == "" {
		return primary, primary, func() { _ = primary.Close() }, nil
	}

	// Reads fall back to the public copy; writes stay on the owned records.
	secondary, err := store.NewSQLiteStore(a.cfg.PublicDBPath)
	if err != nil {
		_ = primary.Close()
		return nil, nil, nil, fmt.Errorf("opening public database: %w", err)
	}
	cleanup := func() {
		_ = secondary.Close()
		_ = primary.Close()
	}
	return store.NewTieredStore(primary, secondary), primary, cleanup, nil
}

// serveMetrics starts the metrics endpoint when one is configured. The
// returned function shuts the server down.
func (a *Application) serveMetrics() func() {
	if a.cfg.MetricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", a.metrics.WritePrometheus)
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics endpoint failed", logging.Err(err))
		}
	}()
	a.log.Info("metrics endpoint listening", logging.String("addr", a.cfg.MetricsAddr))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
