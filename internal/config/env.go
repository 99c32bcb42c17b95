// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the COICALC_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// String overrides
	{"ID", []string{"id"}, func(c *AppConfig, v string) {
		c.ID = v
	}},
	{"DB", []string{"db"}, func(c *AppConfig, v string) {
		c.DBPath = v
	}},
	{"PUBLIC_DB", []string{"public-db"}, func(c *AppConfig, v string) {
		c.PublicDBPath = v
	}},
	{"BATCH", []string{"batch"}, func(c *AppConfig, v string) {
		c.BatchFile = v
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},

	// Numeric overrides
	{"GENERATIONS", []string{"generations", "g"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Generations = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// Boolean overrides
	{"BATCH_ALL", []string{"batch-all"}, func(c *AppConfig, v string) {
		c.BatchAll = parseBoolEnv(v, c.BatchAll)
	}},
	{"PARALLEL", []string{"parallel"}, func(c *AppConfig, v string) {
		c.Parallel = parseBoolEnv(v, c.Parallel)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"VERBOSE", []string{"verbose", "v"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with COICALC_):
//   - ID, DB, PUBLIC_DB, BATCH, BATCH_ALL, GENERATIONS, TIMEOUT,
//     PARALLEL, METRICS_ADDR, QUIET, VERBOSE, NO_COLOR
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
