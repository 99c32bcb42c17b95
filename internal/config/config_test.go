package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/breedbook/coicalc/internal/errors"
)

// TestParseConfig_Defaults verifies default resolution for a minimal command line.
func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("coicalc", []string{"-id", "animal-1"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}

	if cfg.ID != "animal-1" {
		t.Errorf("ID = %q, want %q", cfg.ID, "animal-1")
	}
	if cfg.Generations != DefaultGenerations {
		t.Errorf("Generations = %d, want %d", cfg.Generations, DefaultGenerations)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %s, want %s", cfg.Timeout, DefaultTimeout)
	}
	if cfg.IsBatch() {
		t.Error("IsBatch() should be false for single-id mode")
	}
}

// TestParseConfig_Flags verifies explicit flag values are honored.
func TestParseConfig_Flags(t *testing.T) {
	cfg, err := ParseConfig("coicalc", []string{
		"-id", "x", "-g", "10", "-timeout", "30s", "-db", "a.db",
		"-public-db", "b.db", "-parallel", "-quiet", "-no-color",
	}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig returned error: %v", err)
	}

	if cfg.Generations != 10 {
		t.Errorf("Generations = %d, want 10", cfg.Generations)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.DBPath != "a.db" || cfg.PublicDBPath != "b.db" {
		t.Errorf("DBPath/PublicDBPath = %q/%q, want a.db/b.db", cfg.DBPath, cfg.PublicDBPath)
	}
	if !cfg.Parallel || !cfg.Quiet || !cfg.NoColor {
		t.Error("boolean flags not applied")
	}
}

// TestParseConfig_Help verifies the help error is surfaced unchanged.
func TestParseConfig_Help(t *testing.T) {
	_, err := ParseConfig("coicalc", []string{"--help"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

// TestParseConfig_EnvOverrides verifies environment values apply only when
// the corresponding flag is absent.
func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Run("env applies when flag absent", func(t *testing.T) {
		t.Setenv("COICALC_GENERATIONS", "12")
		t.Setenv("COICALC_PARALLEL", "yes")
		cfg, err := ParseConfig("coicalc", []string{"-id", "x"}, io.Discard)
		if err != nil {
			t.Fatalf("ParseConfig returned error: %v", err)
		}
		if cfg.Generations != 12 {
			t.Errorf("Generations = %d, want 12 from env", cfg.Generations)
		}
		if !cfg.Parallel {
			t.Error("Parallel should be true from env")
		}
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv("COICALC_GENERATIONS", "12")
		cfg, err := ParseConfig("coicalc", []string{"-id", "x", "-g", "5"}, io.Discard)
		if err != nil {
			t.Fatalf("ParseConfig returned error: %v", err)
		}
		if cfg.Generations != 5 {
			t.Errorf("Generations = %d, want 5 from flag", cfg.Generations)
		}
	})

	t.Run("invalid env value is ignored", func(t *testing.T) {
		t.Setenv("COICALC_GENERATIONS", "not-a-number")
		cfg, err := ParseConfig("coicalc", []string{"-id", "x"}, io.Discard)
		if err != nil {
			t.Fatalf("ParseConfig returned error: %v", err)
		}
		if cfg.Generations != DefaultGenerations {
			t.Errorf("Generations = %d, want default %d", cfg.Generations, DefaultGenerations)
		}
	})
}

// TestValidate verifies the consistency rules.
func TestValidate(t *testing.T) {
	valid := AppConfig{ID: "x", Generations: 8, Timeout: time.Minute}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid single id", func(c *AppConfig) {}, false},
		{"zero generations", func(c *AppConfig) { c.Generations = 0 }, true},
		{"excessive generations", func(c *AppConfig) { c.Generations = MaxGenerations + 1 }, true},
		{"non-positive timeout", func(c *AppConfig) { c.Timeout = 0 }, true},
		{"no work selected", func(c *AppConfig) { c.ID = "" }, true},
		{"id combined with batch", func(c *AppConfig) { c.BatchFile = "ids.txt" }, true},
		{"batch and batch-all", func(c *AppConfig) { c.ID = ""; c.BatchFile = "ids.txt"; c.BatchAll = true }, true},
		{"batch-all without db", func(c *AppConfig) { c.ID = ""; c.BatchAll = true }, true},
		{"batch-all with db", func(c *AppConfig) { c.ID = ""; c.BatchAll = true; c.DBPath = "a.db" }, false},
		{"batch file alone", func(c *AppConfig) { c.ID = ""; c.BatchFile = "ids.txt" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Validate() should return a ConfigError, got %T", err)
				}
			}
		})
	}
}
