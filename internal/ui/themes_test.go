package ui

import "testing"

// TestSetTheme verifies theme selection by name, including the unknown-name fallback.
func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	tests := []struct {
		name     string
		wantName string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"bogus", "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetTheme(tt.name)
			if got := GetCurrentTheme().Name; got != tt.wantName {
				t.Errorf("SetTheme(%q) -> theme %q, want %q", tt.name, got, tt.wantName)
			}
		})
	}
}

// TestInitTheme_NoColorFlag verifies the --no-color flag wins over everything.
func TestInitTheme_NoColorFlag(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("InitTheme(true) -> theme %q, want %q", GetCurrentTheme().Name, "none")
	}
	if ColorGreen() != "" || ColorReset() != "" {
		t.Error("no-color theme should produce empty escape codes")
	}
}

// TestInitTheme_NoColorEnv verifies the NO_COLOR environment variable disables colors.
func TestInitTheme_NoColorEnv(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("InitTheme with NO_COLOR set -> theme %q, want %q", GetCurrentTheme().Name, "none")
	}
}

// TestColorAccessors verifies accessors reflect the active theme.
func TestColorAccessors(t *testing.T) {
	defer SetCurrentTheme(DarkTheme)

	SetCurrentTheme(DarkTheme)
	if ColorRed() != DarkTheme.Error {
		t.Errorf("ColorRed() = %q, want %q", ColorRed(), DarkTheme.Error)
	}
	if ColorUnderline() != DarkTheme.Underline {
		t.Errorf("ColorUnderline() = %q, want %q", ColorUnderline(), DarkTheme.Underline)
	}
}
