// Package ui provides terminal color themes and accessors for CLI output.
// Themes honor the NO_COLOR convention and adapt to the terminal background.
package ui
