package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field is a typed key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// String creates a string-valued field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int-valued field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64-valued field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Dur creates a duration-valued field.
func Dur(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates a field holding an error under the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the logging interface used throughout the application. It
// decouples components from the concrete backend so tests can capture output
// and alternative sinks can be plugged in.
type Logger interface {
	// Debug logs a message at debug level with optional structured fields.
	Debug(msg string, fields ...Field)
	// Info logs a message at info level with optional structured fields.
	Info(msg string, fields ...Field)
	// Warn logs a message at warn level with optional structured fields.
	Warn(msg string, fields ...Field)
	// Error logs a message at error level with optional structured fields.
	Error(msg string, fields ...Field)
}

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger in the Logger interface.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewDefaultLogger creates a Logger writing timestamped entries to stderr.
func NewDefaultLogger() Logger {
	return &ZerologAdapter{logger: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

// NewLogger creates a Logger writing to w, tagged with a component name.
//
// Parameters:
//   - w: The destination for log output.
//   - component: The component name attached to every entry.
//
// Returns:
//   - Logger: The configured logger.
func NewLogger(w io.Writer, component string) Logger {
	return &ZerologAdapter{
		logger: zerolog.New(w).With().Timestamp().Str("component", component).Logger(),
	}
}

// Debug logs at debug level.
func (a *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(a.logger.Debug(), fields).Msg(msg)
}

// Info logs at info level.
func (a *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(a.logger.Info(), fields).Msg(msg)
}

// Warn logs at warn level.
func (a *ZerologAdapter) Warn(msg string, fields ...Field) {
	applyFields(a.logger.Warn(), fields).Msg(msg)
}

// Error logs at error level.
func (a *ZerologAdapter) Error(msg string, fields ...Field) {
	applyFields(a.logger.Error(), fields).Msg(msg)
}

// applyFields attaches typed fields to a zerolog event.
func applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		case nil:
			event = event.Interface(f.Key, nil)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

// NopLogger is a Logger that discards every entry. Useful as a default for
// components whose callers did not supply a logger.
type NopLogger struct{}

// Debug discards the entry.
func (NopLogger) Debug(string, ...Field) {}

// Info discards the entry.
func (NopLogger) Info(string, ...Field) {}

// Warn discards the entry.
func (NopLogger) Warn(string, ...Field) {}

// Error discards the entry.
func (NopLogger) Error(string, ...Field) {}
