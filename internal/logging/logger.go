// Package logging is a thin key/value layer over zerolog shared by the
// bridge, the worker and the CLI. Request and message ids travel in the
// context and are attached with WithContext.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with key/value convenience methods
type Logger struct {
	zl zerolog.Logger
}

var global = NewDevelopment()

// NewProduction creates a production logger with JSON output
func NewProduction() *Logger {
	return NewWithWriter(os.Stdout, zerolog.InfoLevel)
}

// NewDevelopment creates a development logger with pretty console output on
// stderr, leaving stdout to command output.
func NewDevelopment() *Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, zerolog.DebugLevel)
}

// NewWithWriter creates a timestamped logger writing to w
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// SetGlobal sets the global logger instance
func SetGlobal(logger *Logger) {
	global = logger
}

// Global returns the global logger instance
func Global() *Logger {
	return global
}

// pairs turns alternating keys and values into a field map. Errors are
// rendered by message; non-string keys and a dangling key are dropped.
func pairs(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if err, isErr := kv[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (l *Logger) log(e *zerolog.Event, msg string, kv []interface{}) {
	if e == nil {
		return
	}
	e.Fields(pairs(kv)).Msg(msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(l.zl.Debug(), msg, kv) }

// Info logs an info message
func (l *Logger) Info(msg string, kv ...interface{}) { l.log(l.zl.Info(), msg, kv) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, kv ...interface{}) { l.log(l.zl.Warn(), msg, kv) }

// Error logs an error message
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(l.zl.Error(), msg, kv) }

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.log(l.zl.Fatal(), msg, kv) }

// With returns a child logger that adds the fields to every entry
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(pairs(kv)).Logger()}
}

// WithContext adds the request and message ids carried by ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// Field constructors return key/value pairs for the variadic methods.

// Operation names the analysis being run
func Operation(name string) (string, interface{}) {
	return "operation", name
}

// Count records the number of input values
func Count(n int) (string, interface{}) {
	return "count", n
}
