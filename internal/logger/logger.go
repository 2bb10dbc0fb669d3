// Package logger provides verbose logging for the Scout CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr through zerolog so users can follow the pipeline.
// Nothing is written otherwise, which keeps stdio MCP and the TUI clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu         sync.RWMutex
	verbose    bool
	jsonFormat bool
	level      = zerolog.DebugLevel
	output     io.Writer = os.Stderr
	root                 = build()
)

// Logger is the logging type handed to adapters that want structured fields.
type Logger = zerolog.Logger

// build assembles the root logger from the current settings.
// Callers must hold mu.
func build() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	w := output
	if !jsonFormat {
		w = zerolog.ConsoleWriter{
			Out:          output,
			NoColor:      true,
			PartsExclude: []string{zerolog.TimestampFieldName},
		}
	}
	ctx := zerolog.New(w).Level(level).With()
	if jsonFormat {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	root = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = build()
}

// SetJSON switches between console and JSON line output.
// The HTTP server uses JSON so logs can be shipped as-is.
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonFormat = v
	root = build()
}

// SetLevel sets the minimum level written in verbose mode.
func SetLevel(s string) {
	mu.Lock()
	defer mu.Unlock()
	level = parseLevel(s)
	root = build()
}

// parseLevel maps a level name to zerolog, defaulting to debug.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.DebugLevel
	}
}

// Get returns a copy of the root logger.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := root
	return &l
}

// Named returns a child logger tagged with a component name.
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	Get().Debug().Msg(fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	Get().Info().Msg(fmt.Sprintf("=== %s ===", name))
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	Get().Info().Msg(fmt.Sprintf(format, args...))
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	Get().Warn().Msg(fmt.Sprintf(format, args...))
}
