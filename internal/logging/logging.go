// =============================================================================
// CSV to Inventory Converter - Logging Module
// =============================================================================
//
// This module configures structured logging and the human-facing console
// reporter.
//
// STRUCTURED LOGS:
//   log/slog on stderr, text or JSON. Lines carry machine-readable fields
//   such as run_id and row numbers.
//
// CONSOLE:
//   The short [INFO]/[WARN]/[ERROR]/[SUCCESS] lines an operator reads when
//   running the tool by hand. Colors are cosmetic and can be switched off.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// STRUCTURED LOGGING
// =============================================================================

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New builds a logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// =============================================================================
// CONSOLE REPORTER
// =============================================================================

// ANSI color codes.
const (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// Console prints operator-facing status lines.
type Console struct {
	Out   io.Writer
	Err   io.Writer
	Color bool
}

// NewConsole returns a console on stdout/stderr.
func NewConsole(color bool) *Console {
	return &Console{Out: os.Stdout, Err: os.Stderr, Color: color}
}

func (c *Console) tag(color, label string) string {
	if !c.Color {
		return "[" + label + "]"
	}
	return color + "[" + label + "]" + colorReset
}

// Info prints an informational line to Out.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", c.tag(colorBlue, "INFO"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line to Err.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", c.tag(colorYellow, "WARN"), fmt.Sprintf(format, args...))
}

// Error prints an error line to Err.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.Err, "%s %s\n", c.tag(colorRed, "ERROR"), fmt.Sprintf(format, args...))
}

// Success prints a success line to Out.
func (c *Console) Success(format string, args ...any) {
	fmt.Fprintf(c.Out, "%s %s\n", c.tag(colorGreen, "SUCCESS"), fmt.Sprintf(format, args...))
}

// Plain prints an untagged line to Out.
func (c *Console) Plain(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}
