// Package logger provides levelled logging for structdb.
// A Logger is created once at start-up and passed to each component.
// When verbose mode is enabled via the --verbose flag, debug messages
// and section headers are printed as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger writes levelled messages to a single output.
// It is safe for concurrent use by worker goroutines.
type Logger struct {
	mu      sync.Mutex
	verbose bool
	output  io.Writer
}

// New creates a logger writing to w. A nil writer means os.Stderr.
func New(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{output: w, verbose: verbose}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, false)
}

// SetVerbose enables or disables verbose output.
func (l *Logger) SetVerbose(v bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.write(true, "[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	l.write(true, "\n=== %s ===\n", name)
}

// Info prints an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.write(false, "[INFO] "+format+"\n", args...)
}

// Warn prints a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.write(false, "[WARN] "+format+"\n", args...)
}

// Error prints an error message.
func (l *Logger) Error(format string, args ...any) {
	l.write(false, "[ERROR] "+format+"\n", args...)
}

func (l *Logger) write(verboseOnly bool, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if verboseOnly && !l.verbose {
		return
	}
	fmt.Fprintf(l.output, format, args...)
}
