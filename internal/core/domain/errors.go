package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown structure file format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrParse indicates a structure file could not be parsed.
	// Recorded as a per-file failure, never fatal for a build run.
	ErrParse = errors.New("parse error")

	// ErrCodec indicates a binary atom file is corrupt or truncated.
	ErrCodec = errors.New("codec error")

	// ErrDiscovery indicates no structure files were found under any input path.
	ErrDiscovery = errors.New("no structure files found")

	// ErrNoNewStructures indicates a build run produced no successfully processed structures.
	// Every discovered id was either already present or failed processing.
	ErrNoNewStructures = errors.New("no new structures added")

	// ErrExternalTool indicates an external tool exited unsuccessfully.
	ErrExternalTool = errors.New("external tool failed")
)

// ExternalToolError describes a failed invocation of an external binary.
type ExternalToolError struct {
	// Tool is the executable that was run.
	Tool string

	// Args are the arguments passed to the executable.
	Args []string

	// ExitCode is the process exit status, or -1 if the process never started.
	ExitCode int

	// Stderr holds whatever the tool wrote to its error stream.
	Stderr string
}

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrExternalTool).
func (e *ExternalToolError) Unwrap() error {
	return ErrExternalTool
}
