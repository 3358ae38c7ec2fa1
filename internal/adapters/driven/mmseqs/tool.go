// Package mmseqs drives the MMseqs2 command-line suite and reads and writes
// its tabular alignment output.
package mmseqs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/logger"
)

// Ensure Tool implements the interface.
var _ driven.SearchTool = (*Tool)(nil)

// File names written by Search.
const (
	SearchResultsFile = "mmseqs2_search_results.m8"
	QueryDatabase     = "queryDB"
	resultDatabase    = "search_resultDB"
)

// Tool runs MMseqs2 subcommands. Every call is synchronous and single-attempt.
type Tool struct {
	binary string
	log    *logger.Logger
}

// New creates a Tool for the given executable. An empty binary means
// domain.DefaultMMseqsPath resolved through PATH.
func New(binary string, log *logger.Logger) *Tool {
	if binary == "" {
		binary = domain.DefaultMMseqsPath
	}
	return &Tool{binary: binary, log: log}
}

// Binary returns the configured executable.
func (t *Tool) Binary() string {
	return t.binary
}

// CreateTargetDatabase converts a FASTA file into an amino-acid database and indexes it.
func (t *Tool) CreateTargetDatabase(ctx context.Context, sequenceFile, databasePath string) error {
	if err := t.run(ctx, "createdb", sequenceFile, databasePath, "--dbtype", "1"); err != nil {
		return err
	}

	t.log.Info("Indexing target database %s", databasePath)
	return t.withTempDir(func(tmp string) error {
		return t.run(ctx, "createindex", databasePath, tmp)
	})
}

// Search builds a query database under outputDir, searches it against
// targetDatabase and converts the alignments to tabular form.
func (t *Tool) Search(ctx context.Context, queryFile, targetDatabase, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create search output directory: %w", err)
	}

	output := filepath.Join(outputDir, SearchResultsFile)
	queryDB := filepath.Join(outputDir, QueryDatabase)
	if err := t.run(ctx, "createdb", queryFile, queryDB, "--dbtype", "1"); err != nil {
		return "", err
	}

	err := t.withTempDir(func(tmp string) error {
		resultDB := filepath.Join(tmp, resultDatabase)
		if err := t.run(ctx, "search", queryDB, targetDatabase, resultDB, filepath.Join(tmp, "tmp")); err != nil {
			return err
		}
		return t.run(ctx, "convertalis", queryDB, targetDatabase, resultDB, output)
	})
	if err != nil {
		return "", err
	}
	return output, nil
}

func (t *Tool) withTempDir(fn func(dir string) error) error {
	tmp, err := os.MkdirTemp("", "structdb-mmseqs-")
	if err != nil {
		return fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tmp)
	return fn(tmp)
}

// run executes one subcommand, capturing stderr for diagnostics.
func (t *Tool) run(ctx context.Context, args ...string) error {
	t.log.Debug("Running %s %s", t.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, t.binary, args...)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", t.binary, args[0], ctxErr)
		}
		toolErr := &domain.ExternalToolError{
			Tool:     t.binary,
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		} else if toolErr.Stderr == "" {
			toolErr.Stderr = err.Error()
		}
		return toolErr
	}
	return nil
}
