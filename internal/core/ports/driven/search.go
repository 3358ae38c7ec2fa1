package driven

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// SearchTool wraps the external sequence-search subsystem.
// Calls are synchronous, blocking and single-attempt.
type SearchTool interface {
	// CreateTargetDatabase builds and indexes a target database from a FASTA file.
	CreateTargetDatabase(ctx context.Context, sequenceFile, databasePath string) error

	// Search aligns query sequences against a target database and returns
	// the path of the tabular result file written under outputDir.
	Search(ctx context.Context, queryFile, targetDatabase, outputDir string) (string, error)
}

// HitReader reads tabular alignment files.
type HitReader interface {
	// ReadHits parses every row of a tabular alignment file.
	ReadHits(path string) ([]domain.AlignmentHit, error)
}

// HitWriter writes tabular alignment files.
type HitWriter interface {
	// WriteHits writes hits in the fixed column order.
	WriteHits(path string, hits []domain.AlignmentHit) error
}
