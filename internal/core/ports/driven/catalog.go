package driven

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// StructureCatalog records build runs and per-structure outcomes.
// Backed by SQLite for persistent builds.
type StructureCatalog interface {
	// SaveRun stores or updates a build run.
	SaveRun(ctx context.Context, run domain.BuildRun) error

	// GetRun retrieves a build run by ID.
	GetRun(ctx context.Context, id string) (*domain.BuildRun, error)

	// SaveStructures stores or updates structure records in one transaction.
	SaveStructures(ctx context.Context, records []domain.StructureRecord) error

	// GetStructure retrieves the latest record for a structure id.
	GetStructure(ctx context.Context, id string) (*domain.StructureRecord, error)

	// ListStructures returns records with the given outcome, sorted by id.
	// An empty outcome lists every record.
	ListStructures(ctx context.Context, outcome domain.Outcome) ([]domain.StructureRecord, error)
}
