package driving

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// CatalogService answers questions about a built structure database.
type CatalogService interface {
	// Manifest returns the manifest of the last successful build.
	Manifest(ctx context.Context, root string) (*domain.BuildManifest, error)

	// Run returns a recorded build run.
	Run(ctx context.Context, root, runID string) (*domain.BuildRun, error)

	// Structure returns the latest record for a structure id.
	Structure(ctx context.Context, root, id string) (*domain.StructureRecord, error)

	// Structures lists records with the given outcome; empty lists all.
	Structures(ctx context.Context, root string, outcome domain.Outcome) ([]domain.StructureRecord, error)

	// StoredIDs lists the ids that have an atom file, sorted.
	StoredIDs(ctx context.Context, root string) ([]string, error)
}
