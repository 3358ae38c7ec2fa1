package driving

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// ContactMapService computes residue contact maps.
type ContactMapService interface {
	// Distances computes the residue distance matrix for positions delimited by index.
	Distances(positions []domain.Vec3, index domain.ResidueGroupIndex) (*domain.DistanceMatrix, error)

	// Compute returns the contact map of residues closer than cutoff.
	Compute(positions []domain.Vec3, index domain.ResidueGroupIndex, cutoff float64) (*domain.ContactMap, error)

	// Load reads structure id from the database at root and returns its distance matrix.
	// Returns domain.ErrNotFound if the structure is not stored.
	Load(ctx context.Context, root, id string) (*domain.DistanceMatrix, error)
}
