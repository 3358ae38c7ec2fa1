package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
)

// Ensure ContactMapEngine implements the interface.
var _ driving.ContactMapService = (*ContactMapEngine)(nil)

// ContactMapEngine derives residue distance matrices and contact maps from
// atom coordinates. The distance between two residues is the minimum
// distance between any atom of one and any atom of the other.
type ContactMapEngine struct {
	databases driven.DatabaseFactory
}

// NewContactMapEngine creates a contact map engine. databases may be nil
// when only in-memory computation is needed.
func NewContactMapEngine(databases driven.DatabaseFactory) *ContactMapEngine {
	return &ContactMapEngine{databases: databases}
}

// Distances computes the residue distance matrix for positions delimited by index.
func (e *ContactMapEngine) Distances(positions []domain.Vec3, index domain.ResidueGroupIndex) (*domain.DistanceMatrix, error) {
	if err := index.Validate(len(positions)); err != nil {
		return nil, err
	}

	n := index.Residues()
	m := domain.NewDistanceMatrix(n)

	// One atom per residue: plain pairwise distances.
	if n == len(positions) {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				m.SetSymmetric(i, j, distance(positions[i], positions[j]))
			}
		}
		return m, nil
	}

	for i := 0; i < n; i++ {
		si, ei := index.Range(i)
		for j := i + 1; j < n; j++ {
			sj, ej := index.Range(j)
			m.SetSymmetric(i, j, minDistance(positions[si:ei], positions[sj:ej]))
		}
	}
	return m, nil
}

// Compute returns the contact map of residues closer than cutoff.
func (e *ContactMapEngine) Compute(positions []domain.Vec3, index domain.ResidueGroupIndex, cutoff float64) (*domain.ContactMap, error) {
	if cutoff <= 0 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: contact cutoff must be positive, got %g", domain.ErrInvalidInput, cutoff)
	}
	m, err := e.Distances(positions, index)
	if err != nil {
		return nil, err
	}
	return m.Threshold(float32(cutoff)), nil
}

// Load reads structure id from the database at root and returns its distance matrix.
func (e *ContactMapEngine) Load(ctx context.Context, root, id string) (*domain.DistanceMatrix, error) {
	if e.databases == nil {
		return nil, fmt.Errorf("load %s: database factory not configured", id)
	}
	db, err := e.databases.Open(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	positions, index, err := db.Atoms.Load(id)
	if err != nil {
		return nil, err
	}
	m, err := e.Distances(positions, index)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return m, nil
}

func minDistance(a, b []domain.Vec3) float32 {
	best := float32(math.Inf(1))
	for _, p := range a {
		for _, q := range b {
			if d := squaredDistance(p, q); d < best {
				best = d
			}
		}
	}
	return float32(math.Sqrt(float64(best)))
}

func distance(p, q domain.Vec3) float32 {
	return float32(math.Sqrt(float64(squaredDistance(p, q))))
}

func squaredDistance(p, q domain.Vec3) float32 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	dz := p[2] - q[2]
	return dx*dx + dy*dy + dz*dz
}
