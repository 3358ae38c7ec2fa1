package driven

import "github.com/custodia-labs/structdb/internal/core/domain"

// AtomStore persists binary atom files, one per structure id.
// Backed by the filesystem; each file is immutable once written.
type AtomStore interface {
	// Exists reports whether an atom file for id is already stored.
	Exists(id string) (bool, error)

	// Save encodes and stores positions and residue boundaries for id.
	Save(id string, positions []domain.Vec3, index domain.ResidueGroupIndex) error

	// Load reads and decodes the atom file for id.
	// Returns domain.ErrNotFound if it does not exist and an error wrapping
	// domain.ErrCodec if it is corrupt.
	Load(id string) ([]domain.Vec3, domain.ResidueGroupIndex, error)

	// List returns all stored structure ids, sorted.
	List() ([]string, error)
}
