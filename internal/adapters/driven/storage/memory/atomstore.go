package memory

import (
	"sort"
	"sync"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure AtomStore implements the interface.
var _ driven.AtomStore = (*AtomStore)(nil)

type atomEntry struct {
	positions []domain.Vec3
	index     domain.ResidueGroupIndex
}

// AtomStore is an in-memory implementation of driven.AtomStore for testing.
// Saved slices are copied so callers may reuse their buffers.
type AtomStore struct {
	mu      sync.RWMutex
	entries map[string]atomEntry
}

// NewAtomStore creates a new in-memory atom store.
func NewAtomStore() *AtomStore {
	return &AtomStore{entries: make(map[string]atomEntry)}
}

// Exists reports whether id is stored.
func (s *AtomStore) Exists(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok, nil
}

// Save stores copies of positions and index under id.
func (s *AtomStore) Save(id string, positions []domain.Vec3, index domain.ResidueGroupIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = atomEntry{
		positions: append([]domain.Vec3(nil), positions...),
		index:     append(domain.ResidueGroupIndex(nil), index...),
	}
	return nil
}

// Load returns copies of the stored positions and index.
func (s *AtomStore) Load(id string) ([]domain.Vec3, domain.ResidueGroupIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	return append([]domain.Vec3(nil), e.positions...), append(domain.ResidueGroupIndex(nil), e.index...), nil
}

// List returns all stored ids, sorted.
func (s *AtomStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
