package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.StructureCatalog = (*Catalog)(nil)

// Catalog is an in-memory implementation of driven.StructureCatalog.
type Catalog struct {
	mu         sync.RWMutex
	runs       map[string]domain.BuildRun
	structures map[string]domain.StructureRecord
}

// NewCatalog creates a new in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		runs:       make(map[string]domain.BuildRun),
		structures: make(map[string]domain.StructureRecord),
	}
}

// SaveRun stores or updates a build run.
func (c *Catalog) SaveRun(_ context.Context, run domain.BuildRun) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs[run.ID] = run
	return nil
}

// GetRun retrieves a build run by ID.
func (c *Catalog) GetRun(_ context.Context, id string) (*domain.BuildRun, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	run, ok := c.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// SaveStructures stores or updates structure records.
func (c *Catalog) SaveStructures(_ context.Context, records []domain.StructureRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		c.structures[r.ID] = r
	}
	return nil
}

// GetStructure retrieves the latest record for a structure id.
func (c *Catalog) GetStructure(_ context.Context, id string) (*domain.StructureRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.structures[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// ListStructures returns records with the given outcome, sorted by id.
func (c *Catalog) ListStructures(_ context.Context, outcome domain.Outcome) ([]domain.StructureRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.StructureRecord
	for _, r := range c.structures {
		if outcome == "" || r.Status.Outcome == outcome {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
