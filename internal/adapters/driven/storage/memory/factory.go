package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure DatabaseFactory implements the interface.
var _ driven.DatabaseFactory = (*DatabaseFactory)(nil)

// DatabaseFactory hands out in-memory stores, one set per root.
// Reopening a root returns the same stores, so state survives between runs.
type DatabaseFactory struct {
	mu        sync.Mutex
	databases map[string]*driven.Database
}

// NewDatabaseFactory creates a new in-memory database factory.
func NewDatabaseFactory() *DatabaseFactory {
	return &DatabaseFactory{databases: make(map[string]*driven.Database)}
}

// Open returns the stores for root, creating them on first use.
func (f *DatabaseFactory) Open(_ context.Context, root string) (*driven.Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if db, ok := f.databases[root]; ok {
		return db, nil
	}
	db := &driven.Database{
		Root:    root,
		Atoms:   NewAtomStore(),
		Catalog: NewCatalog(),
		Close:   func() error { return nil },
	}
	f.databases[root] = db
	return db, nil
}
