// Package storage opens the on-disk stores of a structure database.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/structdb/internal/adapters/driven/storage/atomfile"
	"github.com/custodia-labs/structdb/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.DatabaseFactory = (*Factory)(nil)

// Factory opens binary atom stores and SQLite catalogs.
type Factory struct{}

// NewFactory creates a new database factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open opens <root>/seq_atom_db and <root>/catalog.db.
func (f *Factory) Open(ctx context.Context, root string) (*driven.Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	layout := domain.DatabaseLayout{Root: root}
	atoms, err := atomfile.NewStore(layout.AtomDir())
	if err != nil {
		return nil, fmt.Errorf("open atom store: %w", err)
	}

	catalog, err := sqlite.NewStore(root)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	return &driven.Database{
		Root:    root,
		Atoms:   atoms,
		Catalog: catalog,
		Close:   catalog.Close,
	}, nil
}
