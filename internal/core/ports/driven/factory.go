package driven

import "context"

// Database is the set of stores backing one structure database directory.
type Database struct {
	// Root is the database directory.
	Root string

	Atoms   AtomStore
	Catalog StructureCatalog

	// Close releases resources held by the stores. Never nil.
	Close func() error
}

// DatabaseFactory opens the stores of a structure database directory,
// creating the directory layout when it does not exist yet.
type DatabaseFactory interface {
	Open(ctx context.Context, root string) (*Database, error)
}
