package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService reads manifests and catalog records of built databases.
type CatalogService struct {
	databases driven.DatabaseFactory
	manifests driven.ManifestStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(databases driven.DatabaseFactory, manifests driven.ManifestStore) *CatalogService {
	return &CatalogService{databases: databases, manifests: manifests}
}

// Manifest returns the manifest of the last successful build.
func (s *CatalogService) Manifest(_ context.Context, root string) (*domain.BuildManifest, error) {
	return s.manifests.Read(domain.DatabaseLayout{Root: root}.Manifest())
}

// Run returns a recorded build run.
func (s *CatalogService) Run(ctx context.Context, root, runID string) (*domain.BuildRun, error) {
	var run *domain.BuildRun
	err := s.withCatalog(ctx, root, func(c driven.StructureCatalog) error {
		var err error
		run, err = c.GetRun(ctx, runID)
		return err
	})
	return run, err
}

// Structure returns the latest record for a structure id.
func (s *CatalogService) Structure(ctx context.Context, root, id string) (*domain.StructureRecord, error) {
	var rec *domain.StructureRecord
	err := s.withCatalog(ctx, root, func(c driven.StructureCatalog) error {
		var err error
		rec, err = c.GetStructure(ctx, id)
		return err
	})
	return rec, err
}

// Structures lists records with the given outcome; empty lists all.
func (s *CatalogService) Structures(ctx context.Context, root string, outcome domain.Outcome) ([]domain.StructureRecord, error) {
	var recs []domain.StructureRecord
	err := s.withCatalog(ctx, root, func(c driven.StructureCatalog) error {
		var err error
		recs, err = c.ListStructures(ctx, outcome)
		return err
	})
	return recs, err
}

// StoredIDs lists the ids that have an atom file, sorted.
func (s *CatalogService) StoredIDs(ctx context.Context, root string) ([]string, error) {
	db, err := s.databases.Open(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck
	return db.Atoms.List()
}

func (s *CatalogService) withCatalog(ctx context.Context, root string, fn func(driven.StructureCatalog) error) error {
	db, err := s.databases.Open(ctx, root)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck
	return fn(db.Catalog)
}
