package mcp

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// mockContactMapService is a mock implementation of driving.ContactMapService.
type mockContactMapService struct {
	matrix *domain.DistanceMatrix
	err    error

	root string
	id   string
}

func (m *mockContactMapService) Distances(_ []domain.Vec3, _ domain.ResidueGroupIndex) (*domain.DistanceMatrix, error) {
	return m.matrix, m.err
}

func (m *mockContactMapService) Compute(_ []domain.Vec3, _ domain.ResidueGroupIndex, cutoff float64) (*domain.ContactMap, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.matrix.Threshold(float32(cutoff)), nil
}

func (m *mockContactMapService) Load(_ context.Context, root, id string) (*domain.DistanceMatrix, error) {
	m.root = root
	m.id = id
	return m.matrix, m.err
}

// mockHitFilterService is a mock implementation of driving.HitFilterService.
type mockHitFilterService struct {
	hits []domain.AlignmentHit
	err  error

	path string
	opts domain.HitFilterOptions
}

func (m *mockHitFilterService) Filter(
	_ context.Context,
	hits []domain.AlignmentHit,
	opts domain.HitFilterOptions,
) ([]domain.AlignmentHit, error) {
	m.opts = opts
	return hits, m.err
}

func (m *mockHitFilterService) FilterFile(
	_ context.Context,
	path string,
	opts domain.HitFilterOptions,
) ([]domain.AlignmentHit, error) {
	m.path = path
	m.opts = opts
	return m.hits, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	manifest  *domain.BuildManifest
	run       *domain.BuildRun
	record    *domain.StructureRecord
	records   []domain.StructureRecord
	err       error
	lastRoot  string
	lastQuery string
}

func (m *mockCatalogService) Manifest(_ context.Context, root string) (*domain.BuildManifest, error) {
	m.lastRoot = root
	if m.err != nil {
		return nil, m.err
	}
	if m.manifest == nil {
		return nil, domain.ErrNotFound
	}
	return m.manifest, nil
}

func (m *mockCatalogService) Run(_ context.Context, root, runID string) (*domain.BuildRun, error) {
	m.lastRoot = root
	m.lastQuery = runID
	return m.run, m.err
}

func (m *mockCatalogService) Structure(_ context.Context, root, id string) (*domain.StructureRecord, error) {
	m.lastRoot = root
	m.lastQuery = id
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil || m.record.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.record, nil
}

func (m *mockCatalogService) StoredIDs(_ context.Context, root string) ([]string, error) {
	m.lastRoot = root
	return nil, m.err
}

func (m *mockCatalogService) Structures(_ context.Context, root string, _ domain.Outcome) ([]domain.StructureRecord, error) {
	m.lastRoot = root
	return m.records, m.err
}

// threeResidueMatrix returns distances for residues on a line spaced 4Å apart.
func threeResidueMatrix() *domain.DistanceMatrix {
	m := domain.NewDistanceMatrix(3)
	m.SetSymmetric(0, 1, 4)
	m.SetSymmetric(1, 2, 4)
	m.SetSymmetric(0, 2, 8)
	return m
}
