package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/logger"
)

type mockBuildService struct {
	mu       sync.Mutex
	requests []domain.BuildRequest
	report   *domain.BuildReport
	err      error
}

func (m *mockBuildService) Build(_ context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.report, m.err
}

func (m *mockBuildService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type mockSearchService struct {
	request domain.SearchRequest
	report  *domain.SearchReport
	err     error
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchReport, error) {
	m.request = req
	return m.report, m.err
}

type mockHitFilterService struct {
	path string
	opts domain.HitFilterOptions
	hits []domain.AlignmentHit
	err  error
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

type mockContactMapService struct {
	root   string
	id     string
	matrix *domain.DistanceMatrix
	err    error
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

type mockCatalogService struct {
	root     string
	outcome  domain.Outcome
	manifest *domain.BuildManifest
	record   *domain.StructureRecord
	records  []domain.StructureRecord
	ids      []string
	err      error
}

func (m *mockCatalogService) Manifest(_ context.Context, root string) (*domain.BuildManifest, error) {
	m.root = root
	return m.manifest, m.err
}

func (m *mockCatalogService) Run(_ context.Context, root, _ string) (*domain.BuildRun, error) {
	m.root = root
	return nil, m.err
}

func (m *mockCatalogService) Structure(_ context.Context, root, id string) (*domain.StructureRecord, error) {
	m.root = root
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil || m.record.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.record, nil
}

func (m *mockCatalogService) StoredIDs(_ context.Context, root string) ([]string, error) {
	m.root = root
	return m.ids, m.err
}

func (m *mockCatalogService) Structures(_ context.Context, root string, outcome domain.Outcome) ([]domain.StructureRecord, error) {
	m.root = root
	m.outcome = outcome
	return m.records, m.err
}

type mockSettingsService struct {
	settings domain.Settings
	saved    *domain.Settings
	setKey   string
	setValue string
	err      error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings()}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	m.saved = settings
	return m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey = key
	m.setValue = value
	return m.err
}

func (m *mockSettingsService) Keys() []string {
	return []string{"build.workers"}
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

type mockHitWriter struct {
	path string
	hits []domain.AlignmentHit
	err  error
}

func (m *mockHitWriter) WriteHits(path string, hits []domain.AlignmentHit) error {
	m.path = path
	m.hits = hits
	return m.err
}

type testServices struct {
	build      *mockBuildService
	search     *mockSearchService
	hitFilter  *mockHitFilterService
	contactMap *mockContactMapService
	catalog    *mockCatalogService
	settings   *mockSettingsService
	hitWriter  *mockHitWriter
}

// setupTestServices installs mock services and returns them with a cleanup
// that restores the previous wiring and flag state.
func setupTestServices() (*testServices, func()) {
	prev := Services{
		Build:      buildService,
		Search:     searchService,
		HitFilter:  hitFilterService,
		ContactMap: contactMapService,
		Catalog:    catalogService,
		Settings:   settingsService,
		HitReader:  hitReader,
		HitWriter:  hitWriter,
		Logger:     log,
	}

	ts := &testServices{
		build:      &mockBuildService{report: &domain.BuildReport{}},
		search:     &mockSearchService{report: &domain.SearchReport{}},
		hitFilter:  &mockHitFilterService{},
		contactMap: &mockContactMapService{matrix: domain.NewDistanceMatrix(0)},
		catalog:    &mockCatalogService{},
		settings:   newMockSettingsService(),
		hitWriter:  &mockHitWriter{},
	}
	SetServices(Services{
		Build:      ts.build,
		Search:     ts.search,
		HitFilter:  ts.hitFilter,
		ContactMap: ts.contactMap,
		Catalog:    ts.catalog,
		Settings:   ts.settings,
		HitWriter:  ts.hitWriter,
		Logger:     logger.Nop(),
	})

	return ts, func() {
		SetServices(prev)
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
	}
}

// resetFlags restores every flag of cmd and its subcommands to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
