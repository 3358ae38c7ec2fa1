package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/logger"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports, logger.Nop())
	require.NoError(t, err)
	return server
}

func TestHandleContactMap(t *testing.T) {
	t.Run("default cutoff", func(t *testing.T) {
		contacts := &mockContactMapService{matrix: threeResidueMatrix()}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db"})

		_, out, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "1abc"})

		require.NoError(t, err)
		assert.Equal(t, "/db", contacts.root)
		assert.Equal(t, "1abc", contacts.id)
		assert.Equal(t, domain.DefaultContactCutoff, out.Cutoff)
		assert.Equal(t, 3, out.Residues)
		assert.Equal(t, 2, out.Contacts)
		assert.Equal(t, [][]int{{1, 1, 0}, {1, 1, 1}, {0, 1, 1}}, out.Rows)
	})

	t.Run("configured cutoff", func(t *testing.T) {
		contacts := &mockContactMapService{matrix: threeResidueMatrix()}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db", Cutoff: 9})

		_, out, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "1abc"})

		require.NoError(t, err)
		assert.Equal(t, 9.0, out.Cutoff)
		assert.Equal(t, 3, out.Contacts, "all three pairs are within 9")
	})

	t.Run("request cutoff beats configured", func(t *testing.T) {
		contacts := &mockContactMapService{matrix: threeResidueMatrix()}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db", Cutoff: 9})

		_, out, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "1abc", Cutoff: 5})

		require.NoError(t, err)
		assert.Equal(t, 5.0, out.Cutoff)
		assert.Equal(t, 2, out.Contacts)
	})

	t.Run("explicit cutoff and database", func(t *testing.T) {
		contacts := &mockContactMapService{matrix: threeResidueMatrix()}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db"})

		_, out, err := server.handleContactMap(context.Background(), nil,
			ContactMapInput{Database: "/other", ID: "1abc", Cutoff: 10})

		require.NoError(t, err)
		assert.Equal(t, "/other", contacts.root)
		assert.Equal(t, 3, out.Contacts)
	})

	t.Run("cutoff is strict", func(t *testing.T) {
		contacts := &mockContactMapService{matrix: threeResidueMatrix()}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db"})

		_, out, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "1abc", Cutoff: 4})

		require.NoError(t, err)
		assert.Equal(t, 0, out.Contacts)
	})

	t.Run("missing id", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Database: "/db"})

		_, _, err := server.handleContactMap(context.Background(), nil, ContactMapInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no database", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}})

		_, _, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "1abc"})

		assert.ErrorIs(t, err, errNoDatabase)
	})

	t.Run("service error", func(t *testing.T) {
		contacts := &mockContactMapService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{ContactMap: contacts, Database: "/db"})

		_, _, err := server.handleContactMap(context.Background(), nil, ContactMapInput{ID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestHandleFilterHits(t *testing.T) {
	t.Run("passes options", func(t *testing.T) {
		minIdentity := 50.0
		filter := &mockHitFilterService{hits: []domain.AlignmentHit{
			{Query: "q1", Target: "t1", Identity: 90},
		}}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, HitFilter: filter})

		_, out, err := server.handleFilterHits(context.Background(), nil,
			FilterHitsInput{Path: "/tmp/hits.m8", K: 3, MinIdentity: &minIdentity})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "t1", out.Hits[0].Target)
		assert.Equal(t, "/tmp/hits.m8", filter.path)
		assert.Equal(t, 3, filter.opts.K)
		require.NotNil(t, filter.opts.Thresholds.MinIdentity)
		assert.Equal(t, 50.0, *filter.opts.Thresholds.MinIdentity)
		assert.Nil(t, filter.opts.Thresholds.MaxEValue)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, HitFilter: &mockHitFilterService{}})

		_, out, err := server.handleFilterHits(context.Background(), nil, FilterHitsInput{Path: "x.m8"})

		require.NoError(t, err)
		assert.NotNil(t, out.Hits)
		assert.Equal(t, 0, out.Count)
	})

	t.Run("missing path", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, HitFilter: &mockHitFilterService{}})

		_, _, err := server.handleFilterHits(context.Background(), nil, FilterHitsInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("service error", func(t *testing.T) {
		filter := &mockHitFilterService{err: errors.New("read failed")}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, HitFilter: filter})

		_, _, err := server.handleFilterHits(context.Background(), nil, FilterHitsInput{Path: "x.m8"})

		assert.EqualError(t, err, "read failed")
	})
}

func TestHandleManifest(t *testing.T) {
	t.Run("returns manifest", func(t *testing.T) {
		catalog := &mockCatalogService{manifest: domain.NewBuildManifest([]string{"2def", "1abc"}, 500, []string{"/in"})}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		_, out, err := server.handleManifest(context.Background(), nil, DatabaseInput{})

		require.NoError(t, err)
		assert.Equal(t, "/db", catalog.lastRoot)
		assert.Equal(t, []string{"1abc", "2def"}, out.Sequences)
		assert.Equal(t, 500, out.MaxLength)
		assert.Equal(t, []string{"/in"}, out.InputPaths)
	})

	t.Run("not built", func(t *testing.T) {
		catalog := &mockCatalogService{}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog})

		_, _, err := server.handleManifest(context.Background(), nil, DatabaseInput{Database: "/empty"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("catalog not configured", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Database: "/db"})

		_, _, err := server.handleManifest(context.Background(), nil, DatabaseInput{})

		assert.ErrorIs(t, err, errCatalogUnavailable)
	})
}

func TestHandleStructure(t *testing.T) {
	record := &domain.StructureRecord{
		ID:       "1abc",
		Path:     "/in/1abc.pdb",
		RunID:    "run-1",
		Status:   domain.Fail("no ATOM records"),
		Sequence: "",
	}

	t.Run("returns record", func(t *testing.T) {
		catalog := &mockCatalogService{record: record}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		_, out, err := server.handleStructure(context.Background(), nil, StructureInput{ID: "1abc"})

		require.NoError(t, err)
		assert.Equal(t, "1abc", out.ID)
		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, "FAIL:no ATOM records", out.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		catalog := &mockCatalogService{record: record}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		_, _, err := server.handleStructure(context.Background(), nil, StructureInput{ID: "9zzz"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		catalog := &mockCatalogService{record: record}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		_, _, err := server.handleStructure(context.Background(), nil, StructureInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
