package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/logger"
)

// mockSequenceReader implements driven.SequenceReader for testing.
type mockSequenceReader struct {
	records []driven.SequenceRecord
	err     error
}

func (m *mockSequenceReader) ReadSequences(_ string) ([]driven.SequenceRecord, error) {
	return m.records, m.err
}

// mockHitWriter implements driven.HitWriter for testing.
type mockHitWriter struct {
	path string
	hits []domain.AlignmentHit
}

func (m *mockHitWriter) WriteHits(path string, hits []domain.AlignmentHit) error {
	m.path = path
	m.hits = hits
	return nil
}

type searchFixture struct {
	queries   *mockSequenceReader
	manifests *mockManifestStore
	tool      *mockSearchTool
	hits      *mockHitReader
	output    *mockHitWriter
	service   *SearchService
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		queries: &mockSequenceReader{records: []driven.SequenceRecord{
			{ID: "q1", Sequence: "MKV"},
			{ID: "q2", Sequence: "GS"},
		}},
		manifests: &mockManifestStore{manifest: domain.NewBuildManifest([]string{"1abc"}, 1000, []string{"/in"})},
		tool:      &mockSearchTool{searchPath: "/out/mmseqs2_search_results.m8"},
		hits: &mockHitReader{hits: []domain.AlignmentHit{
			hit("q1", "a", 30, 1e-3, 50),
			hit("q1", "b", 95, 1e-9, 80),
			hit("q2", "c", 60, 1e-4, 60),
		}},
		output: &mockHitWriter{},
	}
	f.service = NewSearchService(f.queries, f.manifests, f.tool, f.hits, f.output,
		NewHitFilter(f.hits, logger.Nop()), logger.Nop())
	return f
}

func TestSearch_WithoutFilter(t *testing.T) {
	f := newSearchFixture()

	report, err := f.service.Search(context.Background(), domain.SearchRequest{
		QueryPath:    "/q.fasta",
		DatabasePath: "/db",
		OutputDir:    "/out",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, report.Queries)
	assert.Equal(t, "/out/mmseqs2_search_results.m8", report.ResultsPath)
	assert.Empty(t, report.FilteredPath)
	assert.Equal(t, [][3]string{{"/q.fasta", filepath.Join("/db", "targetDB"), "/out"}}, f.tool.searchCalls)
	assert.Empty(t, f.output.path)
}

func TestSearch_WithFilter(t *testing.T) {
	f := newSearchFixture()

	report, err := f.service.Search(context.Background(), domain.SearchRequest{
		QueryPath:    "/q.fasta",
		DatabasePath: "/db",
		OutputDir:    "/out",
		Filter:       &domain.HitFilterOptions{K: 1},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, report.Hits)
	assert.Equal(t, filepath.Join("/out", "filtered_hits.m8"), report.FilteredPath)
	assert.Equal(t, report.FilteredPath, f.output.path)
	assert.Equal(t, []string{"b", "c"}, targets(f.output.hits))
	assert.Equal(t, f.output.hits, report.Kept)
}

func TestSearch_OutputDefaultsToDatabase(t *testing.T) {
	f := newSearchFixture()

	_, err := f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta", DatabasePath: "/db"})

	require.NoError(t, err)
	require.Len(t, f.tool.searchCalls, 1)
	assert.Equal(t, "/db", f.tool.searchCalls[0][2])
}

func TestSearch_EmptyQuery(t *testing.T) {
	f := newSearchFixture()
	f.queries.records = nil

	_, err := f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta", DatabasePath: "/db"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.tool.searchCalls)
}

func TestSearch_DatabaseNotBuilt(t *testing.T) {
	f := newSearchFixture()
	f.manifests.manifest = nil

	_, err := f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta", DatabasePath: "/db"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.tool.searchCalls)
}

func TestSearch_ToolFailure(t *testing.T) {
	f := newSearchFixture()
	f.tool.searchErr = &domain.ExternalToolError{Tool: "mmseqs", Args: []string{"search"}, ExitCode: 1}

	_, err := f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta", DatabasePath: "/db"})

	assert.ErrorIs(t, err, domain.ErrExternalTool)
}

func TestSearch_InvalidRequest(t *testing.T) {
	f := newSearchFixture()

	_, err := f.service.Search(context.Background(), domain.SearchRequest{DatabasePath: "/db"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_QueryReadError(t *testing.T) {
	f := newSearchFixture()
	f.queries.err = errors.New("permission denied")

	_, err := f.service.Search(context.Background(), domain.SearchRequest{QueryPath: "/q.fasta", DatabasePath: "/db"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read queries")
}
