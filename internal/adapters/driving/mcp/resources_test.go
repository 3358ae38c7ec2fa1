package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestExtractStructureID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid structure URI",
			uri:      "structdb://structures/1abc",
			expected: "1abc",
		},
		{
			name:     "invalid prefix",
			uri:      "file://structures/1abc",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "structdb://structures/1abc/atoms",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractStructureID(tt.uri))
		})
	}
}

func TestHandleManifestResource(t *testing.T) {
	t.Run("returns manifest json", func(t *testing.T) {
		catalog := &mockCatalogService{manifest: domain.NewBuildManifest([]string{"1abc"}, 0, []string{"/in"})}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		result, err := server.handleManifestResource(context.Background(), makeReadResourceRequest("structdb://manifest"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var m domain.BuildManifest
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &m))
		assert.Equal(t, []string{"1abc"}, m.Sequences)
	})

	t.Run("not built is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: &mockCatalogService{}, Database: "/db"})

		_, err := server.handleManifestResource(context.Background(), makeReadResourceRequest("structdb://manifest"))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("other error is wrapped", func(t *testing.T) {
		catalog := &mockCatalogService{err: errors.New("disk")}
		server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

		_, err := server.handleManifestResource(context.Background(), makeReadResourceRequest("structdb://manifest"))

		assert.ErrorContains(t, err, "reading manifest")
	})
}

func TestHandleStructuresResource(t *testing.T) {
	catalog := &mockCatalogService{records: []domain.StructureRecord{
		{ID: "1abc", Status: domain.Success(), Residues: 10},
		{ID: "3bad", Status: domain.Fail("no ATOM records")},
	}}
	server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

	result, err := server.handleStructuresResource(context.Background(), makeReadResourceRequest("structdb://structures"))

	require.NoError(t, err)
	var infos []StructureOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "SUCCESS", infos[0].Status)
	assert.Equal(t, "FAIL:no ATOM records", infos[1].Status)
	assert.Equal(t, "/db", catalog.lastRoot)
}

func TestHandleStructureResource(t *testing.T) {
	catalog := &mockCatalogService{record: &domain.StructureRecord{ID: "1abc", Status: domain.Success(), Residues: 12}}
	server := newTestServer(t, &Ports{ContactMap: &mockContactMapService{}, Catalog: catalog, Database: "/db"})

	t.Run("found", func(t *testing.T) {
		result, err := server.handleStructureResource(context.Background(), makeReadResourceRequest("structdb://structures/1abc"))

		require.NoError(t, err)
		var info StructureOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, 12, info.Residues)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := server.handleStructureResource(context.Background(), makeReadResourceRequest("structdb://structures/9zzz"))
		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleStructureResource(context.Background(), makeReadResourceRequest("structdb://other"))
		assert.Error(t, err)
	})
}
