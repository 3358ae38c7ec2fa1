package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for structdb resources.
	uriScheme = "structdb://"
)

// registerResources registers resource handlers for the default database.
func (s *Server) registerResources() {
	if s.ports.Catalog == nil || s.ports.Database == "" {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "manifest",
		Name:        "manifest",
		Description: "Manifest of the last successful build",
		MIMEType:    "application/json",
	}, s.handleManifestResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "structures",
		Name:        "structures",
		Description: "Catalog records of all processed structures",
		MIMEType:    "application/json",
	}, s.handleStructuresResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "structures/{id}",
		Name:        "structure",
		Description: "Catalog record of a specific structure",
		MIMEType:    "application/json",
	}, s.handleStructureResource)
}

// handleManifestResource returns the build manifest as JSON.
func (s *Server) handleManifestResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	m, err := s.ports.Catalog.Manifest(ctx, s.ports.Database)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return jsonResource(req.Params.URI, m)
}

// handleStructuresResource lists every catalog record.
func (s *Server) handleStructuresResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Catalog.Structures(ctx, s.ports.Database, "")
	if err != nil {
		return nil, fmt.Errorf("listing structures: %w", err)
	}

	infos := make([]StructureOutput, len(records))
	for i := range records {
		infos[i] = structureOutput(&records[i])
	}
	return jsonResource(req.Params.URI, infos)
}

// handleStructureResource returns the catalog record of one structure.
func (s *Server) handleStructureResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract id from URI: structdb://structures/{id}
	id := extractStructureID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Catalog.Structure(ctx, s.ports.Database, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting structure: %w", err)
	}
	return jsonResource(req.Params.URI, structureOutput(rec))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractStructureID extracts the id from a URI like structdb://structures/{id}.
func extractStructureID(uri string) string {
	const prefix = uriScheme + "structures/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
