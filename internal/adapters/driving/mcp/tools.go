package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// ContactMapInput is the input schema for the contact_map tool.
type ContactMapInput struct {
	Database string  `json:"database,omitempty" jsonschema:"database directory (defaults to the server database)"`
	ID       string  `json:"id" jsonschema:"structure id"`
	Cutoff   float64 `json:"cutoff,omitempty" jsonschema:"contact distance cutoff in angstrom (default: the configured contact_map.cutoff)"`
}

// ContactMapOutput is the output schema for the contact_map tool.
type ContactMapOutput struct {
	ID       string  `json:"id"`
	Residues int     `json:"residues"`
	Cutoff   float64 `json:"cutoff"`
	Contacts int     `json:"contacts"`
	Rows     [][]int `json:"rows"`
}

// FilterHitsInput is the input schema for the filter_hits tool.
type FilterHitsInput struct {
	Path        string   `json:"path" jsonschema:"tabular alignment file"`
	K           int      `json:"k,omitempty" jsonschema:"best hits kept per query (0 keeps all)"`
	MinIdentity *float64 `json:"min_identity,omitempty" jsonschema:"minimum sequence identity"`
	MinBitScore *float64 `json:"min_bit_score,omitempty" jsonschema:"minimum bit score"`
	MaxEValue   *float64 `json:"max_evalue,omitempty" jsonschema:"maximum e-value"`
}

// FilterHitsOutput is the output schema for the filter_hits tool.
type FilterHitsOutput struct {
	Hits  []domain.AlignmentHit `json:"hits"`
	Count int                   `json:"count"`
}

// DatabaseInput names a database directory.
type DatabaseInput struct {
	Database string `json:"database,omitempty" jsonschema:"database directory (defaults to the server database)"`
}

// ManifestOutput is the output schema for the manifest tool.
type ManifestOutput struct {
	Sequences  []string `json:"sequences"`
	MaxLength  int      `json:"max_length"`
	InputPaths []string `json:"input_paths"`
}

// StructureInput is the input schema for the structure tool.
type StructureInput struct {
	Database string `json:"database,omitempty" jsonschema:"database directory (defaults to the server database)"`
	ID       string `json:"id" jsonschema:"structure id"`
}

// StructureOutput is the output schema for the structure tool.
type StructureOutput struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	RunID    string `json:"run_id"`
	Status   string `json:"status"`
	Residues int    `json:"residues"`
	Atoms    int    `json:"atoms"`
	Sequence string `json:"sequence,omitempty"`
}

var errCatalogUnavailable = errors.New("catalog service not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contact_map",
		Description: "Compute the residue contact map of a stored structure",
	}, s.handleContactMap)

	if s.ports.HitFilter != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "filter_hits",
			Description: "Keep the best alignment hits per query from a tabular result file",
		}, s.handleFilterHits)
	}

	if s.ports.Catalog != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "manifest",
			Description: "Describe the last successful build of a database",
		}, s.handleManifest)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "structure",
			Description: "Show the catalog record of a structure",
		}, s.handleStructure)
	}
}

// handleContactMap handles the contact_map tool invocation.
func (s *Server) handleContactMap(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContactMapInput,
) (*mcp.CallToolResult, ContactMapOutput, error) {
	if input.ID == "" {
		return nil, ContactMapOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	root, err := s.ports.database(input.Database)
	if err != nil {
		return nil, ContactMapOutput{}, err
	}

	cutoff := s.ports.cutoff(input.Cutoff)

	distances, err := s.ports.ContactMap.Load(ctx, root, input.ID)
	if err != nil {
		return nil, ContactMapOutput{}, fmt.Errorf("loading %s: %w", input.ID, err)
	}
	contacts := distances.Threshold(float32(cutoff))

	output := ContactMapOutput{
		ID:       input.ID,
		Residues: contacts.N,
		Cutoff:   cutoff,
		Contacts: contacts.Contacts(),
		Rows:     make([][]int, contacts.N),
	}
	for i := range output.Rows {
		row := make([]int, contacts.N)
		for j := range row {
			if contacts.At(i, j) {
				row[j] = 1
			}
		}
		output.Rows[i] = row
	}

	return nil, output, nil
}

// handleFilterHits handles the filter_hits tool invocation.
func (s *Server) handleFilterHits(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FilterHitsInput,
) (*mcp.CallToolResult, FilterHitsOutput, error) {
	if input.Path == "" {
		return nil, FilterHitsOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	opts := domain.HitFilterOptions{
		K: input.K,
		Thresholds: domain.HitThresholds{
			MinIdentity: input.MinIdentity,
			MinBitScore: input.MinBitScore,
			MaxEValue:   input.MaxEValue,
		},
	}
	hits, err := s.ports.HitFilter.FilterFile(ctx, input.Path, opts)
	if err != nil {
		return nil, FilterHitsOutput{}, err
	}
	if hits == nil {
		hits = []domain.AlignmentHit{}
	}

	return nil, FilterHitsOutput{Hits: hits, Count: len(hits)}, nil
}

// handleManifest handles the manifest tool invocation.
func (s *Server) handleManifest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatabaseInput,
) (*mcp.CallToolResult, ManifestOutput, error) {
	if s.ports.Catalog == nil {
		return nil, ManifestOutput{}, errCatalogUnavailable
	}
	root, err := s.ports.database(input.Database)
	if err != nil {
		return nil, ManifestOutput{}, err
	}

	m, err := s.ports.Catalog.Manifest(ctx, root)
	if err != nil {
		return nil, ManifestOutput{}, err
	}

	return nil, ManifestOutput{
		Sequences:  m.Sequences,
		MaxLength:  m.MaxLength,
		InputPaths: m.InputPaths,
	}, nil
}

// handleStructure handles the structure tool invocation.
func (s *Server) handleStructure(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StructureInput,
) (*mcp.CallToolResult, StructureOutput, error) {
	if s.ports.Catalog == nil {
		return nil, StructureOutput{}, errCatalogUnavailable
	}
	if input.ID == "" {
		return nil, StructureOutput{}, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	root, err := s.ports.database(input.Database)
	if err != nil {
		return nil, StructureOutput{}, err
	}

	rec, err := s.ports.Catalog.Structure(ctx, root, input.ID)
	if err != nil {
		return nil, StructureOutput{}, err
	}

	return nil, structureOutput(rec), nil
}

func structureOutput(rec *domain.StructureRecord) StructureOutput {
	return StructureOutput{
		ID:       rec.ID,
		Path:     rec.Path,
		RunID:    rec.RunID,
		Status:   rec.Status.String(),
		Residues: rec.Residues,
		Atoms:    rec.Atoms,
		Sequence: rec.Sequence,
	}
}
