package mcp

import (
	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// ContactMap computes contact maps of stored structures.
	ContactMap driving.ContactMapService

	// HitFilter filters alignment tables.
	HitFilter driving.HitFilterService

	// Catalog reads manifests and catalog records.
	Catalog driving.CatalogService

	// Database is the default database directory for requests and resources
	// that do not name one.
	Database string

	// Cutoff is the contact cutoff used when a request gives none.
	// Non-positive falls back to domain.DefaultContactCutoff.
	Cutoff float64
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.ContactMap == nil {
		return ErrMissingContactMapService
	}
	// HitFilter and Catalog are optional
	return nil
}

// cutoff resolves the contact cutoff of a request.
func (p *Ports) cutoff(requested float64) float64 {
	switch {
	case requested > 0:
		return requested
	case p.Cutoff > 0:
		return p.Cutoff
	default:
		return domain.DefaultContactCutoff
	}
}

// database resolves the database directory of a request.
func (p *Ports) database(requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if p.Database != "" {
		return p.Database, nil
	}
	return "", errNoDatabase
}
