package driving

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// BuildService builds a structure database from structure files.
type BuildService interface {
	// Build discovers, parses and persists structures, then writes the
	// manifest and builds the search database.
	// The returned report is non-nil whenever discovery succeeded, even if
	// the run aborted with domain.ErrNoNewStructures or domain.ErrExternalTool.
	Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error)
}
