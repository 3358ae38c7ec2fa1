package driving

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// HitFilterService filters and ranks alignment hits per query.
type HitFilterService interface {
	// Filter applies thresholds and keeps the K best hits per query.
	Filter(ctx context.Context, hits []domain.AlignmentHit, opts domain.HitFilterOptions) ([]domain.AlignmentHit, error)

	// FilterFile reads a tabular alignment file and filters it.
	FilterFile(ctx context.Context, path string, opts domain.HitFilterOptions) ([]domain.AlignmentHit, error)
}
