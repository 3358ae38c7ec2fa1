package driving

import (
	"context"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// SearchService searches query sequences against a structure database.
type SearchService interface {
	// Search aligns the query FASTA against the database's target database
	// and optionally filters the hits.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchReport, error)
}
