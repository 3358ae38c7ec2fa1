package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
	"github.com/custodia-labs/structdb/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs the external search tool against a built database.
type SearchService struct {
	queries   driven.SequenceReader
	manifests driven.ManifestStore
	tool      driven.SearchTool
	hits      driven.HitReader
	output    driven.HitWriter
	filter    driving.HitFilterService
	log       *logger.Logger
}

// NewSearchService creates a new search service.
// hits, output and filter are only used when a request asks for filtering.
func NewSearchService(
	queries driven.SequenceReader,
	manifests driven.ManifestStore,
	tool driven.SearchTool,
	hits driven.HitReader,
	output driven.HitWriter,
	filter driving.HitFilterService,
	log *logger.Logger,
) *SearchService {
	return &SearchService{
		queries:   queries,
		manifests: manifests,
		tool:      tool,
		hits:      hits,
		output:    output,
		filter:    filter,
		log:       log,
	}
}

// Search aligns the query FASTA against <database>/targetDB.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchReport, error) {
	if strings.TrimSpace(req.QueryPath) == "" {
		return nil, fmt.Errorf("%w: empty query path", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.DatabasePath) == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = req.DatabasePath
	}

	s.log.Section("Search")

	records, err := s.queries.ReadSequences(req.QueryPath)
	if err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no sequences in %s", domain.ErrInvalidInput, req.QueryPath)
	}
	s.log.Debug("Read %d query sequences from %s", len(records), req.QueryPath)

	layout := domain.DatabaseLayout{Root: req.DatabasePath}
	manifest, err := s.manifests.Read(layout.Manifest())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s is not a built database: %w", req.DatabasePath, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	s.log.Info("Searching %d queries against %d structures", len(records), len(manifest.Sequences))

	resultsPath, err := s.tool.Search(ctx, req.QueryPath, layout.TargetDatabase(), outputDir)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	report := &domain.SearchReport{
		Queries:     len(records),
		ResultsPath: resultsPath,
	}
	if req.Filter == nil {
		s.log.Info("Results written to %s", resultsPath)
		return report, nil
	}

	if s.hits == nil || s.output == nil || s.filter == nil {
		return report, fmt.Errorf("filter hits: hit filtering not configured")
	}
	hits, err := s.hits.ReadHits(resultsPath)
	if err != nil {
		return report, fmt.Errorf("read hits: %w", err)
	}
	report.Hits = len(hits)

	kept, err := s.filter.Filter(ctx, hits, *req.Filter)
	if err != nil {
		return report, fmt.Errorf("filter hits: %w", err)
	}

	filteredPath := filepath.Join(outputDir, domain.FilteredHitsFileName)
	if err := s.output.WriteHits(filteredPath, kept); err != nil {
		return report, fmt.Errorf("write filtered hits: %w", err)
	}
	report.FilteredPath = filteredPath
	report.Kept = kept

	s.log.Info("Kept %d of %d hits, written to %s", len(kept), len(hits), filteredPath)
	return report, nil
}
