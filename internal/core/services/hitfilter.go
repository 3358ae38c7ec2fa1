package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
	"github.com/custodia-labs/structdb/internal/logger"
)

// Ensure HitFilter implements the interface.
var _ driving.HitFilterService = (*HitFilter)(nil)

// HitFilter applies alignment thresholds and keeps the best K hits per query.
type HitFilter struct {
	reader driven.HitReader
	log    *logger.Logger
}

// NewHitFilter creates a hit filter. reader is only needed by FilterFile.
func NewHitFilter(reader driven.HitReader, log *logger.Logger) *HitFilter {
	return &HitFilter{reader: reader, log: log}
}

// Filter keeps hits passing every active threshold, groups them by query,
// ranks each group best-first and keeps the first K of each.
// Groups are ranked concurrently on opts.Workers goroutines and returned in
// ascending query order.
func (f *HitFilter) Filter(ctx context.Context, hits []domain.AlignmentHit, opts domain.HitFilterOptions) ([]domain.AlignmentHit, error) {
	groups := make(map[string][]domain.AlignmentHit)
	for _, h := range hits {
		if opts.Thresholds.Accept(h) {
			groups[h.Query] = append(groups[h.Query], h)
		}
	}

	queries := make([]string, 0, len(groups))
	for q := range groups {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	workers := max(opts.Workers, 1)
	workers = min(workers, max(len(queries), 1))

	type job struct {
		idx  int
		hits []domain.AlignmentHit
	}
	ranked := make([][]domain.AlignmentHit, len(queries))
	jobs := make(chan job, workers*2)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				ranked[j.idx] = topK(j.hits, opts.K)
			}
		}()
	}

	var cancelled error
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		jobs <- job{idx: i, hits: groups[q]}
	}
	close(jobs)
	wg.Wait()
	if cancelled != nil {
		return nil, cancelled
	}

	out := make([]domain.AlignmentHit, 0, len(hits))
	for _, r := range ranked {
		out = append(out, r...)
	}

	f.log.Info("%d hits, %d queries, %d hits kept (k=%d)", len(hits), len(queries), len(out), opts.K)
	return out, nil
}

// FilterFile reads a tabular alignment file and filters it.
func (f *HitFilter) FilterFile(ctx context.Context, path string, opts domain.HitFilterOptions) ([]domain.AlignmentHit, error) {
	if f.reader == nil {
		return nil, fmt.Errorf("filter %s: hit reader not configured", path)
	}
	hits, err := f.reader.ReadHits(path)
	if err != nil {
		return nil, err
	}
	f.log.Debug("Read %d hits from %s", len(hits), path)
	return f.Filter(ctx, hits, opts)
}

// topK sorts a copy of hits best-first and returns at most k of them.
// A non-positive k keeps every hit.
func topK(hits []domain.AlignmentHit, k int) []domain.AlignmentHit {
	sorted := append([]domain.AlignmentHit(nil), hits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Better(sorted[j])
	})
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}
