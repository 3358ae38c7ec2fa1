package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
	"github.com/custodia-labs/structdb/internal/logger"
)

// Ensure BuildOrchestrator implements the interface.
var _ driving.BuildService = (*BuildOrchestrator)(nil)

// BuildOrchestrator turns structure files into a structure database.
//
// A run discovers input files, skips ids already stored, then parses,
// truncates and persists the rest on a fixed-size worker pool. Once every
// worker has joined, it records the run in the catalog and, if anything was
// added, writes the merged FASTA and the manifest and builds the search
// database.
type BuildOrchestrator struct {
	finder    driven.StructureFinder
	parsers   driven.ParserRegistry
	databases driven.DatabaseFactory
	sequences driven.SequenceWriter
	manifests driven.ManifestStore
	tool      driven.SearchTool
	log       *logger.Logger

	now func() time.Time
}

// NewBuildOrchestrator creates a new build orchestrator.
func NewBuildOrchestrator(
	finder driven.StructureFinder,
	parsers driven.ParserRegistry,
	databases driven.DatabaseFactory,
	sequences driven.SequenceWriter,
	manifests driven.ManifestStore,
	tool driven.SearchTool,
	log *logger.Logger,
) *BuildOrchestrator {
	return &BuildOrchestrator{
		finder:    finder,
		parsers:   parsers,
		databases: databases,
		sequences: sequences,
		manifests: manifests,
		tool:      tool,
		log:       log,
		now:       time.Now,
	}
}

// Build runs the pipeline described on BuildOrchestrator.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *BuildOrchestrator) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error) {
	if len(req.InputPaths) == 0 {
		return nil, fmt.Errorf("%w: no input paths", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, fmt.Errorf("%w: empty output path", domain.ErrInvalidInput)
	}
	workers := max(req.Workers, 1)

	o.log.Section("Build")
	o.log.Debug("Inputs: %v", req.InputPaths)
	o.log.Debug("Output: %s, workers: %d, max length: %d, overwrite: %t",
		req.OutputPath, workers, req.MaxLength, req.Overwrite)

	// 1. Discover structure files
	files, err := o.finder.Find(ctx, req.InputPaths)
	if err != nil {
		return nil, fmt.Errorf("discover structures: %w", err)
	}

	report := &domain.BuildReport{
		RunID:      uuid.New().String(),
		StartedAt:  o.now(),
		Discovered: len(files),
	}

	// 2. Open the output stores
	db, err := o.databases.Open(ctx, req.OutputPath)
	if err != nil {
		return report, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			o.log.Warn("Failed to close database %s: %v", req.OutputPath, cerr)
		}
	}()

	// 3. Skip ids already stored
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pending := ids[:0:0]
	for _, id := range ids {
		if !req.Overwrite {
			exists, err := db.Atoms.Exists(id)
			if err != nil {
				return report, fmt.Errorf("check %s: %w", id, err)
			}
			if exists {
				o.log.Debug("%s: %s", id, domain.StateSkippedDuplicate)
				report.Skipped++
				continue
			}
		}
		pending = append(pending, id)
	}
	o.log.Info("%d structures found, %d already present, %d to process",
		report.Discovered, report.Skipped, len(pending))

	// 4. Process on the worker pool
	results, err := o.process(ctx, db.Atoms, pending, files, req.MaxLength, workers)
	report.Results = results
	if err != nil {
		report.FinishedAt = o.now()
		return report, err
	}

	// 5. Aggregate
	o.logOutcomes(report)
	if err := o.record(ctx, db.Catalog, req, report); err != nil {
		return report, err
	}

	if report.Succeeded() == 0 {
		report.FinishedAt = o.now()
		o.log.Warn("No new structures added to %s", req.OutputPath)
		return report, domain.ErrNoNewStructures
	}

	// 6. Finalise: sequences, manifest, search database
	layout := domain.DatabaseLayout{Root: req.OutputPath}
	var (
		added   []string
		records []driven.SequenceRecord
	)
	for _, res := range report.Results {
		if res.Status.IsSuccess() {
			added = append(added, res.ID)
			records = append(records, driven.SequenceRecord{ID: res.ID, Sequence: res.Sequence})
		}
	}

	if err := o.sequences.WriteSequences(layout.Sequences(), records); err != nil {
		return report, fmt.Errorf("write sequences: %w", err)
	}

	manifest := domain.NewBuildManifest(added, req.MaxLength, req.InputPaths)
	if err := o.manifests.Write(layout.Manifest(), manifest); err != nil {
		return report, fmt.Errorf("write manifest: %w", err)
	}
	report.Manifest = manifest

	o.log.Info("Building target database %s", layout.TargetDatabase())
	if err := o.tool.CreateTargetDatabase(ctx, layout.Sequences(), layout.TargetDatabase()); err != nil {
		report.FinishedAt = o.now()
		return report, fmt.Errorf("create target database: %w", err)
	}

	report.FinishedAt = o.now()
	o.log.Info("Added %d structures to %s in %s",
		len(added), req.OutputPath, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return report, nil
}

type buildJob struct {
	id   string
	path string
}

// process parses and stores every pending id, returning one result per id
// sorted by id. Each worker writes a distinct atom file, so no locking is
// needed around the store.
func (o *BuildOrchestrator) process(
	ctx context.Context,
	atoms driven.AtomStore,
	ids []string,
	files map[string]string,
	maxLength, workers int,
) ([]domain.StructureResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	workers = min(workers, len(ids))

	jobs := make(chan buildJob, workers*2)
	out := make(chan domain.StructureResult, workers*2)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out <- o.processFile(atoms, j.id, j.path, maxLength)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range ids {
			select {
			case <-ctx.Done():
				return
			case jobs <- buildJob{id: id, path: files[id]}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]domain.StructureResult, 0, len(ids))
	for res := range out {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// processFile runs parse, truncate and persist for one file.
// Errors become a failed status and are never returned.
func (o *BuildOrchestrator) processFile(atoms driven.AtomStore, id, path string, maxLength int) domain.StructureResult {
	res := domain.StructureResult{ID: id, Path: path}

	s, err := o.parsers.ParseFile(path)
	if err != nil {
		res.Status = domain.Fail(err.Error())
		return res
	}

	s = s.Truncate(maxLength)
	index := s.GroupIndex()
	if err := atoms.Save(id, s.Positions, index); err != nil {
		res.Status = domain.Fail(err.Error())
		return res
	}

	res.Status = domain.Success()
	res.Residues = index.Residues()
	res.Atoms = s.Len()
	res.Sequence = s.OneLetterSequence()
	o.log.Debug("%s: %d residues, %d atoms", id, res.Residues, res.Atoms)
	return res
}

// logOutcomes prints per-status counts, successes first, then every
// failing id with its reason.
func (o *BuildOrchestrator) logOutcomes(report *domain.BuildReport) {
	counts := report.Counts()
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		si := statuses[i] == string(domain.OutcomeSuccess)
		sj := statuses[j] == string(domain.OutcomeSuccess)
		if si != sj {
			return si
		}
		return statuses[i] < statuses[j]
	})
	for _, s := range statuses {
		o.log.Info("%s: %d", s, counts[s])
	}
	for _, res := range report.Failed() {
		o.log.Warn("%s (%s): %s", res.ID, res.Path, res.Status.Reason)
	}
}

// record stores the run and its structure outcomes in the catalog.
func (o *BuildOrchestrator) record(ctx context.Context, catalog driven.StructureCatalog, req domain.BuildRequest, report *domain.BuildReport) error {
	finished := o.now()
	succeeded := report.Succeeded()
	run := domain.BuildRun{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: finished,
		OutputPath: req.OutputPath,
		MaxLength:  req.MaxLength,
		Overwrite:  req.Overwrite,
		Discovered: report.Discovered,
		Skipped:    report.Skipped,
		Succeeded:  succeeded,
		Failed:     len(report.Results) - succeeded,
	}
	if err := catalog.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	records := make([]domain.StructureRecord, 0, len(report.Results))
	for _, res := range report.Results {
		records = append(records, domain.StructureRecord{
			ID:        res.ID,
			Path:      res.Path,
			RunID:     report.RunID,
			Status:    res.Status,
			Residues:  res.Residues,
			Atoms:     res.Atoms,
			Sequence:  res.Sequence,
			UpdatedAt: finished,
		})
	}
	if err := catalog.SaveStructures(ctx, records); err != nil {
		return fmt.Errorf("record structures: %w", err)
	}
	return nil
}
