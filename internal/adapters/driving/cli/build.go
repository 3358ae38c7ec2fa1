package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/connectors/filesystem"
	"github.com/custodia-labs/structdb/internal/core/domain"
)

var (
	buildInputs        []string
	buildOutput        string
	buildWorkers       int
	buildMaxLength     int
	buildOverwrite     bool
	buildWatch         bool
	buildWatchInterval time.Duration
)

// structureWatcher reports new structure files under the build inputs.
type structureWatcher interface {
	Watch(ctx context.Context) (<-chan filesystem.Event, error)
	Close() error
}

// newWatcher is replaced in tests.
var newWatcher = func(roots []string) structureWatcher {
	return filesystem.NewWatcher(roots, log)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a structure database",
	Long: `Parses PDB and mmCIF files (optionally gzip-compressed) found under the
input paths, stores their heavy-atom coordinates as binary atom files,
writes the merged sequence FASTA and manifest, and builds the MMseqs2
target database.

Structures already present in the output are skipped unless --overwrite
is given. With --watch, the command keeps running and rebuilds whenever
new structure files appear.

Examples:
  structdb build -i ./pdb -i extra.cif.gz -o ./db -t 8
  structdb build -i ./incoming -o ./db --watch`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringSliceVarP(&buildInputs, "input", "i", nil, "structure files or directories (repeatable)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "database directory")
	buildCmd.Flags().IntVarP(&buildWorkers, "threads", "t", domain.DefaultWorkers, "number of worker goroutines")
	buildCmd.Flags().IntVarP(&buildMaxLength, "max-length", "m", domain.DefaultMaxLength, "truncate structures to this many residues (0 disables)")
	buildCmd.Flags().BoolVar(&buildOverwrite, "overwrite", false, "reprocess structures already in the database")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild when new structure files appear")
	buildCmd.Flags().DurationVar(&buildWatchInterval, "watch-interval", filesystem.DefaultRebuildInterval, "minimum time between watch-triggered rebuilds")
	_ = buildCmd.MarkFlagRequired("input")
	_ = buildCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if buildService == nil {
		return errors.New("build service not configured")
	}

	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	report, err := buildService.Build(ctx, req)
	printBuildReport(cmd, report)
	if !buildWatch {
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrNoNewStructures) {
		return fmt.Errorf("build failed: %w", err)
	}

	return watchAndRebuild(ctx, cmd, req)
}

// buildRequest merges flags over configured settings.
func buildRequest(cmd *cobra.Command) (domain.BuildRequest, error) {
	req := domain.BuildRequest{
		InputPaths: buildInputs,
		OutputPath: buildOutput,
		Overwrite:  buildOverwrite,
		Workers:    buildWorkers,
		MaxLength:  buildMaxLength,
	}
	if req.MaxLength < 0 {
		return req, fmt.Errorf("%w: --max-length must not be negative", domain.ErrInvalidInput)
	}

	if settingsService == nil {
		return req, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return req, fmt.Errorf("failed to get settings: %w", err)
	}
	flags := cmd.Flags()
	if !flags.Changed("threads") {
		req.Workers = settings.Build.Workers
	}
	if !flags.Changed("max-length") {
		req.MaxLength = settings.Build.MaxLength
	}
	if !flags.Changed("overwrite") {
		req.Overwrite = settings.Build.Overwrite
	}
	return req, nil
}

func watchAndRebuild(ctx context.Context, cmd *cobra.Command, req domain.BuildRequest) error {
	watcher := newWatcher(req.InputPaths)
	defer watcher.Close() //nolint:errcheck

	events, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	// Rebuilds only add new files; stored structures are never rewritten.
	rebuild := req
	rebuild.Overwrite = false

	cmd.Printf("Watching %d input paths for new structures (Ctrl+C to stop)\n", len(req.InputPaths))
	for batch := range filesystem.Throttle(ctx, events, buildWatchInterval) {
		log.Info("%d new or changed structure files", len(batch))
		report, err := buildService.Build(ctx, rebuild)
		printBuildReport(cmd, report)
		switch {
		case err == nil, errors.Is(err, domain.ErrNoNewStructures):
		case errors.Is(err, context.Canceled):
			return nil
		default:
			log.Error("Rebuild failed: %v", err)
		}
	}
	return nil
}

func printBuildReport(cmd *cobra.Command, report *domain.BuildReport) {
	if report == nil {
		return
	}

	cmd.Printf("Discovered: %d\n", report.Discovered)
	cmd.Printf("Skipped (already present): %d\n", report.Skipped)

	counts := report.Counts()
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i] == string(domain.OutcomeSuccess) && statuses[j] != string(domain.OutcomeSuccess)
	})
	for _, s := range statuses {
		cmd.Printf("  %s: %d\n", s, counts[s])
	}

	if report.Manifest != nil {
		cmd.Printf("Added %d structures (max length %d)\n", len(report.Manifest.Sequences), report.Manifest.MaxLength)
	}
}
