package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

var (
	searchQuery    string
	searchDatabase string
	searchOutput   string
	searchFilter   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search query sequences against a structure database",
	Long: `Aligns the sequences of a query FASTA file against the MMseqs2 target
database of a built structure database and writes the alignment table to
mmseqs2_search_results.m8 in the output directory.

With --filter, hits are also filtered and ranked and the kept hits are
written to filtered_hits.m8.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query FASTA file")
	searchCmd.Flags().StringVarP(&searchDatabase, "database", "d", "", "structure database directory")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "output directory (default: the database directory)")
	searchCmd.Flags().BoolVar(&searchFilter, "filter", false, "filter and rank hits after searching")
	addHitFilterFlags(searchCmd.Flags())
	_ = searchCmd.MarkFlagRequired("query")
	_ = searchCmd.MarkFlagRequired("database")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := domain.SearchRequest{
		QueryPath:    searchQuery,
		DatabasePath: searchDatabase,
		OutputDir:    searchOutput,
	}
	if searchFilter {
		opts, err := hitFilterOptions(cmd)
		if err != nil {
			return err
		}
		req.Filter = &opts
	}

	ctx := commandContext(cmd)

	report, err := searchService.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	cmd.Printf("Searched %d queries\n", report.Queries)
	cmd.Printf("Results: %s\n", report.ResultsPath)
	if report.FilteredPath != "" {
		cmd.Printf("Kept %d of %d hits: %s\n", len(report.Kept), report.Hits, report.FilteredPath)
	}
	return nil
}
