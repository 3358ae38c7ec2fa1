package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var filterOutput string

var filterCmd = &cobra.Command{
	Use:   "filter-hits <results.m8>",
	Short: "Filter and rank alignment hits",
	Long: `Reads a tab-separated alignment table in MMseqs2 format-mode 0 column
order, drops hits failing any given threshold and keeps the best K hits
per query (highest identity, ties broken by lowest e-value).

Thresholds not given on the command line fall back to the configured
filter settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "write kept hits to this file instead of stdout")
	addHitFilterFlags(filterCmd.Flags())
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	if hitFilterService == nil {
		return errors.New("hit filter service not configured")
	}

	opts, err := hitFilterOptions(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	kept, err := hitFilterService.FilterFile(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	if filterOutput == "" {
		for _, h := range kept {
			cmd.Printf("%s\t%s\t%g\t%g\t%g\n", h.Query, h.Target, h.Identity, h.EValue, h.BitScore)
		}
		return nil
	}

	if hitWriter == nil {
		return errors.New("hit writer not configured")
	}
	if err := hitWriter.WriteHits(filterOutput, kept); err != nil {
		return fmt.Errorf("write hits: %w", err)
	}
	cmd.Printf("Kept %d hits, written to %s\n", len(kept), filterOutput)
	return nil
}
