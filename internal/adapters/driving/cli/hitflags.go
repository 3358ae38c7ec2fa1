package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// addHitFilterFlags registers the threshold and top-K flags shared by
// search and filter-hits.
func addHitFilterFlags(flags *pflag.FlagSet) {
	flags.IntP("k-best", "k", domain.DefaultKBestHits, "hits kept per query (0 keeps all)")
	flags.Float64("min-identity", 0, "minimum sequence identity")
	flags.Float64("min-bit-score", 0, "minimum bit score")
	flags.Float64("max-evalue", 0, "maximum e-value")
	flags.Int("filter-threads", 1, "number of query groups ranked concurrently")
}

// hitFilterOptions builds filter options from the flags, falling back to
// configured settings for anything not given on the command line.
func hitFilterOptions(cmd *cobra.Command) (domain.HitFilterOptions, error) {
	flags := cmd.Flags()
	opts := domain.HitFilterOptions{}

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return opts, err
		}
		opts.K = settings.Filter.KBestHits
		opts.Thresholds = settings.Filter.Thresholds
	} else {
		opts.K = domain.DefaultKBestHits
	}

	if flags.Changed("k-best") {
		k, err := flags.GetInt("k-best")
		if err != nil {
			return opts, err
		}
		opts.K = k
	}
	workers, err := flags.GetInt("filter-threads")
	if err != nil {
		return opts, err
	}
	opts.Workers = workers

	for name, target := range map[string]**float64{
		"min-identity":  &opts.Thresholds.MinIdentity,
		"min-bit-score": &opts.Thresholds.MinBitScore,
		"max-evalue":    &opts.Thresholds.MaxEValue,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetFloat64(name)
		if err != nil {
			return opts, err
		}
		*target = &v
	}
	return opts, nil
}
