package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the defaults used by build, search, filter-hits and
contact-map. Settings are stored in config.toml in the structdb home
directory ($STRUCTDB_HOME, default ~/.structdb).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. Filter thresholds are cleared with "none".

Keys:
  build.workers         worker goroutines per build
  build.max_length      truncation length in residues (0 disables)
  build.overwrite       reprocess structures already present
  search.mmseqs_path    MMseqs2 executable
  filter.k_best_hits    hits kept per query (0 keeps all)
  filter.min_identity   minimum sequence identity
  filter.min_bit_score  minimum bit score
  filter.max_evalue     maximum e-value
  contact_map.cutoff    contact distance cutoff in ångström`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeSettingKeys,
	RunE:              runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Build]")
	cmd.Printf("  Workers: %d\n", settings.Build.Workers)
	cmd.Printf("  Max length: %s\n", formatMaxLength(settings.Build.MaxLength))
	cmd.Printf("  Overwrite: %t\n", settings.Build.Overwrite)
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  MMseqs2: %s\n", settings.Search.MMseqsPath)
	cmd.Println()

	cmd.Println("[Filter]")
	cmd.Printf("  Best hits per query: %s\n", formatKBest(settings.Filter.KBestHits))
	cmd.Printf("  Min identity: %s\n", formatThreshold(settings.Filter.Thresholds.MinIdentity))
	cmd.Printf("  Min bit score: %s\n", formatThreshold(settings.Filter.Thresholds.MinBitScore))
	cmd.Printf("  Max e-value: %s\n", formatThreshold(settings.Filter.Thresholds.MaxEValue))
	cmd.Println()

	cmd.Println("[Contact Map]")
	cmd.Printf("  Cutoff: %g Å\n", settings.ContactMap.Cutoff)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

// completeSettingKeys offers setting keys for the first argument.
func completeSettingKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || settingsService == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return settingsService.Keys(), cobra.ShellCompDirectiveNoFileComp
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults")
	return nil
}

func formatMaxLength(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return strconv.Itoa(n)
}

func formatKBest(k int) string {
	if k <= 0 {
		return "all"
	}
	return strconv.Itoa(k)
}

func formatThreshold(v *float64) string {
	if v == nil {
		return "(not set)"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
