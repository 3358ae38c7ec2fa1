// Package cli implements the structdb command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/core/ports/driving"
	"github.com/custodia-labs/structdb/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services configured by SetServices.
var (
	buildService      driving.BuildService
	searchService     driving.SearchService
	hitFilterService  driving.HitFilterService
	contactMapService driving.ContactMapService
	catalogService    driving.CatalogService
	settingsService   driving.SettingsService

	hitReader driven.HitReader
	hitWriter driven.HitWriter

	log = logger.Nop()
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "structdb",
	Short: "Build and query protein structure databases",
	Long: `structdb ingests PDB and mmCIF structure files into a database of
binary atom files, per-structure residue sequences and an MMseqs2 target
database, and computes residue contact maps for downstream inference.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			log.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
}

// Services groups the core services used by commands.
type Services struct {
	Build      driving.BuildService
	Search     driving.SearchService
	HitFilter  driving.HitFilterService
	ContactMap driving.ContactMapService
	Catalog    driving.CatalogService
	Settings   driving.SettingsService

	// HitReader and HitWriter back the filter-hits command.
	HitReader driven.HitReader
	HitWriter driven.HitWriter

	Logger *logger.Logger
}

// SetServices wires the services used by commands.
func SetServices(s Services) {
	buildService = s.Build
	searchService = s.Search
	hitFilterService = s.HitFilter
	contactMapService = s.ContactMap
	catalogService = s.Catalog
	settingsService = s.Settings
	hitReader = s.HitReader
	hitWriter = s.HitWriter
	if s.Logger != nil {
		log = s.Logger
	}
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
