// Command structdb builds and queries protein structure databases.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/structdb/internal/adapters/driven/config/file"
	"github.com/custodia-labs/structdb/internal/adapters/driven/fasta"
	"github.com/custodia-labs/structdb/internal/adapters/driven/manifest"
	"github.com/custodia-labs/structdb/internal/adapters/driven/mmseqs"
	"github.com/custodia-labs/structdb/internal/adapters/driven/storage"
	"github.com/custodia-labs/structdb/internal/adapters/driving/cli"
	"github.com/custodia-labs/structdb/internal/connectors/filesystem"
	"github.com/custodia-labs/structdb/internal/core/services"
	"github.com/custodia-labs/structdb/internal/logger"
	"github.com/custodia-labs/structdb/internal/parsers"
)

// version is set at build time via -ldflags.
var version = "dev"

// mmseqsEnv overrides the configured MMseqs2 executable.
const mmseqsEnv = "STRUCTDB_MMSEQS"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A .env file in the working directory may set STRUCTDB_HOME and STRUCTDB_MMSEQS.
	_ = godotenv.Load()

	log := logger.New(os.Stderr, false)

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "structdb: config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "structdb: settings: %v\n", err)
		return err
	}
	binary := settings.Search.MMseqsPath
	if env := os.Getenv(mmseqsEnv); env != "" {
		binary = env
	}

	tool := mmseqs.New(binary, log)
	tabular := mmseqs.NewTabularFile()
	sequences := fasta.New(0)
	manifests := manifest.NewStore()
	databases := storage.NewFactory()

	hitFilter := services.NewHitFilter(tabular, log)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Build: services.NewBuildOrchestrator(
			filesystem.NewFinder(log),
			parsers.NewDefaultRegistry(),
			databases,
			sequences,
			manifests,
			tool,
			log,
		),
		Search:     services.NewSearchService(sequences, manifests, tool, tabular, tabular, hitFilter, log),
		HitFilter:  hitFilter,
		ContactMap: services.NewContactMapEngine(databases),
		Catalog:    services.NewCatalogService(databases, manifests),
		Settings:   settingsService,
		HitReader:  tabular,
		HitWriter:  tabular,
		Logger:     log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cobra prints the error itself.
	return cli.Execute(ctx)
}
