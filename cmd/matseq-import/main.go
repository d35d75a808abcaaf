package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/matseq/internal/catalogimport"
	"github.com/meltforce/matseq/internal/config"
	"github.com/meltforce/matseq/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	cataloguePath := flag.String("catalogue", "", "path to catalogue YAML file (required)")
	stateDir := flag.String("state-dir", ".matseq-import", "directory for the import state database")
	force := flag.Bool("force", false, "re-import even if the file is unchanged")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *cataloguePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: matseq-import -config config.yaml -catalogue catalogue/classical-mat.yaml [-dry-run] [-force]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode — no data will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Import state tracks file hashes so unchanged catalogues are skipped
	var state *catalogimport.StateDB
	if !*force && !*dryRun {
		state, err = catalogimport.OpenStateDB(*stateDir)
		if err != nil {
			log.Error("failed to open state db", "error", err)
			os.Exit(1)
		}
		defer state.Close()
	}

	imp := catalogimport.New(db, state, log, *dryRun)
	stats, err := imp.Import(ctx, *cataloguePath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *catalogimport.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"movements_inserted", stats.MovementsInserted,
		"movements_updated", stats.MovementsUpdated,
		"transitions_upserted", stats.TransitionsUpserted,
	)
}
