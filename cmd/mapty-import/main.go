package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/importer"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to a workouts JSON export (required)")
	merge := flag.Bool("merge", false, "append to the existing workouts instead of replacing them")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to storage")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-import -config config.yaml -path workouts.json [-merge] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written to storage")
	}

	// Open storage
	kv, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	svc := tracker.New(storage.NewWorkoutRepository(kv, cfg.Storage.Key, log), log)
	if _, err := svc.Load(ctx); err != nil {
		log.Error("failed to load workouts", "error", err)
		os.Exit(1)
	}

	// Run import
	imp := importer.New(svc, log, *dryRun, *merge)
	stats, err := imp.Import(ctx, *exportPath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"entries_read", stats.EntriesRead,
		"entries_unreadable", stats.EntriesUnreadable,
		"workouts_existing", stats.WorkoutsExisting,
		"workouts_imported", stats.WorkoutsImported,
		"workouts_skipped", stats.WorkoutsSkipped,
	)
}
