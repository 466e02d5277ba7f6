package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/liftmax/internal/config"
	"github.com/claude/liftmax/internal/importer"
	"github.com/claude/liftmax/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	setsPath := flag.String("sets", "", "path to a sets CSV (date,lift,weight_kg,reps,rir)")
	testsPath := flag.String("tests", "", "path to a tested-max CSV (date,lift,weight_kg)")
	userID := flag.Int("user", 1, "user ID to import records for")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *setsPath == "" && *testsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftmax-import -config config.yaml [-sets sets.csv] [-tests tests.csv] [-dry-run]\n")
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

	imp := importer.New(db, *userID, *dryRun, log)

	if *setsPath != "" {
		stats, err := importFile(ctx, imp.ImportSets, *setsPath)
		if err != nil {
			log.Error("set import failed", "path", *setsPath, "error", err)
			os.Exit(1)
		}
		printStats(log, "sets", stats)
	}

	if *testsPath != "" {
		stats, err := importFile(ctx, imp.ImportTests, *testsPath)
		if err != nil {
			log.Error("test import failed", "path", *testsPath, "error", err)
			os.Exit(1)
		}
		printStats(log, "tests", stats)
	}

	log.Info("import complete")
}

func importFile(ctx context.Context, run func(context.Context, io.Reader) (*importer.Stats, error), path string) (*importer.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return run(ctx, f)
}

func printStats(log *slog.Logger, kind string, stats *importer.Stats) {
	log.Info("import stats",
		"file", kind,
		"rows_read", stats.RowsRead,
		"rows_rejected", stats.RowsRejected,
		"sets_inserted", stats.SetsInserted,
		"tests_inserted", stats.TestsInserted,
	)
}
