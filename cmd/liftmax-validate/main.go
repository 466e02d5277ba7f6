package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/liftmax/internal/config"
	"github.com/claude/liftmax/internal/engine"
	"github.com/claude/liftmax/internal/models"
	"github.com/claude/liftmax/internal/storage"
	"github.com/claude/liftmax/internal/validate"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	snapshotPath := flag.String("snapshot", "", "path to a snapshot file to backtest")
	exportPath := flag.String("export", "", "export database history to a snapshot file and exit")
	userID := flag.Int("user", 1, "user ID to export or validate")
	liftFilter := flag.String("lift", "", "restrict export to one lift")
	jsonOut := flag.Bool("json", false, "print the full report as JSON")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *snapshotPath == "" && *exportPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftmax-validate -snapshot history.db [-json]\n")
		fmt.Fprintf(os.Stderr, "       liftmax-validate -config config.yaml -export history.db [-user N] [-lift bench]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *exportPath != "" {
		if err := export(*configPath, *exportPath, *userID, *liftFilter, log); err != nil {
			log.Error("export failed", "error", err)
			os.Exit(1)
		}
		return
	}

	snap, err := validate.OpenSnapshot(*snapshotPath)
	if err != nil {
		log.Error("failed to open snapshot", "error", err)
		os.Exit(1)
	}
	defer snap.Close()

	sets, err := snap.ReadSets()
	if err != nil {
		log.Error("failed to read sets", "error", err)
		os.Exit(1)
	}
	tests, err := snap.ReadTests()
	if err != nil {
		log.Error("failed to read tests", "error", err)
		os.Exit(1)
	}
	log.Info("snapshot loaded", "sets", len(sets), "tests", len(tests))

	report, err := validate.Backtest(engine.NewEstimator(), sets, tests)
	if err != nil {
		log.Error("backtest failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Error("encoding report", "error", err)
			os.Exit(1)
		}
		return
	}

	for _, lr := range report.PerLift {
		printReport(log, lr)
	}
	printReport(log, report.Overall)
	if report.Skipped > 0 {
		log.Info("tests skipped (no prior training data)", "count", report.Skipped)
	}
}

func printReport(log *slog.Logger, lr validate.LiftReport) {
	log.Info("backtest result",
		"lift", lr.Lift,
		"predictions", lr.Predictions,
		"mae_kg", fmt.Sprintf("%.1f", lr.MAE),
		"mape_pct", fmt.Sprintf("%.1f", lr.MAPE),
		"mean_bias_kg", fmt.Sprintf("%.1f", lr.MeanBias),
		"in_range_pct", fmt.Sprintf("%.0f", lr.InRangePct),
	)
}

// export pulls one user's full history out of PostgreSQL into a snapshot.
func export(configPath, outPath string, userID int, lift string, log *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if lift != "" {
		if _, err := models.ParseLiftType(lift); err != nil {
			return err
		}
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer db.Close()

	// Pull everything: an arbitrarily early start bound and a now end bound.
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Now()

	sets, err := db.QueryTrainingSets(ctx, userID, lift, start, end)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	tests, err := db.QueryTestedMaxes(ctx, userID, lift, start, end)
	if err != nil {
		return fmt.Errorf("querying tests: %w", err)
	}

	snap, err := validate.CreateSnapshot(outPath)
	if err != nil {
		return err
	}
	defer snap.Close()

	if err := snap.WriteSets(sets); err != nil {
		return err
	}
	if err := snap.WriteTests(tests); err != nil {
		return err
	}

	log.Info("snapshot written", "path", outPath, "sets", len(sets), "tests", len(tests))
	return nil
}
