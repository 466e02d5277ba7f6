// Package importer loads training history from CSV exports into storage.
//
// Two formats are accepted:
//
//	sets:  date,lift,weight_kg,reps,rir
//	tests: date,lift,weight_kg
//
// Dates may be YYYY-MM-DD or RFC 3339. A header row is detected and skipped.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftmax/internal/models"
)

// Inserter is the subset of the storage layer the importer writes through.
type Inserter interface {
	InsertTrainingSets(ctx context.Context, sets []models.TrainingSet) (int64, error)
	InsertTestedMaxes(ctx context.Context, tests []models.TestedMax) (int64, error)
}

// Stats tracks import progress.
type Stats struct {
	RowsRead      int
	RowsRejected  int
	SetsInserted  int64
	TestsInserted int64
}

// Importer parses CSV rows into records and batches them into storage.
type Importer struct {
	db     Inserter
	userID int
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates an Importer writing records for the given user. In dry-run
// mode rows are parsed and counted but never inserted.
func New(db Inserter, userID int, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{db: db, userID: userID, dryRun: dryRun, log: log}
}

// ImportSets reads a sets CSV and inserts the parsed records.
func (im *Importer) ImportSets(ctx context.Context, r io.Reader) (*Stats, error) {
	sets, err := im.parseSets(r)
	if err != nil {
		return &im.stats, err
	}
	if im.dryRun {
		im.log.Info("dry run: skipping insert", "sets", len(sets))
		return &im.stats, nil
	}
	inserted, err := im.db.InsertTrainingSets(ctx, sets)
	if err != nil {
		return &im.stats, fmt.Errorf("inserting sets: %w", err)
	}
	im.stats.SetsInserted = inserted
	return &im.stats, nil
}

// ImportTests reads a tested-max CSV and inserts the parsed records.
func (im *Importer) ImportTests(ctx context.Context, r io.Reader) (*Stats, error) {
	tests, err := im.parseTests(r)
	if err != nil {
		return &im.stats, err
	}
	if im.dryRun {
		im.log.Info("dry run: skipping insert", "tests", len(tests))
		return &im.stats, nil
	}
	inserted, err := im.db.InsertTestedMaxes(ctx, tests)
	if err != nil {
		return &im.stats, fmt.Errorf("inserting tests: %w", err)
	}
	im.stats.TestsInserted = inserted
	return &im.stats, nil
}

func (im *Importer) parseSets(r io.Reader) ([]models.TrainingSet, error) {
	rows, err := readRows(r, 5)
	if err != nil {
		return nil, err
	}

	var sets []models.TrainingSet
	for i, row := range rows {
		im.stats.RowsRead++

		set, err := parseSetRow(row)
		if err != nil {
			im.stats.RowsRejected++
			im.log.Warn("rejecting set row", "row", i+1, "error", err)
			continue
		}
		set.UserID = im.userID
		sets = append(sets, set)
	}
	return sets, nil
}

func (im *Importer) parseTests(r io.Reader) ([]models.TestedMax, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, err
	}

	var tests []models.TestedMax
	for i, row := range rows {
		im.stats.RowsRead++

		tm, err := parseTestRow(row)
		if err != nil {
			im.stats.RowsRejected++
			im.log.Warn("rejecting test row", "row", i+1, "error", err)
			continue
		}
		tm.UserID = im.userID
		tests = append(tests, tm)
	}
	return tests, nil
}

// readRows reads all CSV records with the expected field count, dropping a
// leading header row when the first field is not a parseable date.
func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) > 0 {
		if _, err := parseDate(rows[0][0]); err != nil {
			rows = rows[1:]
		}
	}
	return rows, nil
}

func parseSetRow(row []string) (models.TrainingSet, error) {
	at, err := parseDate(row[0])
	if err != nil {
		return models.TrainingSet{}, err
	}
	lift, err := models.ParseLiftType(strings.TrimSpace(row[1]))
	if err != nil {
		return models.TrainingSet{}, err
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || weight <= 0 {
		return models.TrainingSet{}, fmt.Errorf("invalid weight_kg %q", row[2])
	}
	reps, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil || reps < 1 {
		return models.TrainingSet{}, fmt.Errorf("invalid reps %q", row[3])
	}
	rir, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil || rir < 0 {
		return models.TrainingSet{}, fmt.Errorf("invalid rir %q", row[4])
	}

	return models.TrainingSet{
		ID:          uuid.New(),
		Lift:        lift,
		PerformedAt: at,
		WeightKg:    weight,
		Reps:        reps,
		RIR:         rir,
	}, nil
}

func parseTestRow(row []string) (models.TestedMax, error) {
	at, err := parseDate(row[0])
	if err != nil {
		return models.TestedMax{}, err
	}
	lift, err := models.ParseLiftType(strings.TrimSpace(row[1]))
	if err != nil {
		return models.TestedMax{}, err
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil || weight <= 0 {
		return models.TestedMax{}, fmt.Errorf("invalid weight_kg %q", row[2])
	}

	return models.TestedMax{
		ID:       uuid.New(),
		Lift:     lift,
		TestedAt: at,
		WeightKg: weight,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
