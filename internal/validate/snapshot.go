package validate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/liftmax/internal/models"
)

// Snapshot is a portable single-file copy of one user's training history,
// stored as SQLite so backtests can run offline against production data.
type Snapshot struct {
	db *sql.DB
}

// CreateSnapshot creates (or truncates) a snapshot file at path.
func CreateSnapshot(path string) (*Snapshot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS training_sets (
			id           TEXT PRIMARY KEY,
			lift         TEXT NOT NULL,
			performed_at TIMESTAMP NOT NULL,
			weight_kg    REAL NOT NULL,
			reps         INTEGER NOT NULL,
			rir          INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tested_maxes (
			id        TEXT PRIMARY KEY,
			lift      TEXT NOT NULL,
			tested_at TIMESTAMP NOT NULL,
			weight_kg REAL NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating snapshot table: %w", err)
		}
	}

	return &Snapshot{db: db}, nil
}

// OpenSnapshot opens an existing snapshot file for reading.
func OpenSnapshot(path string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	return &Snapshot{db: db}, nil
}

// Close closes the underlying file.
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// WriteSets stores training sets, replacing rows that share an ID.
func (s *Snapshot) WriteSets(sets []models.TrainingSet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO training_sets
		(id, lift, performed_at, weight_kg, reps, rir) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	defer stmt.Close()

	for _, set := range sets {
		if _, err := stmt.Exec(set.ID.String(), string(set.Lift),
			set.PerformedAt.UTC().Format(time.RFC3339), set.WeightKg, set.Reps, set.RIR); err != nil {
			return fmt.Errorf("snapshot write set %s: %w", set.ID, err)
		}
	}
	return tx.Commit()
}

// WriteTests stores tested maxima, replacing rows that share an ID.
func (s *Snapshot) WriteTests(tests []models.TestedMax) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO tested_maxes
		(id, lift, tested_at, weight_kg) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	defer stmt.Close()

	for _, tm := range tests {
		if _, err := stmt.Exec(tm.ID.String(), string(tm.Lift),
			tm.TestedAt.UTC().Format(time.RFC3339), tm.WeightKg); err != nil {
			return fmt.Errorf("snapshot write test %s: %w", tm.ID, err)
		}
	}
	return tx.Commit()
}

// ReadSets loads all training sets, oldest first.
func (s *Snapshot) ReadSets() ([]models.TrainingSet, error) {
	rows, err := s.db.Query(`SELECT id, lift, performed_at, weight_kg, reps, rir
		FROM training_sets ORDER BY performed_at`)
	if err != nil {
		return nil, fmt.Errorf("snapshot read sets: %w", err)
	}
	defer rows.Close()

	var sets []models.TrainingSet
	for rows.Next() {
		var (
			idStr, liftStr, at string
			set                models.TrainingSet
		)
		if err := rows.Scan(&idStr, &liftStr, &at, &set.WeightKg, &set.Reps, &set.RIR); err != nil {
			return nil, fmt.Errorf("snapshot scan set: %w", err)
		}
		if set.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("snapshot set id %q: %w", idStr, err)
		}
		if set.Lift, err = models.ParseLiftType(liftStr); err != nil {
			return nil, fmt.Errorf("snapshot set: %w", err)
		}
		if set.PerformedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("snapshot set time %q: %w", at, err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// ReadTests loads all tested maxima, oldest first.
func (s *Snapshot) ReadTests() ([]models.TestedMax, error) {
	rows, err := s.db.Query(`SELECT id, lift, tested_at, weight_kg
		FROM tested_maxes ORDER BY tested_at`)
	if err != nil {
		return nil, fmt.Errorf("snapshot read tests: %w", err)
	}
	defer rows.Close()

	var tests []models.TestedMax
	for rows.Next() {
		var (
			idStr, liftStr, at string
			tm                 models.TestedMax
		)
		if err := rows.Scan(&idStr, &liftStr, &at, &tm.WeightKg); err != nil {
			return nil, fmt.Errorf("snapshot scan test: %w", err)
		}
		if tm.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("snapshot test id %q: %w", idStr, err)
		}
		if tm.Lift, err = models.ParseLiftType(liftStr); err != nil {
			return nil, fmt.Errorf("snapshot test: %w", err)
		}
		if tm.TestedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("snapshot test time %q: %w", at, err)
		}
		tests = append(tests, tm)
	}
	return tests, rows.Err()
}
