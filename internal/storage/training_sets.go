package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftmax/internal/models"
)

// InsertTrainingSets batch-inserts logged sets. Returns count inserted;
// duplicates (by ID) are skipped.
func (db *DB) InsertTrainingSets(ctx context.Context, sets []models.TrainingSet) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	query := `INSERT INTO training_sets (id, user_id, lift, performed_at, weight_kg, reps, rir) VALUES `
	args := make([]any, 0, len(sets)*7)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, s.ID, s.UserID, s.Lift, s.PerformedAt, s.WeightKg, s.Reps, s.RIR)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting training sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryTrainingSets retrieves a user's sets in a date range, optionally
// narrowed to one lift ("" means all lifts).
func (db *DB) QueryTrainingSets(ctx context.Context, userID int, lift string, start, end time.Time) ([]models.TrainingSet, error) {
	query := `SELECT id, user_id, lift, performed_at, weight_kg, reps, rir
		 FROM training_sets
		 WHERE user_id = $1 AND performed_at >= $2 AND performed_at < $3`
	args := []any{userID, start, end}
	if lift != "" {
		query += ` AND lift = $4`
		args = append(args, lift)
	}
	query += ` ORDER BY performed_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying training sets: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingSet
	for rows.Next() {
		var s models.TrainingSet
		if err := rows.Scan(&s.ID, &s.UserID, &s.Lift, &s.PerformedAt, &s.WeightKg, &s.Reps, &s.RIR); err != nil {
			return nil, fmt.Errorf("scanning training set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
