package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftmax/internal/models"
)

// InsertTestedMaxes batch-inserts tested maxima. Returns count inserted;
// duplicates (by ID) are skipped.
func (db *DB) InsertTestedMaxes(ctx context.Context, tests []models.TestedMax) (int64, error) {
	if len(tests) == 0 {
		return 0, nil
	}

	query := `INSERT INTO tested_maxes (id, user_id, lift, tested_at, weight_kg) VALUES `
	args := make([]any, 0, len(tests)*5)
	valueStrings := make([]string, 0, len(tests))

	for i, t := range tests {
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5,
		))
		args = append(args, t.ID, t.UserID, t.Lift, t.TestedAt, t.WeightKg)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting tested maxes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QueryTestedMaxes retrieves a user's tested maxima in a date range,
// optionally narrowed to one lift ("" means all lifts).
func (db *DB) QueryTestedMaxes(ctx context.Context, userID int, lift string, start, end time.Time) ([]models.TestedMax, error) {
	query := `SELECT id, user_id, lift, tested_at, weight_kg
		 FROM tested_maxes
		 WHERE user_id = $1 AND tested_at >= $2 AND tested_at < $3`
	args := []any{userID, start, end}
	if lift != "" {
		query += ` AND lift = $4`
		args = append(args, lift)
	}
	query += ` ORDER BY tested_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tested maxes: %w", err)
	}
	defer rows.Close()

	var result []models.TestedMax
	for rows.Next() {
		var t models.TestedMax
		if err := rows.Scan(&t.ID, &t.UserID, &t.Lift, &t.TestedAt, &t.WeightKg); err != nil {
			return nil, fmt.Errorf("scanning tested max: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
