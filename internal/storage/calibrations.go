package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftmax/internal/models"
)

// GetCalibrations retrieves a user's stored per-lift calibration factors.
// Lifts without a row have no entry; callers treat those as 1.0.
func (db *DB) GetCalibrations(ctx context.Context, userID int) (map[models.LiftType]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT lift, factor FROM lift_calibrations WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying calibrations: %w", err)
	}
	defer rows.Close()

	factors := make(map[models.LiftType]float64)
	for rows.Next() {
		var lift models.LiftType
		var factor float64
		if err := rows.Scan(&lift, &factor); err != nil {
			return nil, fmt.Errorf("scanning calibration: %w", err)
		}
		factors[lift] = factor
	}
	return factors, rows.Err()
}

// UpsertCalibration stores a per-lift calibration factor for a user.
func (db *DB) UpsertCalibration(ctx context.Context, userID int, lift models.LiftType, factor float64) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO lift_calibrations (user_id, lift, factor, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, lift) DO UPDATE
			SET factor = $3, updated_at = NOW()
	`, userID, lift, factor)
	if err != nil {
		return fmt.Errorf("upserting calibration: %w", err)
	}
	return nil
}
