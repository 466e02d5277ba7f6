package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftmax/internal/models"
	"github.com/jackc/pgx/v5"
)

// ErrNoProfile is returned when a user has not saved a profile yet.
var ErrNoProfile = errors.New("no profile for user")

// GetProfile retrieves a user's profile.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var p models.UserProfile
	err := db.Pool.QueryRow(ctx,
		`SELECT user_id, age, sex, bodyweight_kg, updated_at
		 FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &p.Age, &p.Sex, &p.BodyweightKg, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or replaces a user's profile.
func (db *DB) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, age, sex, bodyweight_kg, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
			SET age = $2, sex = $3, bodyweight_kg = $4, updated_at = NOW()
	`, p.UserID, p.Age, p.Sex, p.BodyweightKg)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
