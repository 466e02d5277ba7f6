package mcp

import (
	"context"
	"time"

	"github.com/claude/liftmax/internal/models"
	"github.com/claude/liftmax/internal/storage"
)

// DataSource abstracts the data layer for MCP tools, keeping the handlers
// independent of the concrete storage backend.
type DataSource interface {
	QueryTrainingSets(ctx context.Context, userID int, lift string, start, end time.Time) ([]models.TrainingSet, error)
	QueryTestedMaxes(ctx context.Context, userID int, lift string, start, end time.Time) ([]models.TestedMax, error)
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	GetCalibrations(ctx context.Context, userID int) (map[models.LiftType]float64, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
