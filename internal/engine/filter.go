package engine

import (
	"time"

	"github.com/claude/liftmax/internal/models"
)

const (
	// EstimationWindowDays is the canonical trailing window: sets older than
	// this contribute nothing to a baseline.
	EstimationWindowDays = 90

	// RecentWindowDays is the secondary cut inside the estimation window.
	// Sets newer than this get full recency weight.
	RecentWindowDays = 60
)

// SetsForLift keeps only sets of the given lift. Never mutates the input.
func SetsForLift(sets []models.TrainingSet, lift models.LiftType) []models.TrainingSet {
	var out []models.TrainingSet
	for _, s := range sets {
		if s.Lift == lift {
			out = append(out, s)
		}
	}
	return out
}

// SetsSince keeps only sets performed within the trailing window ending at
// ref. A set exactly at the window edge is kept.
func SetsSince(sets []models.TrainingSet, ref time.Time, windowDays int) []models.TrainingSet {
	cutoff := ref.AddDate(0, 0, -windowDays)
	var out []models.TrainingSet
	for _, s := range sets {
		if !s.PerformedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// TestsForLift keeps only tested maxima of the given lift.
func TestsForLift(tests []models.TestedMax, lift models.LiftType) []models.TestedMax {
	var out []models.TestedMax
	for _, t := range tests {
		if t.Lift == lift {
			out = append(out, t)
		}
	}
	return out
}

// TestsSince keeps only tested maxima within the trailing window ending at ref.
func TestsSince(tests []models.TestedMax, ref time.Time, windowDays int) []models.TestedMax {
	cutoff := ref.AddDate(0, 0, -windowDays)
	var out []models.TestedMax
	for _, t := range tests {
		if !t.TestedAt.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// LatestTest returns the most recent tested max, or nil when there are none.
func LatestTest(tests []models.TestedMax) *models.TestedMax {
	var latest *models.TestedMax
	for i := range tests {
		if latest == nil || tests[i].TestedAt.After(latest.TestedAt) {
			latest = &tests[i]
		}
	}
	return latest
}

// daysBetween returns the (fractional) number of days from t to ref.
func daysBetween(t, ref time.Time) float64 {
	return ref.Sub(t).Hours() / 24
}
