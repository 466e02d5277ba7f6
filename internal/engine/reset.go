package engine

import (
	"time"

	"github.com/claude/liftmax/internal/models"
)

// testedWeight returns how strongly a tested max of the given age pulls the
// estimate toward it. The pull decays in 30-day steps and vanishes past the
// estimation window.
func testedWeight(ageDays float64) float64 {
	switch {
	case ageDays <= 30:
		return 0.7
	case ageDays <= 60:
		return 0.5
	case ageDays <= 90:
		return 0.3
	default:
		return 0
	}
}

// HardReset blends a workout-derived estimate toward the latest tested max,
// with pull strength decaying with the test's age at ref. A nil test or a
// test older than the estimation window leaves the estimate unchanged.
func HardReset(estimate float64, latest *models.TestedMax, ref time.Time) float64 {
	if latest == nil {
		return estimate
	}
	w := testedWeight(daysBetween(latest.TestedAt, ref))
	return w*latest.WeightKg + (1-w)*estimate
}
