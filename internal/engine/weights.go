package engine

import (
	"time"

	"github.com/claude/liftmax/internal/models"
)

// recencyWeight returns the averaging weight for a set of the given age:
// full weight inside the recent window, half weight up to the estimation
// window edge, zero beyond it.
func recencyWeight(ageDays float64) float64 {
	switch {
	case ageDays <= RecentWindowDays:
		return 1.0
	case ageDays <= EstimationWindowDays:
		return 0.5
	default:
		return 0.0
	}
}

// RecencyWeightedMean combines per-set 1RM estimates into a single baseline,
// favoring recent sets without discarding slightly older ones. sets[i] must
// correspond to estimates[i]. Returns 0 when no set carries any weight.
func RecencyWeightedMean(sets []models.TrainingSet, estimates []float64, ref time.Time) float64 {
	var sum, weightSum float64
	for i, s := range sets {
		w := recencyWeight(daysBetween(s.PerformedAt, ref))
		sum += estimates[i] * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}
