package engine

import "github.com/claude/liftmax/internal/models"

// EstimateOneRM converts a single logged set into a one-rep-max estimate
// using the Epley formula with reps in reserve counted as additional reps:
//
//	1RM = weight × (1 + (reps + rir) / 30)
//
// The same formula applies to every lift type. Inputs are trusted to be
// well-formed (weight > 0, reps ≥ 1, rir ≥ 0) by TrainingSet construction.
func EstimateOneRM(set models.TrainingSet) float64 {
	return set.WeightKg * (1 + float64(set.Reps+set.RIR)/30)
}
