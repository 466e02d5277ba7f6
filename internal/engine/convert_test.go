package engine

import (
	"math"
	"testing"

	"github.com/claude/liftmax/internal/models"
)

func benchSet(weight float64, reps, rir int) models.TrainingSet {
	return models.TrainingSet{Lift: models.LiftBench, WeightKg: weight, Reps: reps, RIR: rir}
}

// TestEstimateOneRM verifies the Epley-with-RIR formula against hand-computed
// values: 1RM = weight × (1 + (reps+rir)/30).
func TestEstimateOneRM(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		reps   int
		rir    int
		want   float64
	}{
		{"100kg x 5 @ 0 RIR", 100, 5, 0, 116.6667},
		{"100kg x 5 @ 2 RIR", 100, 5, 2, 123.3333},
		{"60kg x 1 @ 0 RIR", 60, 1, 0, 62},
		{"80kg x 10 @ 1 RIR", 80, 10, 1, 109.3333},
		{"140kg x 3 @ 0 RIR", 140, 3, 0, 154},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateOneRM(benchSet(tt.weight, tt.reps, tt.rir))
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("EstimateOneRM = %.4f, want %.4f", got, tt.want)
			}
		})
	}
}

// TestEstimateOneRMMonotonic verifies the estimate strictly increases in each
// of weight, reps, and RIR independently.
func TestEstimateOneRMMonotonic(t *testing.T) {
	base := EstimateOneRM(benchSet(100, 5, 1))
	if got := EstimateOneRM(benchSet(105, 5, 1)); got <= base {
		t.Errorf("heavier set estimate %.2f not above %.2f", got, base)
	}
	if got := EstimateOneRM(benchSet(100, 6, 1)); got <= base {
		t.Errorf("more reps estimate %.2f not above %.2f", got, base)
	}
	if got := EstimateOneRM(benchSet(100, 5, 2)); got <= base {
		t.Errorf("more RIR estimate %.2f not above %.2f", got, base)
	}
}

// TestEstimateOneRMLiftAgnostic verifies the formula ignores the lift type:
// identical numbers produce identical estimates across lifts.
func TestEstimateOneRMLiftAgnostic(t *testing.T) {
	bench := EstimateOneRM(models.TrainingSet{Lift: models.LiftBench, WeightKg: 120, Reps: 4, RIR: 1})
	squat := EstimateOneRM(models.TrainingSet{Lift: models.LiftSquat, WeightKg: 120, Reps: 4, RIR: 1})
	if bench != squat {
		t.Errorf("bench estimate %.4f != squat estimate %.4f for identical set", bench, squat)
	}
}
