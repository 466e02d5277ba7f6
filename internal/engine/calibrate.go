package engine

import "github.com/claude/liftmax/internal/models"

// Calibration factors are multiplicative corrections nudging formula-derived
// estimates toward a user's observed true performance. Factors outside this
// band are clamped; ±15% is the most a calibration may move a baseline.
const (
	MinCalibrationFactor = 0.85
	MaxCalibrationFactor = 1.15
)

// CalibrationStrategy derives a per-lift multiplicative adjustment factor.
// With no tested data a strategy must return exactly 1.0.
type CalibrationStrategy interface {
	Factor(lift models.LiftType, avgEstimate float64, latest *models.TestedMax) float64
}

// DerivedFactor computes the factor from the gap between the latest tested
// max and the average formula-derived estimate, scaled down so a 100% gap
// moves the factor by only 10%, then clamped to the calibration band.
type DerivedFactor struct{}

func (DerivedFactor) Factor(_ models.LiftType, avgEstimate float64, latest *models.TestedMax) float64 {
	if latest == nil || avgEstimate <= 0 {
		return 1.0
	}
	return clampFactor(latest.WeightKg/avgEstimate*0.1 + 0.9)
}

// StoredFactors applies a persisted per-lift multiplier. Lifts without a
// stored factor use 1.0; there is no cross-lift effect.
type StoredFactors struct {
	factors map[models.LiftType]float64
}

// NewStoredFactors builds a stored-factor strategy, clamping each factor to
// the calibration band.
func NewStoredFactors(factors map[models.LiftType]float64) *StoredFactors {
	clamped := make(map[models.LiftType]float64, len(factors))
	for lift, f := range factors {
		clamped[lift] = clampFactor(f)
	}
	return &StoredFactors{factors: clamped}
}

func (s *StoredFactors) Factor(lift models.LiftType, _ float64, _ *models.TestedMax) float64 {
	if f, ok := s.factors[lift]; ok {
		return f
	}
	return 1.0
}

func clampFactor(f float64) float64 {
	if f < MinCalibrationFactor {
		return MinCalibrationFactor
	}
	if f > MaxCalibrationFactor {
		return MaxCalibrationFactor
	}
	return f
}
