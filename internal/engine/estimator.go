package engine

import (
	"time"

	"github.com/claude/liftmax/internal/models"
)

// improvementThreshold: a workout-derived baseline more than 10% above the
// latest tested max counts as a clear improvement, and the estimate is
// trusted over a reset toward the now-stale test.
const improvementThreshold = 1.10

// BaselineEstimate is the engine's best-guess 1RM for one lift, with its
// uncertainty band and a 0–1 confidence score. A zero Baseline1RM means
// "no usable estimate yet" and carries a zero range and zero confidence.
type BaselineEstimate struct {
	Lift        models.LiftType `json:"lift"`
	Baseline1RM float64         `json:"baseline_1rm"`
	Uncertainty Range           `json:"uncertainty"`
	Confidence  float64         `json:"confidence"`
}

// CategorizedEstimate pairs a baseline estimate with its strength tier.
type CategorizedEstimate struct {
	BaselineEstimate
	Category StrengthCategory `json:"category"`
}

// Estimator composes the per-lift estimation pipeline. It is stateless:
// every call is a pure transform of its arguments, so concurrent calls for
// different lifts or users are safe.
type Estimator struct {
	// Now supplies the reference clock when a caller passes a zero reference
	// time. Defaults to time.Now.
	Now func() time.Time

	// Calibration adjusts the baseline when the latest tested max has aged
	// out of the estimation window. Defaults to DerivedFactor.
	Calibration CalibrationStrategy
}

// NewEstimator returns an Estimator with the wall clock and the
// derived-factor calibration policy.
func NewEstimator() *Estimator {
	return &Estimator{Now: time.Now, Calibration: DerivedFactor{}}
}

func (e *Estimator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Estimator) calibration() CalibrationStrategy {
	if e.Calibration != nil {
		return e.Calibration
	}
	return DerivedFactor{}
}

// EstimateBaseline derives the calibrated baseline 1RM for one lift from raw
// logged sets and tested maxima as of ref. Sets are filtered to the lift and
// the 90-day window; with none in the window the zero estimate is returned
// immediately. Tested maxima are filtered to the lift only, since the reset
// policy and the confidence score both need to see tests older than the
// window. ref may be zero to use the estimator's clock.
func (e *Estimator) EstimateBaseline(lift models.LiftType, sets []models.TrainingSet, tests []models.TestedMax, ref time.Time) BaselineEstimate {
	if ref.IsZero() {
		ref = e.now()
	}

	windowed := SetsSince(SetsForLift(sets, lift), ref, EstimationWindowDays)
	if len(windowed) == 0 {
		return BaselineEstimate{Lift: lift}
	}

	estimates := make([]float64, len(windowed))
	for i, s := range windowed {
		estimates[i] = EstimateOneRM(s)
	}
	baseline := RecencyWeightedMean(windowed, estimates, ref)

	latest := LatestTest(TestsForLift(tests, lift))
	baseline = e.applyTestedMax(lift, baseline, estimates, latest, ref)

	recent := len(SetsSince(windowed, ref, RecentWindowDays))
	older := len(windowed) - recent

	return BaselineEstimate{
		Lift:        lift,
		Baseline1RM: baseline,
		Uncertainty: Uncertainty(baseline, estimates, recent),
		Confidence:  Confidence(recent, older, latest, ref),
	}
}

// applyTestedMax reconciles the workout-derived baseline with the latest
// tested max. The recency-aware improvement override runs before the generic
// decayed reset: a baseline clearly above a test that is still inside the
// estimation window is trusted rather than reset, blending 10% toward a test
// under 30 days old to avoid over-trusting a single session. A test past the
// window falls back to calibration followed by the decayed reset.
func (e *Estimator) applyTestedMax(lift models.LiftType, baseline float64, estimates []float64, latest *models.TestedMax, ref time.Time) float64 {
	if latest == nil {
		return baseline
	}
	age := daysBetween(latest.TestedAt, ref)
	if age <= EstimationWindowDays {
		if baseline > latest.WeightKg*improvementThreshold {
			if age <= 30 {
				return 0.9*baseline + 0.1*latest.WeightKg
			}
			return baseline
		}
		return HardReset(baseline, latest, ref)
	}
	factor := e.calibration().Factor(lift, mean(estimates), latest)
	return HardReset(baseline*factor, latest, ref)
}

// EstimateWithCategory runs EstimateBaseline and attaches a strength tier.
// Classification prefers the computed baseline and falls back to the latest
// tested max when the baseline is zero; with no usable value at all it
// attaches a neutral zero-ratio novice placeholder instead of failing.
func (e *Estimator) EstimateWithCategory(lift models.LiftType, sets []models.TrainingSet, tests []models.TestedMax, profile models.UserProfile, ref time.Time) (CategorizedEstimate, error) {
	be := e.EstimateBaseline(lift, sets, tests, ref)

	usable := be.Baseline1RM
	if usable == 0 {
		if latest := LatestTest(TestsForLift(tests, lift)); latest != nil {
			usable = latest.WeightKg
		}
	}
	if usable == 0 {
		return CategorizedEstimate{
			BaselineEstimate: be,
			Category:         StrengthCategory{Category: CategoryNovice},
		}, nil
	}

	sc, err := Classify(lift, profile.Sex, usable, profile.BodyweightKg)
	if err != nil {
		return CategorizedEstimate{}, err
	}
	return CategorizedEstimate{BaselineEstimate: be, Category: sc}, nil
}
