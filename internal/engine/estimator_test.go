package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/claude/liftmax/internal/models"
)

var estRef = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func testEstimator() *Estimator {
	return &Estimator{Now: func() time.Time { return estRef }, Calibration: DerivedFactor{}}
}

func loggedSet(lift models.LiftType, daysAgo int, weight float64, reps, rir int) models.TrainingSet {
	return models.TrainingSet{
		Lift:        lift,
		PerformedAt: estRef.AddDate(0, 0, -daysAgo),
		WeightKg:    weight,
		Reps:        reps,
		RIR:         rir,
	}
}

func testedMax(lift models.LiftType, daysAgo int, weight float64) models.TestedMax {
	return models.TestedMax{Lift: lift, TestedAt: estRef.AddDate(0, 0, -daysAgo), WeightKg: weight}
}

// TestEstimateBaselineEmpty verifies the insufficient-data case is the exact
// structural zero: no sets in the window means {0, {0,0}, 0}, even when a
// tested max exists.
func TestEstimateBaselineEmpty(t *testing.T) {
	e := testEstimator()
	got := e.EstimateBaseline(models.LiftBench, nil, []models.TestedMax{testedMax(models.LiftBench, 10, 140)}, estRef)
	if got.Baseline1RM != 0 || got.Uncertainty != (Range{}) || got.Confidence != 0 {
		t.Errorf("empty window estimate = %+v, want exact zero", got)
	}
	if got.Lift != models.LiftBench {
		t.Errorf("zero estimate lost its lift: %q", got.Lift)
	}
}

// TestEstimateBaselineSingleSet verifies the reference scenario: one bench
// set of 100kg×5@0RIR, no tested max. Per-set estimate ≈ 116.67, confidence
// 0.6, uncertainty at least the 2.5kg floor.
func TestEstimateBaselineSingleSet(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}

	got := e.EstimateBaseline(models.LiftBench, sets, nil, estRef)
	if math.Abs(got.Baseline1RM-116.6667) > 0.01 {
		t.Errorf("baseline = %.4f, want 116.67", got.Baseline1RM)
	}
	if math.Abs(got.Confidence-0.6) > 1e-9 {
		t.Errorf("confidence = %v, want 0.6", got.Confidence)
	}
	if got.Uncertainty.High-got.Baseline1RM < 2.5 {
		t.Errorf("deviation %.4f below the 2.5kg floor", got.Uncertainty.High-got.Baseline1RM)
	}
}

// TestEstimateBaselineRecentTestPulls verifies the reference scenario with a
// 130kg tested max one day old: the baseline is reset 70% toward the test,
// 0.7×130 + 0.3×116.67 = 126, strictly above the no-test baseline.
func TestEstimateBaselineRecentTestPulls(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}
	tests := []models.TestedMax{testedMax(models.LiftBench, 1, 130)}

	noTest := e.EstimateBaseline(models.LiftBench, sets, nil, estRef)
	withTest := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)

	if math.Abs(withTest.Baseline1RM-126.0) > 0.01 {
		t.Errorf("baseline = %.4f, want 126.0", withTest.Baseline1RM)
	}
	if withTest.Baseline1RM <= noTest.Baseline1RM {
		t.Errorf("tested max did not raise baseline: %.2f vs %.2f", withTest.Baseline1RM, noTest.Baseline1RM)
	}
	if withTest.Confidence <= noTest.Confidence {
		t.Errorf("tested max did not raise confidence: %v vs %v", withTest.Confidence, noTest.Confidence)
	}
}

// TestEstimateBaselineImprovementRecentTest verifies the improving+recent
// branch: baseline 175 against a 10-day-old 140kg test exceeds it by more
// than 10%, so the estimate is trusted with a 10% blend toward the test:
// 0.9×175 + 0.1×140 = 171.5.
func TestEstimateBaselineImprovementRecentTest(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 5, 150, 5, 0)}
	tests := []models.TestedMax{testedMax(models.LiftBench, 10, 140)}

	got := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)
	if math.Abs(got.Baseline1RM-171.5) > 0.01 {
		t.Errorf("baseline = %.4f, want 171.5", got.Baseline1RM)
	}
}

// TestEstimateBaselineImprovementOlderTest verifies the improving+older
// branch: the same improvement against a 45-day-old test trusts the workout
// estimate outright, no blend.
func TestEstimateBaselineImprovementOlderTest(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 5, 150, 5, 0)}
	tests := []models.TestedMax{testedMax(models.LiftBench, 45, 140)}

	got := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)
	if math.Abs(got.Baseline1RM-175.0) > 0.01 {
		t.Errorf("baseline = %.4f, want 175.0 (estimate trusted)", got.Baseline1RM)
	}
}

// TestEstimateBaselineNonImprovingMidAgeTest verifies the non-improving
// branch at a mid-age test: 45 days old blends 50/50,
// 0.5×140 + 0.5×116.67 = 128.33.
func TestEstimateBaselineNonImprovingMidAgeTest(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}
	tests := []models.TestedMax{testedMax(models.LiftBench, 45, 140)}

	got := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)
	if math.Abs(got.Baseline1RM-128.3333) > 0.01 {
		t.Errorf("baseline = %.4f, want 128.33", got.Baseline1RM)
	}
}

// TestEstimateBaselineOldTestCalibrates verifies the old-test branch: a
// 120-day-old 130kg test is past the reset window, so the derived
// calibration factor (130/116.67 × 0.1 + 0.9 ≈ 1.0114) applies instead:
// 116.67 × 1.0114 ≈ 118.0.
func TestEstimateBaselineOldTestCalibrates(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}
	tests := []models.TestedMax{testedMax(models.LiftBench, 120, 130)}

	got := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)
	if math.Abs(got.Baseline1RM-118.0) > 0.01 {
		t.Errorf("baseline = %.4f, want 118.0", got.Baseline1RM)
	}
}

// TestEstimateBaselineStoredCalibration verifies a stored per-lift factor is
// applied in the old-test branch: factor 1.1 on bench gives
// 116.67 × 1.1 ≈ 128.33, and other lifts are unaffected.
func TestEstimateBaselineStoredCalibration(t *testing.T) {
	e := testEstimator()
	e.Calibration = NewStoredFactors(map[models.LiftType]float64{models.LiftBench: 1.1})

	sets := []models.TrainingSet{
		loggedSet(models.LiftBench, 1, 100, 5, 0),
		loggedSet(models.LiftSquat, 1, 100, 5, 0),
	}
	tests := []models.TestedMax{
		testedMax(models.LiftBench, 120, 130),
		testedMax(models.LiftSquat, 120, 130),
	}

	bench := e.EstimateBaseline(models.LiftBench, sets, tests, estRef)
	if math.Abs(bench.Baseline1RM-128.3333) > 0.01 {
		t.Errorf("bench baseline = %.4f, want 128.33", bench.Baseline1RM)
	}
	squat := e.EstimateBaseline(models.LiftSquat, sets, tests, estRef)
	if math.Abs(squat.Baseline1RM-116.6667) > 0.01 {
		t.Errorf("squat baseline = %.4f, want 116.67 (factor 1.0)", squat.Baseline1RM)
	}
}

// TestEstimateBaselineNoCrossLiftLeakage verifies mixing lifts in one call
// changes nothing: squat sets estimated alongside bench sets produce exactly
// the squat-only result.
func TestEstimateBaselineNoCrossLiftLeakage(t *testing.T) {
	e := testEstimator()
	squatOnly := []models.TrainingSet{
		loggedSet(models.LiftSquat, 3, 150, 5, 1),
		loggedSet(models.LiftSquat, 10, 145, 5, 0),
	}
	mixed := append([]models.TrainingSet{
		loggedSet(models.LiftBench, 2, 50, 8, 2),
		loggedSet(models.LiftBench, 7, 55, 6, 1),
	}, squatOnly...)

	want := e.EstimateBaseline(models.LiftSquat, squatOnly, nil, estRef)
	got := e.EstimateBaseline(models.LiftSquat, mixed, nil, estRef)
	if got != want {
		t.Errorf("mixed-lift input changed squat estimate:\n got %+v\nwant %+v", got, want)
	}
}

// TestEstimateBaselineZeroRefUsesClock verifies a zero reference time falls
// back to the injected clock, keeping windowing reproducible.
func TestEstimateBaselineZeroRefUsesClock(t *testing.T) {
	e := testEstimator()
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}
	explicit := e.EstimateBaseline(models.LiftBench, sets, nil, estRef)
	implicit := e.EstimateBaseline(models.LiftBench, sets, nil, time.Time{})
	if explicit != implicit {
		t.Errorf("zero ref result differs from explicit ref:\n got %+v\nwant %+v", implicit, explicit)
	}
}

// TestEstimateWithCategoryBaseline verifies classification uses the computed
// baseline when one exists: 116.67 / 80 ≈ 1.46 is intermediate bench.
func TestEstimateWithCategoryBaseline(t *testing.T) {
	e := testEstimator()
	profile := models.UserProfile{Sex: models.SexMale, BodyweightKg: 80}
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}

	got, err := e.EstimateWithCategory(models.LiftBench, sets, nil, profile, estRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category.Category != CategoryIntermediate {
		t.Errorf("category = %s (ratio %.3f), want intermediate", got.Category.Category, got.Category.Ratio)
	}
}

// TestEstimateWithCategoryTestFallback verifies that with no usable baseline
// the latest tested max classifies instead: a 160kg bench test at 80kg
// bodyweight is ratio 2.0 — elite.
func TestEstimateWithCategoryTestFallback(t *testing.T) {
	e := testEstimator()
	profile := models.UserProfile{Sex: models.SexMale, BodyweightKg: 80}
	tests := []models.TestedMax{testedMax(models.LiftBench, 200, 160)}

	got, err := e.EstimateWithCategory(models.LiftBench, nil, tests, profile, estRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Baseline1RM != 0 {
		t.Errorf("baseline = %v, want 0 (no sets)", got.Baseline1RM)
	}
	if got.Category.Category != CategoryElite {
		t.Errorf("category = %s, want elite from tested max fallback", got.Category.Category)
	}
}

// TestEstimateWithCategoryPlaceholder verifies the neutral placeholder when
// there is no usable value at all: novice, zero ratio, no error.
func TestEstimateWithCategoryPlaceholder(t *testing.T) {
	e := testEstimator()
	profile := models.UserProfile{Sex: models.SexFemale, BodyweightKg: 60}

	got, err := e.EstimateWithCategory(models.LiftDeadlift, nil, nil, profile, estRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category.Category != CategoryNovice || got.Category.Ratio != 0 {
		t.Errorf("placeholder = %+v, want zero-ratio novice", got.Category)
	}
}

// TestEstimateWithCategoryInvalidProfile verifies a non-positive bodyweight
// fails fast with ErrInvalidInput.
func TestEstimateWithCategoryInvalidProfile(t *testing.T) {
	e := testEstimator()
	profile := models.UserProfile{Sex: models.SexMale, BodyweightKg: 0}
	sets := []models.TrainingSet{loggedSet(models.LiftBench, 1, 100, 5, 0)}

	_, err := e.EstimateWithCategory(models.LiftBench, sets, nil, profile, estRef)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
