package engine

import (
	"math"
	"testing"

	"github.com/claude/liftmax/internal/models"
)

// TestUncertaintyZeroBaseline verifies the degenerate case: a zero baseline
// carries an exactly-zero range.
func TestUncertaintyZeroBaseline(t *testing.T) {
	got := Uncertainty(0, nil, 0)
	if got.Low != 0 || got.High != 0 {
		t.Errorf("Uncertainty(0) = %+v, want {0 0}", got)
	}
}

// TestUncertaintySingleSet verifies the 5% base deviation with the 2% single
// recent-set tightening: baseline 116.67 → deviation 5.833 × 0.98 ≈ 5.717.
func TestUncertaintySingleSet(t *testing.T) {
	got := Uncertainty(116.6667, []float64{116.6667}, 1)
	wantDev := 116.6667 * 0.05 * 0.98
	if math.Abs((got.High-got.Low)/2-wantDev) > 0.01 {
		t.Errorf("half-width = %.4f, want %.4f", (got.High-got.Low)/2, wantDev)
	}
	if math.Abs(got.Low-(116.6667-wantDev)) > 0.01 {
		t.Errorf("Low = %.4f, want %.4f", got.Low, 116.6667-wantDev)
	}
}

// TestUncertaintySpreadWidens verifies that spread across per-set estimates
// adds half the population standard deviation: estimates {90, 110} around a
// 100 baseline give (5 + 5) × 0.96 = 9.6.
func TestUncertaintySpreadWidens(t *testing.T) {
	got := Uncertainty(100, []float64{90, 110}, 2)
	wantDev := 9.6
	if math.Abs(got.High-100-wantDev) > 1e-6 {
		t.Errorf("High = %.4f, want %.4f", got.High, 100+wantDev)
	}
}

// TestUncertaintyVolumeTightens verifies deviation reduction caps at 30%
// with 15 or more recent sets.
func TestUncertaintyVolumeTightens(t *testing.T) {
	few := Uncertainty(100, []float64{100}, 1)
	many := Uncertainty(100, []float64{100}, 20)
	if many.High-100 >= few.High-100 {
		t.Errorf("more recent sets did not tighten: %.4f vs %.4f", many.High-100, few.High-100)
	}
	wantDev := 100 * 0.05 * 0.7 // capped reduction
	if math.Abs(many.High-100-wantDev) > 1e-6 {
		t.Errorf("deviation at 20 recent sets = %.4f, want %.4f", many.High-100, wantDev)
	}
}

// TestUncertaintyFloor verifies the absolute 2.5kg deviation floor for small
// baselines.
func TestUncertaintyFloor(t *testing.T) {
	got := Uncertainty(40, []float64{40}, 1)
	if got.High-40 != 2.5 || 40-got.Low != 2.5 {
		t.Errorf("Uncertainty(40) = %+v, want ±2.5 floor", got)
	}
}

// TestUncertaintyLowNeverNegative verifies the lower bound clamps at zero.
func TestUncertaintyLowNeverNegative(t *testing.T) {
	got := Uncertainty(1, []float64{1}, 0)
	if got.Low < 0 {
		t.Errorf("Low = %v, want ≥ 0", got.Low)
	}
}

// TestConfidenceBaseline verifies the 0.5 floor with no supporting data and
// the +0.1-per-recent-set growth: one recent set gives 0.6.
func TestConfidenceBaseline(t *testing.T) {
	if got := Confidence(0, 0, nil, filterRef); got != 0.5 {
		t.Errorf("Confidence(no data) = %v, want 0.5", got)
	}
	if got := Confidence(1, 0, nil, filterRef); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("Confidence(1 recent set) = %v, want 0.6", got)
	}
}

// TestConfidenceMonotonic verifies confidence never decreases as recent sets,
// older sets, or a tested max are added, and never leaves [0, 1].
func TestConfidenceMonotonic(t *testing.T) {
	recentTest := &models.TestedMax{TestedAt: filterRef.AddDate(0, 0, -10), WeightKg: 100}
	oldTest := &models.TestedMax{TestedAt: filterRef.AddDate(0, 0, -80), WeightKg: 100}

	prev := 0.0
	for recent := 0; recent <= 6; recent++ {
		got := Confidence(recent, 0, nil, filterRef)
		if got < prev {
			t.Fatalf("confidence decreased at %d recent sets: %v < %v", recent, got, prev)
		}
		prev = got
	}

	noTest := Confidence(2, 2, nil, filterRef)
	withOld := Confidence(2, 2, oldTest, filterRef)
	withRecent := Confidence(2, 2, recentTest, filterRef)
	if withOld < noTest || withRecent < withOld {
		t.Errorf("tested-max bonuses not monotone: %v, %v, %v", noTest, withOld, withRecent)
	}
	if math.Abs(withOld-noTest-0.2) > 1e-9 {
		t.Errorf("any-test bonus = %v, want 0.2", withOld-noTest)
	}
	if math.Abs(withRecent-withOld-0.1) > 1e-9 {
		t.Errorf("recent-test bonus = %v, want 0.1", withRecent-withOld)
	}
}

// TestConfidenceClampsAtOne verifies the sum of all bonuses clamps to 1.
func TestConfidenceClampsAtOne(t *testing.T) {
	recentTest := &models.TestedMax{TestedAt: filterRef.AddDate(0, 0, -5), WeightKg: 100}
	if got := Confidence(10, 10, recentTest, filterRef); got != 1.0 {
		t.Errorf("Confidence(max everything) = %v, want 1.0", got)
	}
}

// TestPopStdDev verifies the population standard deviation helper.
func TestPopStdDev(t *testing.T) {
	if got := popStdDev([]float64{90, 110}); math.Abs(got-10) > 1e-9 {
		t.Errorf("popStdDev({90,110}) = %v, want 10", got)
	}
	if got := popStdDev([]float64{100}); got != 0 {
		t.Errorf("popStdDev(single) = %v, want 0", got)
	}
}
