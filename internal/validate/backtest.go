// Package validate replays historical data through the estimator and
// measures how well baseline estimates predicted actually-tested maxima.
package validate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/claude/liftmax/internal/engine"
	"github.com/claude/liftmax/internal/models"
)

// Prediction pairs one tested max with the estimate the engine would have
// produced from only the data available the day before the test.
type Prediction struct {
	Lift      models.LiftType `json:"lift"`
	TestedAt  time.Time       `json:"tested_at"`
	TestedKg  float64         `json:"tested_kg"`
	Predicted float64         `json:"predicted_kg"`
	ErrorKg   float64         `json:"error_kg"`
	InRange   bool            `json:"in_range"`
}

// LiftReport aggregates prediction accuracy for one lift.
type LiftReport struct {
	Lift        models.LiftType `json:"lift"`
	Predictions int             `json:"predictions"`
	MAE         float64         `json:"mae_kg"`
	MAPE        float64         `json:"mape_pct"`
	MeanBias    float64         `json:"mean_bias_kg"`
	InRangePct  float64         `json:"in_range_pct"`
}

// Report is the full backtest result.
type Report struct {
	Predictions []Prediction `json:"predictions"`
	PerLift     []LiftReport `json:"per_lift"`
	Overall     LiftReport   `json:"overall"`
	Skipped     int          `json:"skipped"`
}

// Backtest walks tested maxima in chronological order and, for each one,
// estimates the 1RM using only records strictly older than the test. Tests
// with no prior training data are skipped rather than counted as failures.
func Backtest(est *engine.Estimator, sets []models.TrainingSet, tests []models.TestedMax) (*Report, error) {
	if est == nil {
		return nil, fmt.Errorf("backtest: nil estimator")
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("backtest: no tested maxes to validate against")
	}

	ordered := make([]models.TestedMax, len(tests))
	copy(ordered, tests)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].TestedAt.Before(ordered[j].TestedAt) })

	report := &Report{}
	for _, tm := range ordered {
		ref := tm.TestedAt.Add(-time.Nanosecond)
		priorSets := recordsBefore(sets, ref)
		priorTests := testsBefore(ordered, ref)

		be := est.EstimateBaseline(tm.Lift, priorSets, priorTests, ref)
		if be.Baseline1RM == 0 {
			report.Skipped++
			continue
		}

		report.Predictions = append(report.Predictions, Prediction{
			Lift:      tm.Lift,
			TestedAt:  tm.TestedAt,
			TestedKg:  tm.WeightKg,
			Predicted: be.Baseline1RM,
			ErrorKg:   be.Baseline1RM - tm.WeightKg,
			InRange:   tm.WeightKg >= be.Uncertainty.Low && tm.WeightKg <= be.Uncertainty.High,
		})
	}

	if len(report.Predictions) == 0 {
		return nil, fmt.Errorf("backtest: no tested max had prior training data")
	}

	byLift := map[models.LiftType][]Prediction{}
	for _, p := range report.Predictions {
		byLift[p.Lift] = append(byLift[p.Lift], p)
	}
	for _, lift := range models.KnownLifts() {
		if preds, ok := byLift[lift]; ok {
			report.PerLift = append(report.PerLift, summarize(lift, preds))
		}
	}
	report.Overall = summarize("", report.Predictions)
	report.Overall.Lift = "all"

	return report, nil
}

func summarize(lift models.LiftType, preds []Prediction) LiftReport {
	var absSum, pctSum, biasSum float64
	inRange := 0
	for _, p := range preds {
		absSum += math.Abs(p.ErrorKg)
		pctSum += math.Abs(p.ErrorKg) / p.TestedKg * 100
		biasSum += p.ErrorKg
		if p.InRange {
			inRange++
		}
	}
	n := float64(len(preds))
	return LiftReport{
		Lift:        lift,
		Predictions: len(preds),
		MAE:         absSum / n,
		MAPE:        pctSum / n,
		MeanBias:    biasSum / n,
		InRangePct:  float64(inRange) / n * 100,
	}
}

func recordsBefore(sets []models.TrainingSet, ref time.Time) []models.TrainingSet {
	var out []models.TrainingSet
	for _, s := range sets {
		if !s.PerformedAt.After(ref) {
			out = append(out, s)
		}
	}
	return out
}

func testsBefore(tests []models.TestedMax, ref time.Time) []models.TestedMax {
	var out []models.TestedMax
	for _, t := range tests {
		if !t.TestedAt.After(ref) {
			out = append(out, t)
		}
	}
	return out
}
