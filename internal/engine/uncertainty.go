package engine

import (
	"math"
	"time"

	"github.com/claude/liftmax/internal/models"
)

// Range is the ± band around a baseline estimate, in kilograms.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// minDeviationKg floors the uncertainty band: no estimate is ever reported
// tighter than ±2.5 kg.
const minDeviationKg = 2.5

// Uncertainty computes the ± range around a baseline from the spread of the
// per-set estimates and the volume of recent data. The deviation starts at 5%
// of the baseline, widens by half the population standard deviation of the
// estimates when there are at least two, and tightens by 2% per recent set up
// to 30%. A zero baseline yields a zero range.
func Uncertainty(baseline float64, estimates []float64, recentSetCount int) Range {
	if baseline <= 0 {
		return Range{}
	}
	dev := 0.05 * baseline
	if len(estimates) >= 2 {
		dev += 0.5 * popStdDev(estimates)
	}
	dev *= 1 - math.Min(0.3, float64(recentSetCount)*0.02)
	if dev < minDeviationKg {
		dev = minDeviationKg
	}
	low := baseline - dev
	if low < 0 {
		low = 0
	}
	return Range{Low: low, High: baseline + dev}
}

// Confidence scores how much the baseline can be trusted, in [0, 1]. It
// starts at 0.5 and grows with recent sets (up to +0.3), older in-window sets
// (up to +0.15), the existence of a tested max (+0.2), and a tested max
// within 30 days of ref (a further +0.1).
func Confidence(recentSetCount, olderSetCount int, latest *models.TestedMax, ref time.Time) float64 {
	c := 0.5
	c += math.Min(0.3, float64(recentSetCount)*0.1)
	c += math.Min(0.15, float64(olderSetCount)*0.05)
	if latest != nil {
		c += 0.2
		if daysBetween(latest.TestedAt, ref) <= 30 {
			c += 0.1
		}
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// popStdDev is the population standard deviation.
func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// mean is the unweighted arithmetic mean; 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
