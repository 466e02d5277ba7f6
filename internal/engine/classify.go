package engine

import (
	"fmt"
	"math"

	"github.com/claude/liftmax/internal/models"
)

// Category is a strength tier relative to bodyweight.
type Category string

const (
	CategoryNovice       Category = "novice"
	CategoryIntermediate Category = "intermediate"
	CategoryAdvanced     Category = "advanced"
	CategoryElite        Category = "elite"
)

// categoryOrder maps threshold index to tier: ratio below bounds[i] lands in
// categoryOrder[i]; above every bound lands in the last tier.
var categoryOrder = []Category{CategoryNovice, CategoryIntermediate, CategoryAdvanced, CategoryElite}

// StrengthCategory is a classified 1RM-to-bodyweight ratio. MinRatio and
// MaxRatio bound the band the ratio fell in; the top band has no MaxRatio and
// the bottom band no MinRatio.
type StrengthCategory struct {
	Category Category `json:"category"`
	Ratio    float64  `json:"ratio"`
	MinRatio *float64 `json:"min_ratio,omitempty"`
	MaxRatio *float64 `json:"max_ratio,omitempty"`
}

// defaultSexKey is the threshold column used when a profile's sex has no
// dedicated column. The fallback is the same for every lift.
const defaultSexKey = "default"

// liftThresholds holds the ratio boundaries per lift and sex, strictly
// increasing, three bounds per cell (novice|intermediate|advanced|elite).
// Adding a lift or a sex column is a data change, not a code change.
var liftThresholds = map[models.LiftType]map[string][]float64{
	models.LiftBench: {
		defaultSexKey:          {1.0, 1.5, 2.0},
		string(models.SexFemale): {0.5, 1.0, 1.5},
	},
	models.LiftSquat: {
		defaultSexKey:          {1.5, 2.0, 2.5},
		string(models.SexFemale): {1.0, 1.5, 2.0},
	},
	models.LiftDeadlift: {
		defaultSexKey:          {2.0, 2.5, 3.0},
		string(models.SexFemale): {1.5, 2.0, 2.5},
	},
	models.LiftOverheadPress: {
		defaultSexKey:          {0.65, 0.95, 1.30},
		string(models.SexFemale): {0.45, 0.65, 0.90},
	},
}

// Classify maps a 1RM-to-bodyweight ratio to a strength tier using the
// lift- and sex-specific threshold table. A ratio exactly at a band boundary
// belongs to the higher band. Both arguments must be finite and positive.
func Classify(lift models.LiftType, sex models.Sex, oneRM, bodyweightKg float64) (StrengthCategory, error) {
	if !isFinitePositive(oneRM) {
		return StrengthCategory{}, fmt.Errorf("%w: one-rep max %v", ErrInvalidInput, oneRM)
	}
	if !isFinitePositive(bodyweightKg) {
		return StrengthCategory{}, fmt.Errorf("%w: bodyweight %v", ErrInvalidInput, bodyweightKg)
	}
	bySex, ok := liftThresholds[lift]
	if !ok {
		return StrengthCategory{}, fmt.Errorf("%w: no thresholds for lift %q", ErrInvalidInput, lift)
	}
	bounds, ok := bySex[string(sex)]
	if !ok {
		bounds = bySex[defaultSexKey]
	}

	ratio := oneRM / bodyweightKg
	for i, bound := range bounds {
		if ratio < bound {
			sc := StrengthCategory{Category: categoryOrder[i], Ratio: ratio}
			if i > 0 {
				lower := bounds[i-1]
				sc.MinRatio = &lower
			}
			upper := bound
			sc.MaxRatio = &upper
			return sc, nil
		}
	}
	top := bounds[len(bounds)-1]
	return StrengthCategory{
		Category: categoryOrder[len(bounds)],
		Ratio:    ratio,
		MinRatio: &top,
	}, nil
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
