package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSet is one physical set of a lift: a weight moved for a number of
// reps with a self-reported number of reps in reserve. Immutable once logged.
type TrainingSet struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	Lift        LiftType  `json:"lift"`
	PerformedAt time.Time `json:"performed_at"`
	WeightKg    float64   `json:"weight_kg"`
	Reps        int       `json:"reps"`
	RIR         int       `json:"rir"`
}

// TestedMax is an actually completed single-rep maximal lift. It is
// authoritative over any formula-derived estimate for the same lift.
type TestedMax struct {
	ID       uuid.UUID `json:"id"`
	UserID   int       `json:"user_id"`
	Lift     LiftType  `json:"lift"`
	TestedAt time.Time `json:"tested_at"`
	WeightKg float64   `json:"weight_kg"`
}

// UserProfile supplies the bodyweight denominator and the sex key for
// strength classification.
type UserProfile struct {
	UserID       int       `json:"user_id"`
	Age          int       `json:"age"`
	Sex          Sex       `json:"sex"`
	BodyweightKg float64   `json:"bodyweight_kg"`
	UpdatedAt    time.Time `json:"updated_at"`
}
