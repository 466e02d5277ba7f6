package models

import "fmt"

// LiftType identifies which barbell lift a record belongs to. Every stored
// record carries one explicitly; there is no implicit default lift, and no
// function may mix records across lift types.
type LiftType string

const (
	LiftBench         LiftType = "bench"
	LiftSquat         LiftType = "squat"
	LiftDeadlift      LiftType = "deadlift"
	LiftOverheadPress LiftType = "overhead_press"
)

// KnownLifts returns the lifts the system tracks, in dashboard order.
func KnownLifts() []LiftType {
	return []LiftType{LiftBench, LiftSquat, LiftDeadlift, LiftOverheadPress}
}

// ParseLiftType validates and normalizes a lift name from external input.
func ParseLiftType(s string) (LiftType, error) {
	switch LiftType(s) {
	case LiftBench, LiftSquat, LiftDeadlift, LiftOverheadPress:
		return LiftType(s), nil
	}
	return "", fmt.Errorf("unknown lift type %q", s)
}

// Sex is the profile sex used to pick strength threshold tables.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ParseSex validates a sex value from external input.
func ParseSex(s string) (Sex, error) {
	switch Sex(s) {
	case SexMale, SexFemale, SexOther:
		return Sex(s), nil
	}
	return "", fmt.Errorf("unknown sex %q", s)
}
