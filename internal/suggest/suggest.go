// Package suggest computes the pre-fill weight for the next session of an
// exercise from the most recent recorded sets. Double progression: hold the
// weight until the target rep count is hit on every working set, then bump
// it by a fixed percentage and round to what the equipment can load.
package suggest

import (
	"math"
	"strconv"
)

// IncreasePercent is the fixed progression step applied once the target
// rep count is reached on all sets.
const IncreasePercent = 0.025

// Equipment determines the rounding increment for suggested weights.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentCable      Equipment = "cable"
	EquipmentMachine    Equipment = "machine"
	EquipmentBodyweight Equipment = "bodyweight"
	EquipmentOther      Equipment = "other"
)

// Increment returns the smallest loadable step in kg for the equipment.
// Bodyweight has no increment; Next short-circuits before it matters.
// Unknown values behave like EquipmentOther.
func (e Equipment) Increment() float64 {
	switch e {
	case EquipmentDumbbell:
		return 2
	case EquipmentBodyweight:
		return 0
	default:
		return 2.5
	}
}

// Valid reports whether e is one of the known equipment tags.
func (e Equipment) Valid() bool {
	switch e {
	case EquipmentBarbell, EquipmentDumbbell, EquipmentCable,
		EquipmentMachine, EquipmentBodyweight, EquipmentOther:
		return true
	}
	return false
}

// PreviousSet is one recorded set from the most recent prior workout.
// Weight and reps are independently optional; a nil weight or a weight of
// zero means "not entered".
type PreviousSet struct {
	Weight *float64 `json:"weight_kg"`
	Reps   *int     `json:"reps"`
}

// Suggestion is a pre-fill weight for the next session. IsIncrease is true
// when the weight is a progression over the last working weight rather
// than a repeat of it.
type Suggestion struct {
	Weight     float64 `json:"weight_kg"`
	IsIncrease bool    `json:"is_increase"`
}

// RoundToIncrement returns the multiple of increment nearest to weight.
// Halfway values round away from zero. The increment must be positive.
func RoundToIncrement(weight, increment float64) float64 {
	return math.Round(weight/increment) * increment
}

// Next decides the weight to pre-fill for the next session of an exercise.
// It returns nil when no suggestion applies: bodyweight movements, no
// previous sets, or no set with a positive recorded weight.
//
// When every weighted set reached targetReps the previous max weight is
// increased by IncreasePercent and rounded to the equipment increment; if
// rounding lands at or below the previous max the suggestion falls back to
// max plus one increment, so an increase is always strictly greater.
// Otherwise the previous max is suggested unchanged. The engine never
// suggests a reduction; a session or two below target after a bump is
// expected, and there is no signal to tell that apart from a stall.
func Next(prev []PreviousSet, targetReps int, eq Equipment) *Suggestion {
	if eq == EquipmentBodyweight {
		return nil
	}
	if len(prev) == 0 {
		return nil
	}

	var weighted []PreviousSet
	for _, s := range prev {
		if s.Weight != nil && *s.Weight > 0 {
			weighted = append(weighted, s)
		}
	}
	if len(weighted) == 0 {
		return nil
	}

	maxWeight := *weighted[0].Weight
	hitTargetOnAllSets := true
	for _, s := range weighted {
		if *s.Weight > maxWeight {
			maxWeight = *s.Weight
		}
		// A missing rep count counts as zero reps, i.e. a miss.
		reps := 0
		if s.Reps != nil {
			reps = *s.Reps
		}
		if reps < targetReps {
			hitTargetOnAllSets = false
		}
	}

	if !hitTargetOnAllSets {
		return &Suggestion{Weight: maxWeight, IsIncrease: false}
	}

	increment := eq.Increment()
	suggested := RoundToIncrement(maxWeight*(1+IncreasePercent), increment)
	if suggested <= maxWeight {
		// The percentage step rounded back down to the starting weight
		// (small weights, coarse increments). Take one full increment.
		suggested = maxWeight + increment
	}
	return &Suggestion{Weight: suggested, IsIncrease: true}
}

// FormatWeight renders a weight without decimal noise: whole kilograms
// have no decimal point, fractional values get exactly one decimal place.
func FormatWeight(w float64) string {
	if w == math.Trunc(w) {
		return strconv.FormatFloat(w, 'f', 0, 64)
	}
	return strconv.FormatFloat(w, 'f', 1, 64)
}
