package suggest

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

// TestBodyweightNeverSuggests verifies that bodyweight movements get no
// suggestion regardless of history — pre-filling a weight makes no sense
// for a movement tracked without one.
func TestBodyweightNeverSuggests(t *testing.T) {
	sets := []PreviousSet{{Weight: fp(20), Reps: ip(12)}}
	if got := Next(sets, 8, EquipmentBodyweight); got != nil {
		t.Errorf("Next(bodyweight) = %+v, want nil", got)
	}
}

// TestNoPreviousSets verifies that nil and empty histories yield no
// suggestion — there is nothing to extrapolate from.
func TestNoPreviousSets(t *testing.T) {
	if got := Next(nil, 8, EquipmentBarbell); got != nil {
		t.Errorf("Next(nil) = %+v, want nil", got)
	}
	if got := Next([]PreviousSet{}, 8, EquipmentBarbell); got != nil {
		t.Errorf("Next(empty) = %+v, want nil", got)
	}
}

// TestNoWeightedSets verifies that a history where every set has an absent
// or non-positive weight yields no suggestion.
func TestNoWeightedSets(t *testing.T) {
	sets := []PreviousSet{
		{Weight: nil, Reps: ip(10)},
		{Weight: fp(0), Reps: ip(8)},
		{Weight: fp(-5), Reps: ip(8)},
	}
	if got := Next(sets, 8, EquipmentBarbell); got != nil {
		t.Errorf("Next(weightless sets) = %+v, want nil", got)
	}
}

// TestGuardOnSmallWeights verifies the fallback when the 2.5% step rounds
// back to the starting weight: 40kg at target → raw 41.0 rounds to 40,
// guard takes 40 + 2.5 = 42.5.
func TestGuardOnSmallWeights(t *testing.T) {
	sets := []PreviousSet{{Weight: fp(40), Reps: ip(8)}}
	got := Next(sets, 8, EquipmentBarbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 42.5 || !got.IsIncrease {
		t.Errorf("Next() = %+v, want {42.5 true}", got)
	}
}

// TestIncreaseRoundsToIncrement verifies the normal increase path:
// 60kg at target → raw 61.5 → nearest 2.5 is 62.5.
func TestIncreaseRoundsToIncrement(t *testing.T) {
	sets := []PreviousSet{{Weight: fp(60), Reps: ip(8)}}
	got := Next(sets, 8, EquipmentBarbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 62.5 || !got.IsIncrease {
		t.Errorf("Next() = %+v, want {62.5 true}", got)
	}
}

// TestMaintainOnMissedTarget verifies that missing the target rep count
// keeps the previous max weight, never a reduction.
func TestMaintainOnMissedTarget(t *testing.T) {
	sets := []PreviousSet{{Weight: fp(40), Reps: ip(6)}}
	got := Next(sets, 8, EquipmentBarbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 40 || got.IsIncrease {
		t.Errorf("Next() = %+v, want {40 false}", got)
	}
}

// TestSingleMissBlocksIncrease verifies that the increase requires the
// target on every set: one set below target holds the weight even when
// another set exceeded it, and the max weight is the one maintained.
func TestSingleMissBlocksIncrease(t *testing.T) {
	sets := []PreviousSet{
		{Weight: fp(40), Reps: ip(8)},
		{Weight: fp(42), Reps: ip(7)},
	}
	got := Next(sets, 8, EquipmentBarbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 42 || got.IsIncrease {
		t.Errorf("Next() = %+v, want {42 false}", got)
	}
}

// TestDumbbellIncrement verifies the 2kg dumbbell increment:
// 25kg at target → raw 25.625 → nearest 2 is 26.
func TestDumbbellIncrement(t *testing.T) {
	sets := []PreviousSet{{Weight: fp(25), Reps: ip(10)}}
	got := Next(sets, 10, EquipmentDumbbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 26 || !got.IsIncrease {
		t.Errorf("Next() = %+v, want {26 true}", got)
	}
}

// TestAbsentRepsCountAsMiss verifies that a weighted set with no recorded
// rep count blocks the increase (treated as zero reps).
func TestAbsentRepsCountAsMiss(t *testing.T) {
	sets := []PreviousSet{
		{Weight: fp(60), Reps: ip(8)},
		{Weight: fp(60), Reps: nil},
	}
	got := Next(sets, 8, EquipmentBarbell)
	if got == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if got.Weight != 60 || got.IsIncrease {
		t.Errorf("Next() = %+v, want {60 false}", got)
	}
}

// TestIncreaseIsStrict verifies the monotonicity guard across equipment:
// whenever the result is an increase, it is strictly greater than the
// previous max weight.
func TestIncreaseIsStrict(t *testing.T) {
	equipment := []Equipment{
		EquipmentBarbell, EquipmentDumbbell, EquipmentCable,
		EquipmentMachine, EquipmentOther,
	}
	for _, eq := range equipment {
		for w := 2.5; w <= 200; w += 2.5 {
			sets := []PreviousSet{{Weight: fp(w), Reps: ip(8)}}
			got := Next(sets, 8, eq)
			if got == nil {
				t.Fatalf("Next(%v, %v) = nil, want suggestion", w, eq)
			}
			if !got.IsIncrease {
				t.Fatalf("Next(%v, %v).IsIncrease = false, want true", w, eq)
			}
			if got.Weight <= w {
				t.Errorf("Next(%v, %v) = %v, want > %v", w, eq, got.Weight, w)
			}
		}
	}
}

// TestMaintainEqualsMax verifies that a maintain result is exactly the
// previous max weight, never above or below it.
func TestMaintainEqualsMax(t *testing.T) {
	for w := 10.0; w <= 150; w += 7.5 {
		sets := []PreviousSet{{Weight: fp(w), Reps: ip(5)}}
		got := Next(sets, 8, EquipmentMachine)
		if got == nil {
			t.Fatalf("Next(%v) = nil, want suggestion", w)
		}
		if got.IsIncrease || got.Weight != w {
			t.Errorf("Next(%v) = %+v, want {%v false}", w, got, w)
		}
	}
}

// TestNextIsPure verifies that repeated calls with identical inputs return
// identical results and leave the inputs untouched.
func TestNextIsPure(t *testing.T) {
	sets := []PreviousSet{
		{Weight: fp(80), Reps: ip(8)},
		{Weight: fp(77.5), Reps: ip(9)},
	}
	first := Next(sets, 8, EquipmentBarbell)
	second := Next(sets, 8, EquipmentBarbell)
	if first == nil || second == nil {
		t.Fatal("Next() = nil, want suggestion")
	}
	if *first != *second {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
	if *sets[0].Weight != 80 || *sets[1].Reps != 9 {
		t.Error("Next() mutated its input")
	}
}

// TestRoundToIncrement verifies nearest-multiple rounding with half-up
// tie-breaking, and that already-aligned values pass through unchanged.
func TestRoundToIncrement(t *testing.T) {
	cases := []struct {
		weight, increment, want float64
	}{
		{41.0, 2.5, 40},
		{41.25, 2.5, 42.5}, // halfway rounds up
		{61.5, 2.5, 62.5},
		{25.625, 2, 26},
		{1.0, 2.5, 0},
		{1.25, 2.5, 2.5},
	}
	for _, c := range cases {
		if got := RoundToIncrement(c.weight, c.increment); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("RoundToIncrement(%v, %v) = %v, want %v", c.weight, c.increment, got, c.want)
		}
	}

	for k := 0; k <= 60; k++ {
		aligned := float64(k) * 2.5
		if got := RoundToIncrement(aligned, 2.5); math.Abs(got-aligned) > 1e-9 {
			t.Errorf("RoundToIncrement(%v, 2.5) = %v, want unchanged", aligned, got)
		}
	}
}

// TestEquipmentIncrements verifies the fixed increment table.
func TestEquipmentIncrements(t *testing.T) {
	cases := []struct {
		eq   Equipment
		want float64
	}{
		{EquipmentBarbell, 2.5},
		{EquipmentDumbbell, 2},
		{EquipmentCable, 2.5},
		{EquipmentMachine, 2.5},
		{EquipmentBodyweight, 0},
		{EquipmentOther, 2.5},
		{Equipment("kettlebell"), 2.5}, // unknown behaves like other
	}
	for _, c := range cases {
		if got := c.eq.Increment(); got != c.want {
			t.Errorf("%q.Increment() = %v, want %v", c.eq, got, c.want)
		}
	}
}

// TestFormatWeight verifies display formatting: whole values without a
// decimal point, fractional values with exactly one decimal place.
func TestFormatWeight(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{42, "42"},
		{26.5, "26.5"},
		{62.5, "62.5"},
		{0, "0"},
		{100, "100"},
		{2.5, "2.5"},
	}
	for _, c := range cases {
		if got := FormatWeight(c.in); got != c.want {
			t.Errorf("FormatWeight(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
