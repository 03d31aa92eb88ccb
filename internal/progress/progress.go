// Package progress derives per-exercise trend data from logged sets:
// estimated one-rep-max (Epley) and best completed reps per session.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

// EstimateOneRepMax computes the Epley estimate weight * (1 + reps/30),
// rounded to two decimals. A single rep is the weight itself; non-positive
// inputs yield 0.
func EstimateOneRepMax(weightKg float64, reps int) float64 {
	if weightKg <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	est := weightKg * (1 + float64(reps)/30)
	return math.Round(est*100) / 100
}

// Point is one workout's contribution to an exercise trend.
type Point struct {
	Date        time.Time `json:"date"`
	BestE1RM    float64   `json:"best_e1rm"`
	BestReps    int       `json:"best_reps"`
	TopWeightKg float64   `json:"top_weight_kg"`
}

// Trend folds logged sets into one point per workout, ordered by date
// ascending. Sets without both a positive weight and a positive rep count
// contribute nothing to e1RM; reps-only sets still count toward best reps.
func Trend(sets []models.LoggedSet) []Point {
	byWorkout := make(map[time.Time]*Point)
	for _, s := range sets {
		p, ok := byWorkout[s.StartedAt]
		if !ok {
			p = &Point{Date: s.StartedAt}
			byWorkout[s.StartedAt] = p
		}
		reps := 0
		if s.Reps != nil {
			reps = *s.Reps
		}
		if reps > p.BestReps {
			p.BestReps = reps
		}
		if s.WeightKg == nil || *s.WeightKg <= 0 {
			continue
		}
		if *s.WeightKg > p.TopWeightKg {
			p.TopWeightKg = *s.WeightKg
		}
		if est := EstimateOneRepMax(*s.WeightKg, reps); est > p.BestE1RM {
			p.BestE1RM = est
		}
	}

	points := make([]Point, 0, len(byWorkout))
	for _, p := range byWorkout {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
