package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// LastExerciseSets returns the sets of the most recent workout containing
// the exercise, in set order. An empty slice means the exercise has never
// been logged; that maps to the engine's "no suggestion".
func (db *DB) LastExerciseSets(ctx context.Context, exerciseID uuid.UUID, userID int) ([]suggest.PreviousSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ws.weight_kg, ws.reps
		 FROM workout_sets ws
		 JOIN workouts w ON w.id = ws.workout_id
		 WHERE ws.exercise_id = $1 AND w.user_id = $2
		   AND w.id = (
			SELECT w2.id
			FROM workouts w2
			JOIN workout_sets ws2 ON ws2.workout_id = w2.id
			WHERE ws2.exercise_id = $1 AND w2.user_id = $2
			ORDER BY w2.started_at DESC
			LIMIT 1
		   )
		 ORDER BY ws.set_number ASC`,
		exerciseID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying last exercise sets: %w", err)
	}
	defer rows.Close()

	var result []suggest.PreviousSet
	for rows.Next() {
		var s suggest.PreviousSet
		if err := rows.Scan(&s.Weight, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning previous set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ExerciseHistory returns all sets logged for an exercise in a time range,
// joined with the workout start time, ordered oldest first.
func (db *DB) ExerciseHistory(ctx context.Context, exerciseID uuid.UUID, start, end time.Time, userID int) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT w.started_at, ws.set_number, ws.weight_kg, ws.reps
		 FROM workout_sets ws
		 JOIN workouts w ON w.id = ws.workout_id
		 WHERE ws.exercise_id = $1 AND w.user_id = $2
		   AND w.started_at >= $3 AND w.started_at < $4
		 ORDER BY w.started_at ASC, ws.set_number ASC`,
		exerciseID, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	var result []models.LoggedSet
	for rows.Next() {
		var s models.LoggedSet
		if err := rows.Scan(&s.StartedAt, &s.SetNumber, &s.WeightKg, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning logged set: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
