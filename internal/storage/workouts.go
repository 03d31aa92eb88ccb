package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

// InsertWorkout creates a workout log with all its sets in one
// transaction. A workout is never persisted half-written: any failed set
// insert rolls back the workout row as well.
func (db *DB) InsertWorkout(ctx context.Context, row models.WorkoutRow, sets []models.WorkoutSetRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning workout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, user_id, template_id, started_at, finished_at, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		row.ID, row.UserID, row.TemplateID, row.StartedAt, row.FinishedAt, row.Notes)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	if len(sets) > 0 {
		query := `INSERT INTO workout_sets (workout_id, exercise_id, set_number, weight_kg, reps) VALUES `
		args := make([]any, 0, len(sets)*5)
		valueStrings := make([]string, 0, len(sets))

		for i, s := range sets {
			base := i * 5
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5,
			))
			args = append(args, row.ID, s.ExerciseID, s.SetNumber, s.WeightKg, s.Reps)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting workout sets: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// QueryWorkouts retrieves workouts in a time range, newest first.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, template_id, started_at, finished_at, notes
		 FROM workouts
		 WHERE started_at >= $1 AND started_at < $2 AND user_id = $3
		 ORDER BY started_at DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutRow
	for rows.Next() {
		var w models.WorkoutRow
		if err := rows.Scan(&w.ID, &w.UserID, &w.TemplateID, &w.StartedAt, &w.FinishedAt, &w.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout retrieves a single workout with all its sets.
func (db *DB) GetWorkout(ctx context.Context, workoutID uuid.UUID, userID int) (*models.WorkoutDetail, error) {
	var w models.WorkoutRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, template_id, started_at, finished_at, notes
		 FROM workouts
		 WHERE id = $1 AND user_id = $2`,
		workoutID, userID).
		Scan(&w.ID, &w.UserID, &w.TemplateID, &w.StartedAt, &w.FinishedAt, &w.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	detail := &models.WorkoutDetail{WorkoutRow: w}

	setRows, err := db.Pool.Query(ctx,
		`SELECT workout_id, exercise_id, set_number, weight_kg, reps
		 FROM workout_sets
		 WHERE workout_id = $1
		 ORDER BY exercise_id ASC, set_number ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var s models.WorkoutSetRow
		if err := setRows.Scan(&s.WorkoutID, &s.ExerciseID, &s.SetNumber, &s.WeightKg, &s.Reps); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		detail.Sets = append(detail.Sets, s)
	}
	return detail, setRows.Err()
}

// DeleteWorkout removes a workout owned by the user; sets cascade.
func (db *DB) DeleteWorkout(ctx context.Context, workoutID uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workouts WHERE id = $1 AND user_id = $2`, workoutID, userID)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
