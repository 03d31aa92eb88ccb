package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// user. Handlers map it to 404 without distinguishing the two cases.
var ErrNotFound = errors.New("not found")

// InsertExercise adds an exercise to the user's catalog.
func (db *DB) InsertExercise(ctx context.Context, row models.ExerciseRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, user_id, name, equipment, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		row.ID, row.UserID, row.Name, row.Equipment, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	return nil
}

// ListExercises returns the user's exercise catalog ordered by name.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]models.ExerciseRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, equipment, created_at
		 FROM exercises
		 WHERE user_id = $1
		 ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseRow
	for rows.Next() {
		var e models.ExerciseRow
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Equipment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetOrCreateExercise returns the ID of the user's exercise with the
// given name, creating it with the given equipment if it does not exist.
// The equipment of an existing exercise is left untouched.
func (db *DB) GetOrCreateExercise(ctx context.Context, userID int, name string, equipment suggest.Equipment) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, user_id, name, equipment, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		uuid.New(), userID, name, equipment).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upserting exercise: %w", err)
	}
	return id, nil
}

// GetExercise retrieves a single exercise owned by the user.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID, userID int) (*models.ExerciseRow, error) {
	var e models.ExerciseRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, equipment, created_at
		 FROM exercises
		 WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&e.ID, &e.UserID, &e.Name, &e.Equipment, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return &e, nil
}

// DeleteExercise removes an exercise owned by the user.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
