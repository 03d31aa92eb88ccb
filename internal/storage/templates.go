package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

// InsertTemplate creates a template with its ordered exercises in one
// transaction; a failed exercise insert rolls back the template row too.
func (db *DB) InsertTemplate(ctx context.Context, row models.TemplateRow, exercises []models.TemplateExerciseRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning template tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO templates (id, user_id, name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		row.ID, row.UserID, row.Name, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}

	if err := insertTemplateExercises(ctx, tx, row.ID, exercises); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReplaceTemplateExercises swaps a template's exercise list atomically.
// Returns ErrNotFound when the template does not belong to the user.
func (db *DB) ReplaceTemplateExercises(ctx context.Context, templateID uuid.UUID, userID int, exercises []models.TemplateExerciseRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning template tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var owner int
	err = tx.QueryRow(ctx,
		`SELECT user_id FROM templates WHERE id = $1 AND user_id = $2`,
		templateID, userID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking template ownership: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM template_exercises WHERE template_id = $1`, templateID); err != nil {
		return fmt.Errorf("clearing template exercises: %w", err)
	}
	if err := insertTemplateExercises(ctx, tx, templateID, exercises); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertTemplateExercises(ctx context.Context, tx pgx.Tx, templateID uuid.UUID, exercises []models.TemplateExerciseRow) error {
	for _, ex := range exercises {
		_, err := tx.Exec(ctx,
			`INSERT INTO template_exercises (template_id, position, exercise_id, target_sets, target_reps, target_rir)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			templateID, ex.Position, ex.ExerciseID, ex.TargetSets, ex.TargetReps, ex.TargetRIR)
		if err != nil {
			return fmt.Errorf("inserting template exercise %d: %w", ex.Position, err)
		}
	}
	return nil
}

// ListTemplates returns the user's templates, newest first.
func (db *DB) ListTemplates(ctx context.Context, userID int) ([]models.TemplateRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, created_at
		 FROM templates
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateRow
	for rows.Next() {
		var t models.TemplateRow
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// GetTemplate retrieves a template with its exercises in position order.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.TemplateDetail, error) {
	var t models.TemplateRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at
		 FROM templates
		 WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}

	detail := &models.TemplateDetail{TemplateRow: t}

	rows, err := db.Pool.Query(ctx,
		`SELECT template_id, position, exercise_id, target_sets, target_reps, target_rir
		 FROM template_exercises
		 WHERE template_id = $1
		 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex models.TemplateExerciseRow
		if err := rows.Scan(&ex.TemplateID, &ex.Position, &ex.ExerciseID,
			&ex.TargetSets, &ex.TargetReps, &ex.TargetRIR); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		detail.Exercises = append(detail.Exercises, ex)
	}
	return detail, rows.Err()
}

// DeleteTemplate removes a template owned by the user. Its exercise rows
// go with it via ON DELETE CASCADE.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
