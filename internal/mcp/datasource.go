package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/storage"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// DataSource is the slice of storage the MCP tools need. It exists so the
// tool handlers can be tested against a fake without a database.
type DataSource interface {
	ListExercises(ctx context.Context, userID int) ([]models.ExerciseRow, error)
	LastExerciseSets(ctx context.Context, exerciseID uuid.UUID, userID int) ([]suggest.PreviousSet, error)
	ExerciseHistory(ctx context.Context, exerciseID uuid.UUID, start, end time.Time, userID int) ([]models.LoggedSet, error)
	ListTemplates(ctx context.Context, userID int) ([]models.TemplateRow, error)
	GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.TemplateDetail, error)
	QueryWorkouts(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutRow, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: the real storage layer satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
