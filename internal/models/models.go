// Package models holds the row types shared between storage and the HTTP
// and MCP surfaces.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// ExerciseRow is a row in the exercises table.
type ExerciseRow struct {
	ID        uuid.UUID         `json:"id"`
	UserID    int               `json:"-"`
	Name      string            `json:"name"`
	Equipment suggest.Equipment `json:"equipment"`
	CreatedAt time.Time         `json:"created_at"`
}

// TemplateRow is a row in the templates table.
type TemplateRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateExerciseRow is one ordered entry of a workout template.
type TemplateExerciseRow struct {
	TemplateID uuid.UUID `json:"-"`
	Position   int       `json:"position"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	TargetSets int       `json:"target_sets"`
	TargetReps int       `json:"target_reps"`
	TargetRIR  int       `json:"target_rir"`
}

// TemplateDetail is a template with its ordered exercises.
type TemplateDetail struct {
	TemplateRow
	Exercises []TemplateExerciseRow `json:"exercises"`
}

// WorkoutRow is a row in the workouts table. TemplateID is nil for free
// workouts logged without a template.
type WorkoutRow struct {
	ID         uuid.UUID  `json:"id"`
	UserID     int        `json:"-"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// WorkoutSetRow is a row in the workout_sets table. Weight and reps are
// independently optional: either may be left unentered.
type WorkoutSetRow struct {
	WorkoutID  uuid.UUID `json:"-"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	WeightKg   *float64  `json:"weight_kg"`
	Reps       *int      `json:"reps"`
}

// WorkoutDetail is a workout with all its sets.
type WorkoutDetail struct {
	WorkoutRow
	Sets []WorkoutSetRow `json:"sets"`
}

// LoggedSet is a workout set joined with its workout's start time, the
// shape history queries return for progress trends.
type LoggedSet struct {
	StartedAt time.Time `json:"started_at"`
	SetNumber int       `json:"set_number"`
	WeightKg  *float64  `json:"weight_kg"`
	Reps      *int      `json:"reps"`
}
