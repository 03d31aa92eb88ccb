package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

type workoutSetRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	WeightKg   *float64  `json:"weight_kg"`
	Reps       *int      `json:"reps"`
}

type createWorkoutRequest struct {
	TemplateID *uuid.UUID          `json:"template_id"`
	StartedAt  *time.Time          `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at"`
	Notes      string              `json:"notes"`
	Sets       []workoutSetRequest `json:"sets"`
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	for _, set := range req.Sets {
		if set.ExerciseID == uuid.Nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "every set needs an exercise_id"})
			return
		}
		if set.Reps != nil && *set.Reps < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must not be negative"})
			return
		}
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != nil {
		startedAt = req.StartedAt.UTC()
	}

	uid := userIDFromContext(r)
	row := models.WorkoutRow{
		ID:         uuid.New(),
		UserID:     uid,
		TemplateID: req.TemplateID,
		StartedAt:  startedAt,
		FinishedAt: req.FinishedAt,
		Notes:      req.Notes,
	}

	// Set numbers restart per exercise, in request order.
	setNumbers := make(map[uuid.UUID]int)
	sets := make([]models.WorkoutSetRow, 0, len(req.Sets))
	for _, set := range req.Sets {
		setNumbers[set.ExerciseID]++
		sets = append(sets, models.WorkoutSetRow{
			WorkoutID:  row.ID,
			ExerciseID: set.ExerciseID,
			SetNumber:  setNumbers[set.ExerciseID],
			WeightKg:   set.WeightKg,
			Reps:       set.Reps,
		})
	}

	if err := s.db.InsertWorkout(r.Context(), row, sets); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// The new workout is now the latest session for its exercises.
	if s.cache != nil {
		for exerciseID := range setNumbers {
			s.cache.Delete(r.Context(), lastSetsKey(uid, exerciseID))
		}
	}

	writeJSON(w, http.StatusCreated, models.WorkoutDetail{WorkoutRow: row, Sets: sets})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rows, err := s.db.QueryWorkouts(r.Context(), start, end, userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	detail, err := s.db.GetWorkout(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	uid := userIDFromContext(r)

	// Fetch first so the cache entries of affected exercises can be dropped.
	detail, err := s.db.GetWorkout(r.Context(), id, uid)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	if err := s.db.DeleteWorkout(r.Context(), id, uid); err != nil {
		writeStorageError(w, err)
		return
	}

	if s.cache != nil {
		seen := make(map[uuid.UUID]bool)
		for _, set := range detail.Sets {
			if !seen[set.ExerciseID] {
				seen[set.ExerciseID] = true
				s.cache.Delete(r.Context(), lastSetsKey(uid, set.ExerciseID))
			}
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
