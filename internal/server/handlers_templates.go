package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
)

type templateExerciseRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	TargetSets int       `json:"target_sets"`
	TargetReps int       `json:"target_reps"`
	TargetRIR  int       `json:"target_rir"`
}

type createTemplateRequest struct {
	Name      string                    `json:"name"`
	Exercises []templateExerciseRequest `json:"exercises"`
}

func validateTemplateExercises(exercises []templateExerciseRequest) string {
	for _, ex := range exercises {
		if ex.ExerciseID == uuid.Nil {
			return "exercise_id is required"
		}
		if ex.TargetSets <= 0 || ex.TargetReps <= 0 {
			return "target_sets and target_reps must be positive"
		}
		if ex.TargetRIR < 0 {
			return "target_rir must not be negative"
		}
	}
	return ""
}

func toTemplateExerciseRows(templateID uuid.UUID, exercises []templateExerciseRequest) []models.TemplateExerciseRow {
	rows := make([]models.TemplateExerciseRow, 0, len(exercises))
	for i, ex := range exercises {
		rows = append(rows, models.TemplateExerciseRow{
			TemplateID: templateID,
			Position:   i + 1,
			ExerciseID: ex.ExerciseID,
			TargetSets: ex.TargetSets,
			TargetReps: ex.TargetReps,
			TargetRIR:  ex.TargetRIR,
		})
	}
	return rows
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if len(req.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one exercise is required"})
		return
	}
	if msg := validateTemplateExercises(req.Exercises); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	row := models.TemplateRow{
		ID:        uuid.New(),
		UserID:    userIDFromContext(r),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now().UTC(),
	}
	exercises := toTemplateExerciseRows(row.ID, req.Exercises)

	if err := s.db.InsertTemplate(r.Context(), row, exercises); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, models.TemplateDetail{TemplateRow: row, Exercises: exercises})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.ListTemplates(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	detail, err := s.db.GetTemplate(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateTemplateRequest struct {
	Exercises []templateExerciseRequest `json:"exercises"`
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req updateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one exercise is required"})
		return
	}
	if msg := validateTemplateExercises(req.Exercises); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	uid := userIDFromContext(r)
	if err := s.db.ReplaceTemplateExercises(r.Context(), id, uid, toTemplateExerciseRows(id, req.Exercises)); err != nil {
		writeStorageError(w, err)
		return
	}

	detail, err := s.db.GetTemplate(r.Context(), id, uid)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteTemplate(r.Context(), id, userIDFromContext(r)); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
