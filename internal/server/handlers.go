package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/progress"
	"github.com/NicolajFoerderer/workout-tracker/internal/storage"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type createExerciseRequest struct {
	Name      string            `json:"name"`
	Equipment suggest.Equipment `json:"equipment"`
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req createExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if !req.Equipment.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown equipment %q", req.Equipment)})
		return
	}

	row := models.ExerciseRow{
		ID:        uuid.New(),
		UserID:    userIDFromContext(r),
		Name:      strings.TrimSpace(req.Name),
		Equipment: req.Equipment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.InsertExercise(r.Context(), row); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.ListExercises(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	row, err := s.db.GetExercise(r.Context(), id, userIDFromContext(r))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteExercise(r.Context(), id, userIDFromContext(r)); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// suggestionResponse is the pre-fill payload for the next session of an
// exercise. Suggestion is null when the engine has nothing to go on.
type suggestionResponse struct {
	Suggestion *suggestionPayload `json:"suggestion"`
}

type suggestionPayload struct {
	WeightKg   float64 `json:"weight_kg"`
	Display    string  `json:"display"`
	IsIncrease bool    `json:"is_increase"`
}

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	targetStr := r.URL.Query().Get("target_reps")
	targetReps, err := strconv.Atoi(targetStr)
	if err != nil || targetReps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_reps must be a non-negative integer"})
		return
	}

	uid := userIDFromContext(r)
	exercise, err := s.db.GetExercise(r.Context(), id, uid)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	prev, err := s.lastSets(r, id, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := suggestionResponse{}
	if sug := suggest.Next(prev, targetReps, exercise.Equipment); sug != nil {
		resp.Suggestion = &suggestionPayload{
			WeightKg:   sug.Weight,
			Display:    suggest.FormatWeight(sug.Weight),
			IsIncrease: sug.IsIncrease,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// lastSets fetches the previous session's sets for an exercise, going
// through the cache when one is configured.
func (s *Server) lastSets(r *http.Request, exerciseID uuid.UUID, uid int) ([]suggest.PreviousSet, error) {
	key := lastSetsKey(uid, exerciseID)
	if s.cache != nil {
		if raw, ok := s.cache.Get(r.Context(), key); ok {
			var cached []suggest.PreviousSet
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.cache.Delete(r.Context(), key)
		}
	}

	prev, err := s.db.LastExerciseSets(r.Context(), exerciseID, uid)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(prev); err == nil {
			s.cache.Set(r.Context(), key, string(raw), s.cacheTTL)
		}
	}
	return prev, nil
}

func lastSetsKey(uid int, exerciseID uuid.UUID) string {
	return fmt.Sprintf("lastsets:%d:%s", uid, exerciseID)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	uid := userIDFromContext(r)
	if _, err := s.db.GetExercise(r.Context(), id, uid); err != nil {
		writeStorageError(w, err)
		return
	}

	sets, err := s.db.ExerciseHistory(r.Context(), id, start, end, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, progress.Trend(sets))
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 90 days
		end = time.Now()
		start = end.AddDate(0, 0, -90)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
