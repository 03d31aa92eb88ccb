package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/progress"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// defaultTimeRange returns start/end defaulting to the last 90 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -90)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// findExercise resolves an exercise by case-insensitive substring match.
// An exact match wins over a partial one.
func (h *handlers) findExercise(ctx context.Context, name string, userID int) (*models.ExerciseRow, error) {
	exercises, err := h.ds.ListExercises(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	var partial *models.ExerciseRow
	for i, ex := range exercises {
		lower := strings.ToLower(ex.Name)
		if lower == needle {
			return &exercises[i], nil
		}
		if partial == nil && strings.Contains(lower, needle) {
			partial = &exercises[i]
		}
	}
	if partial == nil {
		return nil, fmt.Errorf("no exercise matching %q", name)
	}
	return partial, nil
}

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the user's exercise catalog with equipment type (barbell, dumbbell, cable, machine, bodyweight, other)."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List workout templates (ordered exercise lists with target sets/reps/RIR)."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query logged workouts in a date range. Returns workout summaries with start/finish times and notes."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Per-session progress trend for an exercise: best estimated 1RM (Epley), best reps, and top weight per workout."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'bench press')")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolSuggestWeight = mcp.NewTool("suggest_weight",
	mcp.WithDescription("Compute the suggested working weight for the next session of an exercise, based on the most recent recorded sets (double progression: +2.5% once the target reps are hit on every set, rounded to the equipment increment)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match)")),
	mcp.WithString("target_reps", mcp.Required(), mcp.Description("Target rep count for the exercise's sets")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Aggregate statistics: total workouts, sets, exercises, templates, lifetime tonnage, and first/last workout dates."),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	exercises, err := h.ds.ListExercises(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	templates, err := h.ds.ListTemplates(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	details := make([]models.TemplateDetail, 0, len(templates))
	for _, t := range templates {
		detail, err := h.ds.GetTemplate(ctx, t.ID, uid)
		if err != nil {
			h.log.Error("mcp list_templates detail", "template", t.ID, "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		details = append(details, *detail)
	}

	result, err := mcp.NewToolResultJSON(details)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	uid := UserIDFromContext(ctx)

	workouts, err := h.ds.QueryWorkouts(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	uid := UserIDFromContext(ctx)

	exercise, err := h.findExercise(ctx, name, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sets, err := h.ds.ExerciseHistory(ctx, exercise.ID, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercise": exercise,
		"trend":    progress.Trend(sets),
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) suggestWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	targetStr, err := req.RequireString("target_reps")
	if err != nil {
		return mcp.NewToolResultError("target_reps parameter is required"), nil
	}
	targetReps, err := strconv.Atoi(targetStr)
	if err != nil || targetReps < 0 {
		return mcp.NewToolResultError("target_reps must be a non-negative integer"), nil
	}
	uid := UserIDFromContext(ctx)

	exercise, err := h.findExercise(ctx, name, uid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prev, err := h.ds.LastExerciseSets(ctx, exercise.ID, uid)
	if err != nil {
		h.log.Error("mcp suggest_weight", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	payload := map[string]any{
		"exercise":    exercise.Name,
		"equipment":   exercise.Equipment,
		"target_reps": targetReps,
	}
	if sug := suggest.Next(prev, targetReps, exercise.Equipment); sug != nil {
		payload["suggestion"] = map[string]any{
			"weight_kg":   sug.Weight,
			"display":     suggest.FormatWeight(sug.Weight),
			"is_increase": sug.IsIncrease,
		}
	} else {
		payload["suggestion"] = nil
		payload["reason"] = "no usable previous sets, or bodyweight exercise"
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return nil, err
	}
	return result, nil
}
