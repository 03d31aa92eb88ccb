package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NicolajFoerderer/workout-tracker/internal/models"
	"github.com/NicolajFoerderer/workout-tracker/internal/storage"
	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// Importer loads CSV exports into storage, skipping files the state DB
// has already seen.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	dryRun bool
}

// New creates an Importer. state may be nil, in which case every file is
// processed (dry runs never touch the state DB either way).
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Stats summarizes an import run.
type Stats struct {
	FilesScanned  int
	FilesSkipped  int
	FilesImported int
	Workouts      int
	Sets          int
}

// ImportDir imports every .csv file under dir for the given user.
func (imp *Importer) ImportDir(ctx context.Context, dir string, userID int) (*Stats, error) {
	stats := &Stats{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("reading export dir: %w", err)
	}

	// Exercises repeat across sessions; resolve each name once.
	exerciseIDs := make(map[string]uuid.UUID)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		stats.FilesScanned++

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return stats, fmt.Errorf("stat %s: %w", path, err)
		}
		hash, err := HashFile(path)
		if err != nil {
			return stats, fmt.Errorf("hashing %s: %w", path, err)
		}

		if imp.state != nil {
			imported, err := imp.state.IsImported(entry.Name(), info.Size(), hash)
			if err != nil {
				return stats, fmt.Errorf("checking state for %s: %w", path, err)
			}
			if imported {
				stats.FilesSkipped++
				imp.log.Info("skipping already-imported file", "file", entry.Name())
				continue
			}
		}

		if err := imp.importFile(ctx, path, userID, exerciseIDs, stats); err != nil {
			return stats, err
		}
		stats.FilesImported++

		if imp.state != nil && !imp.dryRun {
			if err := imp.state.MarkImported(entry.Name(), info.Size(), hash); err != nil {
				return stats, fmt.Errorf("marking %s imported: %w", path, err)
			}
		}
	}

	return stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string, userID int, exerciseIDs map[string]uuid.UUID, stats *Stats) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sessions, err := Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, session := range sessions {
		row := models.WorkoutRow{
			ID:        uuid.New(),
			UserID:    userID,
			StartedAt: session.Date,
			Notes:     session.Name,
		}

		var sets []models.WorkoutSetRow
		for _, ex := range session.Exercises {
			exerciseID, err := imp.resolveExercise(ctx, userID, ex.Name, ex.Equipment, exerciseIDs)
			if err != nil {
				return err
			}
			for _, set := range ex.Sets {
				sets = append(sets, models.WorkoutSetRow{
					WorkoutID:  row.ID,
					ExerciseID: exerciseID,
					SetNumber:  set.Number,
					WeightKg:   set.WeightKg,
					Reps:       set.Reps,
				})
			}
		}

		if imp.dryRun {
			imp.log.Info("dry run: would import workout",
				"session", session.Name,
				"date", session.Date.Format(time.DateOnly),
				"sets", len(sets),
			)
		} else if err := imp.db.InsertWorkout(ctx, row, sets); err != nil {
			return fmt.Errorf("inserting workout %s: %w", session.Name, err)
		}

		stats.Workouts++
		stats.Sets += len(sets)
	}

	return nil
}

func (imp *Importer) resolveExercise(ctx context.Context, userID int, name string, equipment suggest.Equipment, cache map[string]uuid.UUID) (uuid.UUID, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	if imp.dryRun {
		// Dry runs must not create catalog rows; a throwaway ID suffices.
		id := uuid.New()
		cache[name] = id
		return id, nil
	}
	id, err := imp.db.GetOrCreateExercise(ctx, userID, name, equipment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving exercise %q: %w", name, err)
	}
	cache[name] = id
	return id, nil
}
