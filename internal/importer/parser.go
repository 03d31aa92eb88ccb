// Package importer reads workout-history CSV exports and loads them into
// storage. Exports are session blocks separated by blank lines: a quoted
// session header, then per exercise a quoted header line followed by one
// semicolon-separated line per set.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NicolajFoerderer/workout-tracker/internal/suggest"
)

// Session is one parsed workout session.
type Session struct {
	Name      string
	Date      time.Time
	Exercises []Exercise
}

// Exercise is a single exercise within a session.
type Exercise struct {
	Number     int
	Name       string
	Equipment  suggest.Equipment
	TargetReps int
	Sets       []Set
}

// Set is a single recorded set. Weight and reps are optional: exports
// leave the field empty when the lifter did not enter a value.
type Set struct {
	Number   int
	WeightKg *float64
	Reps     *int
}

var (
	// sessionHeaderRe matches: "Push Day";"2026-02-19 17:30"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)"$`)

	// exerciseHeaderRe matches: "1. Bench Press · barbell · 8 reps"
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)\s+·\s+(\S+)\s+·\s+(\d+)\s+reps"$`)

	// setDataRe matches: 1;60;8 — weight and reps may be empty
	setDataRe = regexp.MustCompile(`^(\d+);([^;]*);([^;]*)$`)

	// columnHeaderRe matches: #;KG;REPS
	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS$`)
)

// Parse reads a CSV export and returns the parsed sessions.
func Parse(r io.Reader) ([]Session, error) {
	scanner := bufio.NewScanner(r)
	var sessions []Session
	var current *Session
	var currentExercise *Exercise

	flushExercise := func() {
		if current != nil && currentExercise != nil {
			current.Exercises = append(current.Exercises, *currentExercise)
			currentExercise = nil
		}
	}
	flushSession := func() {
		flushExercise()
		if current != nil {
			sessions = append(sessions, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Blank line = session boundary
		if line == "" {
			flushSession()
			continue
		}

		// Skip column headers
		if columnHeaderRe.MatchString(line) {
			continue
		}

		// Try session header
		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			flushSession()
			date, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("parsing session date %q: %w", m[2], err)
			}
			current = &Session{Name: m[1], Date: date}
			continue
		}

		// Try exercise header
		if m := exerciseHeaderRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("exercise without session: %q", line)
			}
			flushExercise()
			num, _ := strconv.Atoi(m[1])
			targetReps, _ := strconv.Atoi(m[4])

			equipment := suggest.Equipment(strings.ToLower(m[3]))
			if !equipment.Valid() {
				equipment = suggest.EquipmentOther
			}

			currentExercise = &Exercise{
				Number:     num,
				Name:       strings.TrimSpace(m[2]),
				Equipment:  equipment,
				TargetReps: targetReps,
			}
			continue
		}

		// Try set data
		if m := setDataRe.FindStringSubmatch(line); m != nil {
			if currentExercise == nil {
				return nil, fmt.Errorf("set data without exercise: %q", line)
			}
			setNum, _ := strconv.Atoi(m[1])
			currentExercise.Sets = append(currentExercise.Sets, Set{
				Number:   setNum,
				WeightKg: parseOptionalWeight(m[2]),
				Reps:     parseOptionalInt(m[3]),
			})
			continue
		}

		// Unknown line — skip silently (could be notes or other metadata)
	}

	flushSession()
	return sessions, scanner.Err()
}

// parseSessionDate parses "2026-02-19 17:30" into a time.Time.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseOptionalWeight handles empty fields and European decimals.
// "" and "-" mean "not entered"; "102,5" -> 102.5.
func parseOptionalWeight(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
