package session

import (
	"slices"
	"time"

	"github.com/claude/setclock/internal/models"
)

// Snapshot is the presentation view of the engine at one instant.
type Snapshot struct {
	Phase   Phase
	Paused  bool
	Pending Confirmation

	DayID         string
	DayName       string
	ExerciseIndex int
	ExerciseCount int
	// Exercise is the exercise the next set belongs to; nil once completed.
	Exercise *models.ExerciseDefinition
	// SetNumber is the 1-based number of the running or next set.
	SetNumber int

	SetElapsed  time.Duration
	RestElapsed time.Duration
	TotalRest   time.Duration
	Elapsed     time.Duration // session time excluding pauses

	Sets    []models.CompletedSet
	Summary *models.SessionSummary
	Saved   bool
}

// Snapshot captures the current state for rendering.
func (e *Engine) Snapshot() Snapshot {
	now := e.clock.Now()
	snap := Snapshot{
		Phase:         e.phase,
		Paused:        e.paused,
		Pending:       e.pending,
		DayID:         e.day.ID,
		DayName:       e.day.Name,
		ExerciseIndex: e.exerciseIdx,
		ExerciseCount: len(e.day.Exercises),
		SetNumber:     len(e.sets) - e.firstSet + 1,
		SetElapsed:    e.setElapsed(now),
		RestElapsed:   e.restElapsed(now),
		TotalRest:     e.totalRest,
		Sets:          slices.Clone(e.sets),
	}

	if e.phase != Idle && e.phase != Completed {
		ex := e.day.Exercises[e.exerciseIdx]
		snap.Exercise = &ex
		pausedNow := e.totalPaused
		if e.paused {
			pausedNow += now.Sub(e.pausedAt)
		}
		snap.Elapsed = max(now.Sub(e.startTime)-pausedNow, 0)
	}

	if s, ok := e.Summary(); ok {
		snap.Summary = &s
		snap.DayName = s.DayName
		snap.Saved = e.Saved()
		snap.Elapsed = time.Duration(s.TotalDuration * float64(time.Second))
	}
	return snap
}
