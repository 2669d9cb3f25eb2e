package models

import (
	"errors"
	"fmt"
)

// ExerciseKind selects how an exercise target is measured.
type ExerciseKind string

const (
	KindSets ExerciseKind = "sets"
	KindTime ExerciseKind = "time"
)

var (
	ErrInvalidDay      = errors.New("invalid workout day")
	ErrInvalidExercise = errors.New("invalid exercise")
)

// ExerciseDefinition is one entry of a day. Count is meaningful for KindSets,
// Duration (seconds) for KindTime.
type ExerciseDefinition struct {
	Name     string       `json:"name"`
	Kind     ExerciseKind `json:"type"`
	Count    int          `json:"count,omitempty"`
	Duration int          `json:"duration,omitempty"`
}

// Validate checks that the kind and its target field agree.
func (e ExerciseDefinition) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidExercise)
	}
	switch e.Kind {
	case KindSets:
		if e.Count <= 0 {
			return fmt.Errorf("%w: %s: count must be positive", ErrInvalidExercise, e.Name)
		}
		if e.Duration != 0 {
			return fmt.Errorf("%w: %s: sets exercise cannot have a duration", ErrInvalidExercise, e.Name)
		}
	case KindTime:
		if e.Duration <= 0 {
			return fmt.Errorf("%w: %s: duration must be positive", ErrInvalidExercise, e.Name)
		}
		if e.Count != 0 {
			return fmt.Errorf("%w: %s: time exercise cannot have a count", ErrInvalidExercise, e.Name)
		}
	default:
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidExercise, e.Name, e.Kind)
	}
	return nil
}

// Target renders the exercise goal, e.g. "3 sets" or "90s".
func (e ExerciseDefinition) Target() string {
	if e.Kind == KindTime {
		return fmt.Sprintf("%ds", e.Duration)
	}
	return fmt.Sprintf("%d sets", e.Count)
}

// WorkoutDay is a named, ordered routine of exercises. ID is assigned by persistence.
type WorkoutDay struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Exercises []ExerciseDefinition `json:"exercises"`
}

// Validate checks the day name and every exercise. An empty exercise list is
// allowed so a freshly created day can be filled in later.
func (d WorkoutDay) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDay)
	}
	for i, e := range d.Exercises {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("exercise %d: %w", i+1, err)
		}
	}
	return nil
}
