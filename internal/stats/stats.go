// Package stats reduces session logs into summary statistics. It never talks
// to persistence; callers pass summaries already filtered to a timeframe.
package stats

import (
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/timeutil"
)

// ExerciseAggregate summarizes one exercise across sessions. Durations are in seconds.
type ExerciseAggregate struct {
	TotalSets          int     `json:"total_sets"`
	TotalDuration      float64 `json:"total_duration"`
	AverageSetDuration float64 `json:"average_set_duration"`
}

// DayAggregate summarizes the sessions logged on one local calendar date.
type DayAggregate struct {
	Workouts      int     `json:"workouts"`
	TotalDuration float64 `json:"total_duration"`
}

// FrequentExercise names the exercise with the most sets.
type FrequentExercise struct {
	Name      string `json:"name"`
	TotalSets int    `json:"total_sets"`
}

// Statistics is the derived view over a timeframe of session logs.
type Statistics struct {
	Timeframe              timeutil.Timeframe           `json:"timeframe,omitempty"`
	TotalWorkouts          int                          `json:"total_workouts"`
	TotalTime              float64                      `json:"total_time"`
	TotalRestTime          float64                      `json:"total_rest_time"`
	AverageWorkoutDuration float64                      `json:"average_workout_duration"`
	ExerciseStats          map[string]ExerciseAggregate `json:"exercise_stats"`
	DailyStats             map[string]DayAggregate      `json:"daily_stats"`
	BestWorkout            *models.SessionSummary       `json:"best_workout"`
	MostFrequentExercise   *FrequentExercise            `json:"most_frequent_exercise"`
}

// DateKey is the layout of DailyStats keys.
const DateKey = "2006-01-02"

// Compute aggregates summaries (most recent first) in a single pass. Daily
// buckets use the calendar date of each summary's log time in loc; a nil loc
// means time.Local.
func Compute(summaries []models.SessionSummary, loc *time.Location) Statistics {
	if loc == nil {
		loc = time.Local
	}

	st := Statistics{
		TotalWorkouts: len(summaries),
		ExerciseStats: make(map[string]ExerciseAggregate),
		DailyStats:    make(map[string]DayAggregate),
	}

	var order []string
	bestIdx := -1
	for i, s := range summaries {
		st.TotalTime += s.TotalDuration
		st.TotalRestTime += s.TotalRestTime

		for _, set := range s.Exercises {
			agg, seen := st.ExerciseStats[set.Name]
			if !seen {
				order = append(order, set.Name)
			}
			agg.TotalSets++
			agg.TotalDuration += set.Duration
			st.ExerciseStats[set.Name] = agg
		}

		key := s.LoggedAt().In(loc).Format(DateKey)
		day := st.DailyStats[key]
		day.Workouts++
		day.TotalDuration += s.TotalDuration
		st.DailyStats[key] = day

		if bestIdx < 0 || s.TotalDuration > summaries[bestIdx].TotalDuration {
			bestIdx = i
		}
	}

	if len(summaries) == 0 {
		return st
	}

	st.AverageWorkoutDuration = st.TotalTime / float64(len(summaries))
	for name, agg := range st.ExerciseStats {
		agg.AverageSetDuration = average(agg.TotalDuration, agg.TotalSets)
		st.ExerciseStats[name] = agg
	}

	for _, name := range order {
		sets := st.ExerciseStats[name].TotalSets
		if st.MostFrequentExercise == nil || sets > st.MostFrequentExercise.TotalSets {
			st.MostFrequentExercise = &FrequentExercise{Name: name, TotalSets: sets}
		}
	}

	best := summaries[bestIdx]
	st.BestWorkout = &best
	return st
}

// SetStats is the per-exercise breakdown shown on a finished session.
type SetStats struct {
	Name            string  `json:"name"`
	Sets            int     `json:"sets"`
	TotalDuration   float64 `json:"total_duration"`
	AverageDuration float64 `json:"average_duration"`
}

// ExerciseStats groups completed sets by exercise name, in first-seen order.
func ExerciseStats(sets []models.CompletedSet) []SetStats {
	index := make(map[string]int)
	var out []SetStats
	for _, set := range sets {
		i, ok := index[set.Name]
		if !ok {
			i = len(out)
			index[set.Name] = i
			out = append(out, SetStats{Name: set.Name})
		}
		out[i].Sets++
		out[i].TotalDuration += set.Duration
	}
	for i := range out {
		out[i].AverageDuration = average(out[i].TotalDuration, out[i].Sets)
	}
	return out
}

func average(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
