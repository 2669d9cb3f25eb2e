package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSession = errors.New("invalid session summary")

// CompletedSet is one finished set. SetNumber is 1-based within its exercise;
// Duration is in seconds with fractional precision.
type CompletedSet struct {
	Name      string  `json:"name"`
	SetNumber int     `json:"set_number"`
	Duration  float64 `json:"duration"`
}

// SessionSummary is the immutable record of one workout, written once to the
// session log. Durations are in seconds. Timestamp is the log time used for
// timeframe queries.
type SessionSummary struct {
	ID            string         `json:"id"`
	DayID         string         `json:"day_id"`
	DayName       string         `json:"day_name,omitempty"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       time.Time      `json:"end_time"`
	Exercises     []CompletedSet `json:"exercises"`
	TotalRestTime float64        `json:"total_rest_time"`
	PausedTime    float64        `json:"paused_time"`
	TotalDuration float64        `json:"total_duration"`
	Timestamp     time.Time      `json:"timestamp"`
}

// LoggedAt returns the log timestamp, falling back to the end time for
// summaries that were never stamped by persistence.
func (s SessionSummary) LoggedAt() time.Time {
	if s.Timestamp.IsZero() {
		return s.EndTime
	}
	return s.Timestamp
}

// Validate checks a summary before it is appended to the log.
func (s SessionSummary) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSession)
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", ErrInvalidSession)
	}
	if s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("%w: end_time before start_time", ErrInvalidSession)
	}
	if s.TotalDuration < 0 || s.TotalRestTime < 0 || s.PausedTime < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidSession)
	}
	for i, set := range s.Exercises {
		if set.Name == "" || set.SetNumber < 1 || set.Duration < 0 {
			return fmt.Errorf("%w: set %d is malformed", ErrInvalidSession, i)
		}
	}
	return nil
}
