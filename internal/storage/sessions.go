package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/google/uuid"
)

// SaveSessionSummary appends a finished session to the log. A zero Timestamp
// is stamped with the server time. Saving the same ID twice is a no-op so
// client retries cannot duplicate a session.
func (db *DB) SaveSessionSummary(ctx context.Context, s models.SessionSummary) error {
	uid, err := parseID(s.ID)
	if err != nil {
		return err
	}
	sets, err := encodeSets(s.Exercises)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO session_logs (id, day_id, day_name, start_time, end_time, sets,
		 total_rest_sec, paused_sec, total_duration_sec, logged_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO NOTHING`,
		uid, s.DayID, s.DayName, s.StartTime, s.EndTime, sets,
		s.TotalRestTime, s.PausedTime, s.TotalDuration, stampTime(s.Timestamp, time.Now()))
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}

// QuerySessionSummaries returns sessions logged at or after since, most recent first.
func (db *DB) QuerySessionSummaries(ctx context.Context, since time.Time) ([]models.SessionSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, day_id, day_name, start_time, end_time, sets,
		 total_rest_sec, paused_sec, total_duration_sec, logged_at
		 FROM session_logs
		 WHERE logged_at >= $1
		 ORDER BY logged_at DESC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("querying session logs: %w", err)
	}
	defer rows.Close()

	result := []models.SessionSummary{}
	for rows.Next() {
		var (
			id  uuid.UUID
			s   models.SessionSummary
			raw []byte
		)
		if err := rows.Scan(&id, &s.DayID, &s.DayName, &s.StartTime, &s.EndTime, &raw,
			&s.TotalRestTime, &s.PausedTime, &s.TotalDuration, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning session log: %w", err)
		}
		s.ID = id.String()
		if s.Exercises, err = decodeSets(raw); err != nil {
			return nil, fmt.Errorf("session log %s: %w", s.ID, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// DeleteSessionSummary removes a logged session.
func (db *DB) DeleteSessionSummary(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM session_logs WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("deleting session log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func stampTime(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}

func encodeSets(sets []models.CompletedSet) ([]byte, error) {
	if sets == nil {
		sets = []models.CompletedSet{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("encoding sets: %w", err)
	}
	return data, nil
}

func decodeSets(raw []byte) ([]models.CompletedSet, error) {
	sets := []models.CompletedSet{}
	if len(raw) == 0 {
		return sets, nil
	}
	if err := json.Unmarshal(raw, &sets); err != nil {
		return nil, fmt.Errorf("decoding sets: %w", err)
	}
	return sets, nil
}
