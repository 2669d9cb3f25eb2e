package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/setclock/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListWorkoutDays returns every day keyed by ID.
func (db *DB) ListWorkoutDays(ctx context.Context) (map[string]models.WorkoutDay, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, exercises FROM workout_days ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout days: %w", err)
	}
	defer rows.Close()

	days := make(map[string]models.WorkoutDay)
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days[day.ID] = day
	}
	return days, rows.Err()
}

// GetWorkoutDay returns a single day.
func (db *DB) GetWorkoutDay(ctx context.Context, id string) (models.WorkoutDay, error) {
	uid, err := parseID(id)
	if err != nil {
		return models.WorkoutDay{}, err
	}
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, exercises FROM workout_days WHERE id = $1`, uid)
	day, err := scanDay(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkoutDay{}, fmt.Errorf("workout day %s: %w", id, ErrNotFound)
	}
	return day, err
}

// CreateWorkoutDay inserts a day and returns its new ID.
func (db *DB) CreateWorkoutDay(ctx context.Context, day models.WorkoutDay) (string, error) {
	exercises, err := encodeExercises(day.Exercises)
	if err != nil {
		return "", err
	}
	id := uuid.New()
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_days (id, name, exercises) VALUES ($1, $2, $3)`,
		id, day.Name, exercises)
	if err != nil {
		return "", fmt.Errorf("inserting workout day: %w", err)
	}
	return id.String(), nil
}

// UpdateWorkoutDay replaces the name and exercises of an existing day.
func (db *DB) UpdateWorkoutDay(ctx context.Context, id string, day models.WorkoutDay) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	exercises, err := encodeExercises(day.Exercises)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_days SET name = $2, exercises = $3, updated_at = NOW() WHERE id = $1`,
		uid, day.Name, exercises)
	if err != nil {
		return fmt.Errorf("updating workout day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout day %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteWorkoutDay removes a day. Logged sessions that reference it are kept.
func (db *DB) DeleteWorkoutDay(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_days WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("deleting workout day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout day %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanDay(row pgx.Row) (models.WorkoutDay, error) {
	var (
		id  uuid.UUID
		day models.WorkoutDay
		raw []byte
	)
	if err := row.Scan(&id, &day.Name, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return day, err
		}
		return day, fmt.Errorf("scanning workout day: %w", err)
	}
	day.ID = id.String()
	exercises, err := decodeExercises(raw)
	if err != nil {
		return day, fmt.Errorf("workout day %s: %w", day.ID, err)
	}
	day.Exercises = exercises
	return day, nil
}

func encodeExercises(exercises []models.ExerciseDefinition) ([]byte, error) {
	if exercises == nil {
		exercises = []models.ExerciseDefinition{}
	}
	data, err := json.Marshal(exercises)
	if err != nil {
		return nil, fmt.Errorf("encoding exercises: %w", err)
	}
	return data, nil
}

func decodeExercises(raw []byte) ([]models.ExerciseDefinition, error) {
	exercises := []models.ExerciseDefinition{}
	if len(raw) == 0 {
		return exercises, nil
	}
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	return exercises, nil
}
