package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/setclock/internal/models"
)

// TestParseID verifies malformed IDs are rejected before reaching Postgres.
func TestParseID(t *testing.T) {
	if _, err := parseID("9b2f8c3e-4d1a-4f6b-8e7c-1a2b3c4d5e6f"); err != nil {
		t.Errorf("valid uuid: unexpected error %v", err)
	}
	if _, err := parseID("day-1"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("error = %v, want ErrInvalidID", err)
	}
}

// TestEncodeNilAsEmptyArray verifies nil slices are stored as [] rather than
// null so JSONB columns always hold an array.
func TestEncodeNilAsEmptyArray(t *testing.T) {
	ex, err := encodeExercises(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(ex) != "[]" {
		t.Errorf("encodeExercises(nil) = %s, want []", ex)
	}
	sets, err := encodeSets(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(sets) != "[]" {
		t.Errorf("encodeSets(nil) = %s, want []", sets)
	}
}

func TestDecodeExercises(t *testing.T) {
	got, err := decodeExercises([]byte(`[{"name":"Squat","type":"sets","count":3},{"name":"Plank","type":"time","duration":60}]`))
	if err != nil {
		t.Fatal(err)
	}
	want := []models.ExerciseDefinition{
		{Name: "Squat", Kind: models.KindSets, Count: 3},
		{Name: "Plank", Kind: models.KindTime, Duration: 60},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d exercises, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("exercise %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	empty, err := decodeExercises(nil)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("decodeExercises(nil) = %v, %v; want empty slice", empty, err)
	}
	if _, err := decodeExercises([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestDecodeSets(t *testing.T) {
	got, err := decodeSets([]byte(`[{"name":"Squat","set_number":1,"duration":31.5}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Duration != 31.5 || got[0].SetNumber != 1 {
		t.Errorf("decodeSets = %+v", got)
	}
}

func TestStampTime(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	if got := stampTime(time.Time{}, now); !got.Equal(now) {
		t.Errorf("stampTime(zero) = %v, want %v", got, now)
	}
	set := now.Add(-time.Hour)
	if got := stampTime(set, now); !got.Equal(set) {
		t.Errorf("stampTime(set) = %v, want %v", got, set)
	}
}

// TestPoolConfig verifies the single-user pool limits and the DSN override.
func TestPoolConfig(t *testing.T) {
	cfg, err := poolConfig("postgres://u:p@localhost:5432/setclock?sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxConns != defaultMaxConns {
		t.Errorf("MaxConns = %d, want %d", cfg.MaxConns, defaultMaxConns)
	}
	if cfg.HealthCheckPeriod != healthCheckPeriod || cfg.MaxConnIdleTime != maxConnIdleTime {
		t.Errorf("health = %v idle = %v", cfg.HealthCheckPeriod, cfg.MaxConnIdleTime)
	}

	cfg, err = poolConfig("postgres://u:p@localhost:5432/setclock?sslmode=disable&pool_max_conns=10")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxConns != 10 {
		t.Errorf("MaxConns = %d, want DSN value 10", cfg.MaxConns)
	}

	if _, err := poolConfig("postgres://u:p@localhost:notaport/x"); err == nil {
		t.Error("expected error for bad dsn")
	}
}
