package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeSource struct {
	days     map[string]models.WorkoutDay
	sessions []models.SessionSummary
	since    time.Time
	err      error
}

func (f *fakeSource) ListWorkoutDays(context.Context) (map[string]models.WorkoutDay, error) {
	return f.days, f.err
}

func (f *fakeSource) QuerySessionSummaries(_ context.Context, since time.Time) ([]models.SessionSummary, error) {
	f.since = since
	return f.sessions, f.err
}

var testNow = time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, loc: time.UTC, now: func() time.Time { return testNow }, log: slog.New(slog.DiscardHandler)}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", res.Content[0])
	return ""
}

func session(id, day string, total float64, names ...string) models.SessionSummary {
	s := models.SessionSummary{ID: id, DayName: day, TotalDuration: total, Timestamp: testNow.Add(-time.Hour)}
	for i, n := range names {
		s.Exercises = append(s.Exercises, models.CompletedSet{Name: n, SetNumber: i + 1, Duration: 30})
	}
	return s
}

// TestSinceFor verifies timeframe and explicit since resolution.
func TestSinceFor(t *testing.T) {
	h := newTestHandlers(&fakeSource{})

	since, tf, err := h.sinceFor("weekly", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tf != "weekly" || !since.Equal(testNow.AddDate(0, 0, -7)) {
		t.Errorf("weekly = %v %q", since, tf)
	}

	since, _, err = h.sinceFor("weekly", "2026-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !since.Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since = %v, want 2026-07-01", since)
	}

	since, _, err = h.sinceFor("", "2026-07-01T06:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if since.Hour() != 6 || since.Minute() != 30 {
		t.Errorf("since = %v, want 06:30", since)
	}

	if _, _, err := h.sinceFor("yearly", ""); err == nil {
		t.Error("expected error for unknown timeframe")
	}
	if _, _, err := h.sinceFor("", "not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestFilterSessions verifies day and exercise filters combine.
func TestFilterSessions(t *testing.T) {
	sessions := []models.SessionSummary{
		session("a", "Legs", 100, "Back Squat", "Lunge"),
		session("b", "Push", 100, "Bench Press"),
		session("c", "legs", 100, "Lunge"),
	}

	if got := filterSessions(sessions, "", ""); len(got) != 3 {
		t.Errorf("no filter: got %d, want 3", len(got))
	}
	if got := filterSessions(sessions, "LEGS", ""); len(got) != 2 {
		t.Errorf("day filter: got %d, want 2", len(got))
	}
	got := filterSessions(sessions, "legs", "squat")
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("day+exercise filter = %+v, want only a", got)
	}
}

// TestGetStatisticsTool verifies the tool computes over the requested window.
func TestGetStatisticsTool(t *testing.T) {
	ds := &fakeSource{sessions: []models.SessionSummary{
		session("short", "Legs", 300, "Squat"),
		session("long", "Legs", 600, "Squat", "Squat", "Lunge"),
	}}
	h := newTestHandlers(ds)

	res, err := h.getStatistics(context.Background(), toolRequest(map[string]any{"timeframe": "monthly"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if want := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC); !ds.since.Equal(want) {
		t.Errorf("since = %v, want %v", ds.since, want)
	}

	var got struct {
		Timeframe            string `json:"timeframe"`
		TotalWorkouts        int    `json:"total_workouts"`
		MostFrequentExercise *struct {
			Name      string `json:"name"`
			TotalSets int    `json:"total_sets"`
		} `json:"most_frequent_exercise"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Timeframe != "monthly" || got.TotalWorkouts != 2 {
		t.Errorf("stats = %+v", got)
	}
	if got.MostFrequentExercise == nil || got.MostFrequentExercise.Name != "Squat" || got.MostFrequentExercise.TotalSets != 3 {
		t.Errorf("most frequent = %+v, want Squat x3", got.MostFrequentExercise)
	}
}

// TestToolQueryFailure verifies data source errors become tool errors, not protocol errors.
func TestToolQueryFailure(t *testing.T) {
	h := newTestHandlers(&fakeSource{err: errors.New("server unreachable")})

	res, err := h.getSessions(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error result")
	}

	res, err = h.getStatistics(context.Background(), toolRequest(map[string]any{"timeframe": "hourly"}))
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for invalid timeframe")
	}
}

// TestRecentSessionsResource verifies the resource reads the last two weeks.
func TestRecentSessionsResource(t *testing.T) {
	ds := &fakeSource{sessions: []models.SessionSummary{session("a", "Legs", 100, "Squat")}}
	h := newTestHandlers(ds)

	var req mcp.ReadResourceRequest
	req.Params.URI = "setclock://recent_sessions"
	contents, err := h.recentSessions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if want := testNow.AddDate(0, 0, -14); !ds.since.Equal(want) {
		t.Errorf("since = %v, want %v", ds.since, want)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type %T", contents[0])
	}
	var got []models.SessionSummary
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("sessions = %+v", got)
	}
}

// TestNewRegistersTools verifies the server can be constructed with either backend.
func TestNewRegistersTools(t *testing.T) {
	if s := New(&fakeSource{}, nil, "test", slog.New(slog.DiscardHandler)); s == nil {
		t.Fatal("New returned nil")
	}
}
