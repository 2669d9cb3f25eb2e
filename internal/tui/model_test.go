package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/session"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

type memStore struct {
	err   error
	saved []models.SessionSummary
}

func (m *memStore) SaveSessionSummary(_ context.Context, s models.SessionSummary) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

type memQueue struct {
	err    error
	queued []models.SessionSummary
}

func (q *memQueue) Add(_ context.Context, s models.SessionSummary, _ error) error {
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, s)
	return nil
}

var testDays = map[string]models.WorkoutDay{
	"b": {ID: "b", Name: "Push", Exercises: []models.ExerciseDefinition{
		{Name: "Bench", Kind: models.KindSets, Count: 1},
	}},
	"a": {ID: "a", Name: "Legs", Exercises: []models.ExerciseDefinition{
		{Name: "Squat", Kind: models.KindSets, Count: 2},
		{Name: "Lunge", Kind: models.KindSets, Count: 1},
	}},
}

type fixture struct {
	clock *stepClock
	store *memStore
	queue *memQueue
	m     Model
}

func newFixture() *fixture {
	f := &fixture{
		clock: &stepClock{now: time.Date(2026, 8, 1, 7, 0, 0, 0, time.UTC)},
		store: &memStore{},
		queue: &memQueue{},
	}
	engine := session.New(f.store, session.WithClock(f.clock))
	f.m = NewModel(engine, testDays, f.queue, nil)
	return f
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// send feeds msg to the model and runs any returned command once, feeding its
// message back. tea.Quit is not followed.
func (f *fixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	next, cmd := f.m.Update(msg)
	f.m = next.(Model)
	for cmd != nil {
		out := cmd()
		if _, ok := out.(tea.QuitMsg); ok || out == nil {
			return
		}
		next, cmd = f.m.Update(out)
		f.m = next.(Model)
	}
}

func (f *fixture) set(t *testing.T, d time.Duration) {
	t.Helper()
	f.send(t, runeKey('s'))
	f.clock.now = f.clock.now.Add(d)
	f.send(t, runeKey('s'))
}

// TestDaysSortedByName verifies the picker lists days alphabetically.
func TestDaysSortedByName(t *testing.T) {
	f := newFixture()
	if f.m.days[0].Name != "Legs" || f.m.days[1].Name != "Push" {
		t.Errorf("days = %v", f.m.days)
	}
	if !strings.Contains(f.m.View(), "> Legs (2 exercises)") {
		t.Errorf("view missing cursor on Legs:\n%s", f.m.View())
	}
}

// TestPreselect verifies a day can be chosen by name before the program starts.
func TestPreselect(t *testing.T) {
	f := newFixture()
	m := f.m.Preselect("Push")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

// TestFullWorkoutSaves walks a day to completion and checks the save.
func TestFullWorkoutSaves(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if f.m.screen != screenWorkout {
		t.Fatalf("screen = %d, want workout", f.m.screen)
	}

	f.set(t, 30*time.Second)
	f.send(t, runeKey('r'))
	f.clock.now = f.clock.now.Add(60 * time.Second)
	f.set(t, 35*time.Second)
	if snap := f.m.engine.Snapshot(); snap.Exercise == nil || snap.Exercise.Name != "Lunge" {
		t.Fatalf("exercise after squats = %+v, want Lunge", snap.Exercise)
	}
	f.set(t, 20*time.Second)

	if f.m.screen != screenSummary {
		t.Fatalf("screen = %d, want summary", f.m.screen)
	}
	if len(f.store.saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(f.store.saved))
	}
	s := f.store.saved[0]
	if len(s.Exercises) != 3 || s.TotalRestTime != 60 {
		t.Errorf("summary = %+v", s)
	}
	if f.m.status != "Workout saved." {
		t.Errorf("status = %q", f.m.status)
	}
	if view := f.m.View(); !strings.Contains(view, "Squat") || !strings.Contains(view, "2 sets") {
		t.Errorf("summary view missing exercise stats:\n%s", view)
	}
}

// TestSkipNeedsConfirmation verifies skip waits for y and declining keeps the exercise.
func TestSkipNeedsConfirmation(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	f.send(t, runeKey('x'))
	if f.m.engine.Pending() != session.ConfirmSkip {
		t.Fatalf("pending = %v, want skip", f.m.engine.Pending())
	}
	if !strings.Contains(f.m.View(), "Skip Squat?") {
		t.Errorf("view missing prompt:\n%s", f.m.View())
	}

	f.send(t, runeKey('n'))
	if f.m.engine.Pending() != session.ConfirmNone {
		t.Error("confirmation should be cleared after n")
	}
	if snap := f.m.engine.Snapshot(); snap.Exercise.Name != "Squat" {
		t.Errorf("exercise = %s, want Squat", snap.Exercise.Name)
	}

	f.send(t, runeKey('x'))
	f.send(t, runeKey('y'))
	if snap := f.m.engine.Snapshot(); snap.Exercise.Name != "Lunge" {
		t.Errorf("exercise after skip = %s, want Lunge", snap.Exercise.Name)
	}
}

// TestAbandonReturnsToPicker verifies a confirmed abandon discards the session.
func TestAbandonReturnsToPicker(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.set(t, 10*time.Second)

	f.send(t, runeKey('a'))
	f.send(t, runeKey('y'))
	if f.m.screen != screenPickDay {
		t.Errorf("screen = %d, want picker", f.m.screen)
	}
	if f.m.engine.Phase() != session.Idle {
		t.Errorf("phase = %v, want idle", f.m.engine.Phase())
	}
	if len(f.store.saved) != 0 {
		t.Error("abandoned session must not be saved")
	}
}

// TestPausedRejectsSet verifies the status explains why a key did nothing.
func TestPausedRejectsSet(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, runeKey('p'))
	f.send(t, runeKey('s'))

	if f.m.engine.Phase() != session.ExerciseReady {
		t.Errorf("phase = %v, want ready", f.m.engine.Phase())
	}
	if !strings.Contains(f.m.status, "Paused") {
		t.Errorf("status = %q, want paused hint", f.m.status)
	}
	if !strings.Contains(f.m.View(), "PAUSED") {
		t.Error("view missing paused banner")
	}
}

// TestSaveFailureQueues verifies a failed save parks the summary in the queue.
func TestSaveFailureQueues(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("connection refused")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.set(t, 10*time.Second)
	f.send(t, runeKey('f'))

	if f.m.screen != screenSummary {
		t.Fatalf("screen = %d, want summary", f.m.screen)
	}
	if !errors.Is(f.m.saveErr, session.ErrSaveFailed) {
		t.Errorf("saveErr = %v, want ErrSaveFailed", f.m.saveErr)
	}
	if len(f.queue.queued) != 1 {
		t.Fatalf("queued %d, want 1", len(f.queue.queued))
	}
	if !strings.Contains(f.m.status, "queued") {
		t.Errorf("status = %q", f.m.status)
	}

	f.store.err = nil
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if len(f.store.saved) != 1 {
		t.Errorf("retry saved %d, want 1", len(f.store.saved))
	}
	if f.m.saveErr != nil {
		t.Errorf("saveErr after retry = %v", f.m.saveErr)
	}
}

// TestTickUpdatesTimer verifies tick messages drive the live timer.
func TestTickUpdatesTimer(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, runeKey('s'))
	f.clock.now = f.clock.now.Add(75 * time.Second)
	f.send(t, tickMsg{Kind: session.ExerciseTick, Elapsed: 75 * time.Second})

	if !strings.Contains(f.m.View(), "01:15") {
		t.Errorf("view missing live timer:\n%s", f.m.View())
	}
}

// TestNewSetTimerStartsAtZero verifies the previous set's elapsed time is not
// carried onto the next set, including while paused before any tick arrives.
func TestNewSetTimerStartsAtZero(t *testing.T) {
	f := newFixture()
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, runeKey('s'))
	f.clock.now = f.clock.now.Add(75 * time.Second)
	f.send(t, tickMsg{Kind: session.ExerciseTick, Elapsed: 75 * time.Second})
	f.send(t, runeKey('s'))
	f.clock.now = f.clock.now.Add(10 * time.Second)

	f.send(t, runeKey('s'))
	f.send(t, runeKey('p'))

	view := f.m.View()
	if !strings.Contains(view, "PAUSED") {
		t.Fatalf("view missing paused banner:\n%s", view)
	}
	if strings.Contains(view, "01:15") {
		t.Errorf("view shows stale set time:\n%s", view)
	}
	if got := f.m.engine.Snapshot().SetElapsed; got != 0 {
		t.Errorf("SetElapsed = %v, want 0", got)
	}
}

// TestBackKeepsUnsavedWorkout verifies the summary cannot be left while the
// workout is neither saved nor queued.
func TestBackKeepsUnsavedWorkout(t *testing.T) {
	f := newFixture()
	f.store.err = errors.New("connection refused")
	f.queue.err = errors.New("disk full")
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.set(t, 10*time.Second)
	f.send(t, runeKey('f'))

	f.send(t, runeKey('b'))
	if f.m.screen != screenSummary {
		t.Fatalf("screen = %d, want summary", f.m.screen)
	}
	if !strings.Contains(f.m.status, "not saved") {
		t.Errorf("status = %q", f.m.status)
	}

	f.store.err = nil
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	f.send(t, runeKey('b'))
	if f.m.screen != screenPickDay {
		t.Errorf("screen = %d, want picker after save", f.m.screen)
	}
	if len(f.store.saved) != 1 {
		t.Errorf("saved %d, want 1", len(f.store.saved))
	}
}
