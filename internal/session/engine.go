// Package session drives one live workout: exercise progression, set and rest
// timing, pause/resume and the final summary.
//
// An Engine is owned by its caller and is not safe for concurrent use, with one
// exception: Save may run on another goroutine while the owner keeps reading
// snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/google/uuid"
)

var (
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrEmptyDay            = errors.New("workout day has no exercises")
	ErrPaused              = errors.New("workout is paused")
	ErrConfirmationPending = errors.New("confirmation pending")
	ErrNoConfirmation      = errors.New("no confirmation pending")
	ErrNotFinished         = errors.New("workout not finished")
	ErrSaveInFlight        = errors.New("save already in progress")
	ErrSaveFailed          = errors.New("saving session summary failed")
)

// Phase is the engine's position in the workout state machine.
type Phase int

const (
	Idle Phase = iota
	ExerciseReady
	ExerciseInProgress
	SetComplete
	Resting
	Completed
)

var phaseNames = [...]string{"idle", "ready", "in_progress", "set_complete", "resting", "completed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Confirmation is a destructive action awaiting a yes/no answer.
type Confirmation int

const (
	ConfirmNone Confirmation = iota
	ConfirmSkip
	ConfirmAbandon
)

func (c Confirmation) String() string {
	switch c {
	case ConfirmSkip:
		return "skip exercise"
	case ConfirmAbandon:
		return "abandon workout"
	default:
		return "none"
	}
}

// Saver persists finished sessions.
type Saver interface {
	SaveSessionSummary(ctx context.Context, s models.SessionSummary) error
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DefaultTickInterval is how often live timers refresh.
const DefaultTickInterval = time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithScheduler replaces the ticker-based scheduler.
func WithScheduler(s Scheduler) Option { return func(e *Engine) { e.sched = s } }

// WithTickInterval sets the live timer refresh interval.
func WithTickInterval(d time.Duration) Option { return func(e *Engine) { e.interval = d } }

// WithTickHandler registers the receiver of live timer ticks. Without one no
// periodic tasks are started.
func WithTickHandler(fn func(Tick)) Option { return func(e *Engine) { e.onTick = fn } }

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option { return func(e *Engine) { e.log = log } }

// Engine is the workout session state machine.
type Engine struct {
	store    Saver
	clock    Clock
	sched    Scheduler
	interval time.Duration
	onTick   func(Tick)
	log      *slog.Logger

	phase    Phase
	paused   bool
	pausedAt time.Time
	pending  Confirmation

	day         models.WorkoutDay
	sessionID   string
	startTime   time.Time
	sets        []models.CompletedSet
	totalRest   time.Duration
	totalPaused time.Duration

	exerciseIdx int
	firstSet    int // index in sets where the current exercise's sets begin

	setStart   time.Time
	setPaused  time.Duration
	restStart  time.Time
	restPaused time.Duration

	exerciseTask Task
	restTask     Task

	saveMu  sync.Mutex
	summary *models.SessionSummary
	saving  bool
	saved   bool
}

// New creates an idle engine that saves finished sessions to store.
func New(store Saver, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		clock:    systemClock{},
		sched:    TickerScheduler{},
		interval: DefaultTickInterval,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartWorkout begins a session on day. It is valid while idle or after a
// previous session completed; an unsaved previous summary is dropped.
func (e *Engine) StartWorkout(day models.WorkoutDay) error {
	if e.phase != Idle && e.phase != Completed {
		return fmt.Errorf("start workout from %s: %w", e.phase, ErrInvalidTransition)
	}
	if len(day.Exercises) == 0 {
		return ErrEmptyDay
	}

	e.saveMu.Lock()
	if e.saving {
		e.saveMu.Unlock()
		return ErrSaveInFlight
	}
	e.summary, e.saved = nil, false
	e.saveMu.Unlock()

	now := e.clock.Now()
	e.reset()
	e.day = day
	e.sessionID = uuid.NewString()
	e.startTime = now
	e.phase = ExerciseReady
	e.log.Info("workout started", "day", day.Name, "exercises", len(day.Exercises), "session", e.sessionID)
	return nil
}

// StartExercise starts timing the next set. From SetComplete or Resting it
// first advances, ending any rest.
func (e *Engine) StartExercise() error {
	if err := e.check("start exercise", ExerciseReady, SetComplete, Resting); err != nil {
		return err
	}
	now := e.clock.Now()
	if e.phase != ExerciseReady {
		e.advance(now)
	}
	e.setStart = now
	e.setPaused = 0
	e.phase = ExerciseInProgress
	e.startExerciseTick()
	return nil
}

// CompleteSet records the running set. When the current exercise reaches its
// target the engine moves to the next one, finishing after the last.
func (e *Engine) CompleteSet() error {
	if err := e.check("complete set", ExerciseInProgress); err != nil {
		return err
	}
	now := e.clock.Now()
	elapsed := e.setElapsed(now)
	stopTask(&e.exerciseTask)

	ex := e.day.Exercises[e.exerciseIdx]
	e.sets = append(e.sets, models.CompletedSet{
		Name:      ex.Name,
		SetNumber: len(e.sets) - e.firstSet + 1,
		Duration:  elapsed.Seconds(),
	})
	e.setStart = time.Time{}
	e.log.Debug("set completed", "exercise", ex.Name, "set", len(e.sets)-e.firstSet, "duration", elapsed)

	if e.targetMet() {
		if e.exerciseIdx == len(e.day.Exercises)-1 {
			e.finish(now)
			return nil
		}
		e.exerciseIdx++
		e.firstSet = len(e.sets)
	}
	e.phase = SetComplete
	return nil
}

// StartRest starts the rest timer after a set.
func (e *Engine) StartRest() error {
	if err := e.check("start rest", SetComplete); err != nil {
		return err
	}
	e.restStart = e.clock.Now()
	e.restPaused = 0
	e.phase = Resting
	e.startRestTick()
	return nil
}

// Advance moves to ExerciseReady without starting a set, ending any rest.
func (e *Engine) Advance() error {
	if err := e.check("advance", SetComplete, Resting); err != nil {
		return err
	}
	e.advance(e.clock.Now())
	return nil
}

// RequestSkip asks to skip the current exercise. Answer with Confirm.
func (e *Engine) RequestSkip() error {
	if err := e.check("skip exercise", ExerciseReady, ExerciseInProgress, SetComplete, Resting); err != nil {
		return err
	}
	e.pending = ConfirmSkip
	return nil
}

// RequestAbandon asks to discard the session without saving. It is allowed
// while paused. Answer with Confirm.
func (e *Engine) RequestAbandon() error {
	if e.pending != ConfirmNone {
		return ErrConfirmationPending
	}
	if e.phase == Idle || e.phase == Completed {
		return fmt.Errorf("abandon from %s: %w", e.phase, ErrInvalidTransition)
	}
	e.pending = ConfirmAbandon
	return nil
}

// Confirm answers the pending confirmation. Declining changes nothing else.
func (e *Engine) Confirm(yes bool) error {
	p := e.pending
	if p == ConfirmNone {
		return ErrNoConfirmation
	}
	e.pending = ConfirmNone
	if !yes {
		return nil
	}
	switch p {
	case ConfirmSkip:
		e.skip(e.clock.Now())
	case ConfirmAbandon:
		e.log.Info("workout abandoned", "session", e.sessionID, "sets", len(e.sets))
		e.stopTicks()
		e.reset()
	}
	return nil
}

// Pause suspends timing. Calling it while already paused does nothing.
func (e *Engine) Pause() error {
	if e.phase == Idle || e.phase == Completed {
		return fmt.Errorf("pause from %s: %w", e.phase, ErrInvalidTransition)
	}
	if e.paused {
		return nil
	}
	e.paused = true
	e.pausedAt = e.clock.Now()
	e.stopTicks()
	return nil
}

// Resume continues timing, excluding the paused interval from the running set
// or rest, and restarts only the tick for the current phase.
func (e *Engine) Resume() error {
	if e.phase == Idle || e.phase == Completed {
		return fmt.Errorf("resume from %s: %w", e.phase, ErrInvalidTransition)
	}
	if !e.paused {
		return nil
	}
	e.unpause(e.clock.Now())
	switch e.phase {
	case ExerciseInProgress:
		e.startExerciseTick()
	case Resting:
		e.startRestTick()
	}
	return nil
}

// TogglePause pauses a running workout or resumes a paused one.
func (e *Engine) TogglePause() error {
	if e.paused {
		return e.Resume()
	}
	return e.Pause()
}

// Finish ends the session now and builds its summary. A set in progress is
// discarded. Calling Finish again returns the same summary.
func (e *Engine) Finish() (models.SessionSummary, error) {
	switch {
	case e.phase == Idle:
		return models.SessionSummary{}, fmt.Errorf("finish from %s: %w", e.phase, ErrInvalidTransition)
	case e.phase == Completed:
		s, _ := e.Summary()
		return s, nil
	case e.pending != ConfirmNone:
		return models.SessionSummary{}, ErrConfirmationPending
	}
	e.finish(e.clock.Now())
	s, _ := e.Summary()
	return s, nil
}

// Save persists the finished summary. Only one save runs at a time; once a
// save succeeds later calls return nil without writing again. On failure the
// summary is kept so the caller can retry.
func (e *Engine) Save(ctx context.Context) error {
	e.saveMu.Lock()
	switch {
	case e.summary == nil:
		e.saveMu.Unlock()
		return ErrNotFinished
	case e.saved:
		e.saveMu.Unlock()
		return nil
	case e.saving:
		e.saveMu.Unlock()
		return ErrSaveInFlight
	}
	e.saving = true
	s := *e.summary
	e.saveMu.Unlock()

	err := e.store.SaveSessionSummary(ctx, s)

	e.saveMu.Lock()
	e.saving = false
	e.saved = err == nil
	e.saveMu.Unlock()

	if err != nil {
		e.log.Error("session save failed", "session", s.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	e.log.Info("session saved", "session", s.ID, "sets", len(s.Exercises), "duration", s.TotalDuration)
	return nil
}

// CompleteWorkout finishes the session and saves it.
func (e *Engine) CompleteWorkout(ctx context.Context) (models.SessionSummary, error) {
	s, err := e.Finish()
	if err != nil {
		return s, err
	}
	return s, e.Save(ctx)
}

// Summary returns the finished session, if any.
func (e *Engine) Summary() (models.SessionSummary, bool) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if e.summary == nil {
		return models.SessionSummary{}, false
	}
	return *e.summary, true
}

// Saved reports whether the finished session has been persisted.
func (e *Engine) Saved() bool {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	return e.saved
}

// Phase returns the current state.
func (e *Engine) Phase() Phase { return e.phase }

// Paused reports whether timing is suspended.
func (e *Engine) Paused() bool { return e.paused }

// Pending returns the confirmation awaiting an answer.
func (e *Engine) Pending() Confirmation { return e.pending }

// Sets returns a copy of the sets completed so far.
func (e *Engine) Sets() []models.CompletedSet { return slices.Clone(e.sets) }

func (e *Engine) check(op string, allowed ...Phase) error {
	if e.pending != ConfirmNone {
		return fmt.Errorf("%s: %w", op, ErrConfirmationPending)
	}
	if e.paused {
		return fmt.Errorf("%s: %w", op, ErrPaused)
	}
	if !slices.Contains(allowed, e.phase) {
		return fmt.Errorf("%s from %s: %w", op, e.phase, ErrInvalidTransition)
	}
	return nil
}

func (e *Engine) advance(now time.Time) {
	if e.phase == Resting {
		e.endRest(now)
	}
	e.phase = ExerciseReady
}

func (e *Engine) endRest(now time.Time) {
	e.totalRest += e.restElapsed(now)
	stopTask(&e.restTask)
	e.restStart = time.Time{}
}

func (e *Engine) skip(now time.Time) {
	name := e.day.Exercises[e.exerciseIdx].Name
	if e.phase == Resting {
		e.endRest(now)
	}
	e.stopTicks()
	e.sets = e.sets[:e.firstSet]
	e.setStart = time.Time{}
	e.log.Debug("exercise skipped", "exercise", name)

	if e.exerciseIdx == len(e.day.Exercises)-1 {
		e.finish(now)
		return
	}
	e.exerciseIdx++
	e.phase = ExerciseReady
}

func (e *Engine) targetMet() bool {
	ex := e.day.Exercises[e.exerciseIdx]
	done := e.sets[e.firstSet:]
	if ex.Kind == models.KindTime {
		var total float64
		for _, s := range done {
			total += s.Duration
		}
		return total >= float64(ex.Duration)
	}
	return len(done) >= max(ex.Count, 1)
}

func (e *Engine) finish(now time.Time) {
	if e.phase == Resting {
		e.endRest(now)
	}
	if e.paused {
		e.unpause(now)
	}
	e.stopTicks()

	total := now.Sub(e.startTime) - e.totalPaused
	s := &models.SessionSummary{
		ID:            e.sessionID,
		DayID:         e.day.ID,
		DayName:       e.day.Name,
		StartTime:     e.startTime,
		EndTime:       now,
		Exercises:     slices.Clone(e.sets),
		TotalRestTime: e.totalRest.Seconds(),
		PausedTime:    e.totalPaused.Seconds(),
		TotalDuration: max(total, 0).Seconds(),
	}
	if s.Exercises == nil {
		s.Exercises = []models.CompletedSet{}
	}

	e.saveMu.Lock()
	e.summary, e.saved = s, false
	e.saveMu.Unlock()

	e.phase = Completed
	e.pending = ConfirmNone
	e.log.Info("workout finished", "session", s.ID, "sets", len(s.Exercises), "duration", s.TotalDuration)
}

func (e *Engine) unpause(now time.Time) {
	d := now.Sub(e.pausedAt)
	e.totalPaused += d
	switch e.phase {
	case ExerciseInProgress:
		e.setPaused += d
	case Resting:
		e.restPaused += d
	}
	e.paused = false
	e.pausedAt = time.Time{}
}

// effectiveNow freezes time at the pause instant while paused.
func (e *Engine) effectiveNow(now time.Time) time.Time {
	if e.paused {
		return e.pausedAt
	}
	return now
}

func (e *Engine) setElapsed(now time.Time) time.Duration {
	if e.setStart.IsZero() {
		return 0
	}
	return max(e.effectiveNow(now).Sub(e.setStart)-e.setPaused, 0)
}

func (e *Engine) restElapsed(now time.Time) time.Duration {
	if e.restStart.IsZero() {
		return 0
	}
	return max(e.effectiveNow(now).Sub(e.restStart)-e.restPaused, 0)
}

func (e *Engine) startExerciseTick() {
	stopTask(&e.exerciseTask)
	if e.onTick == nil {
		return
	}
	start, paused, emit := e.setStart, e.setPaused, e.onTick
	e.exerciseTask = e.sched.Every(e.interval, func(now time.Time) {
		emit(Tick{Kind: ExerciseTick, Elapsed: max(now.Sub(start)-paused, 0)})
	})
}

func (e *Engine) startRestTick() {
	stopTask(&e.restTask)
	if e.onTick == nil {
		return
	}
	start, paused, emit := e.restStart, e.restPaused, e.onTick
	e.restTask = e.sched.Every(e.interval, func(now time.Time) {
		emit(Tick{Kind: RestTick, Elapsed: max(now.Sub(start)-paused, 0)})
	})
}

func (e *Engine) stopTicks() {
	stopTask(&e.exerciseTask)
	stopTask(&e.restTask)
}

func stopTask(t *Task) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (e *Engine) reset() {
	e.phase = Idle
	e.paused = false
	e.pausedAt = time.Time{}
	e.pending = ConfirmNone
	e.day = models.WorkoutDay{}
	e.sessionID = ""
	e.startTime = time.Time{}
	e.sets = nil
	e.totalRest = 0
	e.totalPaused = 0
	e.exerciseIdx = 0
	e.firstSet = 0
	e.setStart = time.Time{}
	e.setPaused = 0
	e.restStart = time.Time{}
	e.restPaused = 0
}
