// Package tui is the terminal workout client. It renders the session engine
// and maps key presses onto engine transitions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/session"
)

// Queue parks summaries whose save failed. *outbox.Outbox satisfies it.
type Queue interface {
	Add(ctx context.Context, s models.SessionSummary, cause error) error
}

type screen int

const (
	screenPickDay screen = iota
	screenWorkout
	screenSummary
)

type tickMsg session.Tick

type savedMsg struct{ err error }

type queuedMsg struct{ err error }

// Model is the bubbletea model for one client run.
type Model struct {
	engine *session.Engine
	queue  Queue
	log    *slog.Logger

	days   []models.WorkoutDay
	cursor int
	screen screen

	status  string
	saving  bool
	saveErr error
	queued  bool

	width  int
	height int
}

// NewModel builds a model over engine. days are listed by name.
func NewModel(engine *session.Engine, days map[string]models.WorkoutDay, queue Queue, log *slog.Logger) Model {
	list := make([]models.WorkoutDay, 0, len(days))
	for _, d := range days {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return Model{engine: engine, queue: queue, log: log, days: list}
}

// Preselect moves the cursor to the day with the given ID or name.
func (m Model) Preselect(day string) Model {
	for i, d := range m.days {
		if d.ID == day || d.Name == day {
			m.cursor = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Ticks only trigger a repaint; the snapshot carries the elapsed time.
		return m, nil

	case savedMsg:
		m.saving = false
		if msg.err == nil {
			m.saveErr = nil
			m.status = "Workout saved."
			return m, nil
		}
		m.saveErr = msg.err
		m.status = "Save failed: " + msg.err.Error()
		if m.queue != nil && !m.queued {
			return m, m.queueCmd(msg.err)
		}
		return m, nil

	case queuedMsg:
		if msg.err != nil {
			m.log.Error("outbox add failed", "error", msg.err)
			m.status = "Save failed and could not be queued: " + msg.err.Error()
			return m, nil
		}
		m.queued = true
		m.status = "Server unreachable. Workout queued; run `setclock-cli sync` later."
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenPickDay:
			return m.updatePick(msg)
		case screenWorkout:
			return m.updateWorkout(msg)
		case screenSummary:
			return m.updateSummary(msg)
		}
	}
	return m, nil
}

func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.days)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		if len(m.days) == 0 {
			return m, nil
		}
		day := m.days[m.cursor]
		if err := m.engine.StartWorkout(day); err != nil {
			m.status = describe(err)
			return m, nil
		}
		m.log.Info("workout started", "day", day.Name, "exercises", len(day.Exercises))
		m.screen = screenWorkout
		m.status = ""
		m.saveErr = nil
		m.queued = false
	}
	return m, nil
}

func (m Model) updateWorkout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error

	if m.engine.Pending() != session.ConfirmNone {
		switch {
		case key.Matches(msg, keys.Yes):
			abandon := m.engine.Pending() == session.ConfirmAbandon
			err = m.engine.Confirm(true)
			if err == nil && abandon {
				m.log.Info("workout abandoned")
				m.screen = screenPickDay
				m.status = "Workout abandoned."
				return m, nil
			}
		case key.Matches(msg, keys.No):
			err = m.engine.Confirm(false)
		default:
			return m, nil
		}
		m.status = describe(err)
		return m.afterTransition()
	}

	switch {
	case key.Matches(msg, keys.Quit):
		err = m.engine.RequestAbandon()
	case key.Matches(msg, keys.Set):
		if m.engine.Phase() == session.ExerciseInProgress {
			err = m.engine.CompleteSet()
		} else {
			err = m.engine.StartExercise()
		}
	case key.Matches(msg, keys.Rest):
		err = m.engine.StartRest()
	case key.Matches(msg, keys.Next):
		err = m.engine.Advance()
	case key.Matches(msg, keys.Skip):
		err = m.engine.RequestSkip()
	case key.Matches(msg, keys.Pause):
		err = m.engine.TogglePause()
	case key.Matches(msg, keys.Finish):
		_, err = m.engine.Finish()
	case key.Matches(msg, keys.Abandon):
		err = m.engine.RequestAbandon()
	default:
		return m, nil
	}
	m.status = describe(err)
	return m.afterTransition()
}

// afterTransition moves to the summary screen and starts the save once the
// engine has completed.
func (m Model) afterTransition() (tea.Model, tea.Cmd) {
	if m.engine.Phase() != session.Completed {
		return m, nil
	}
	m.screen = screenSummary
	m.saving = true
	return m, m.saveCmd()
}

func (m Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Retry) && m.saveErr != nil && !m.saving:
		m.saving = true
		m.status = "Retrying save..."
		return m, m.saveCmd()
	case key.Matches(msg, keys.Back) && !m.saving:
		if !m.canLeaveSummary() {
			m.status = "Workout not saved yet. Press enter to retry."
			return m, nil
		}
		m.screen = screenPickDay
		m.status = ""
	}
	return m, nil
}

// canLeaveSummary reports whether starting another workout would keep the
// finished one, either saved on the server or parked in the queue.
func (m Model) canLeaveSummary() bool {
	return m.engine.Saved() || m.queued
}

func (m Model) saveCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return savedMsg{err: engine.Save(ctx)}
	}
}

func (m Model) queueCmd(cause error) tea.Cmd {
	engine, queue := m.engine, m.queue
	return func() tea.Msg {
		s, ok := engine.Summary()
		if !ok {
			return queuedMsg{err: session.ErrNotFinished}
		}
		return queuedMsg{err: queue.Add(context.Background(), s, cause)}
	}
}

func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrPaused):
		return "Paused. Press p to resume."
	case errors.Is(err, session.ErrConfirmationPending):
		return "Answer the prompt first (y/n)."
	case errors.Is(err, session.ErrEmptyDay):
		return "This day has no exercises yet."
	case errors.Is(err, session.ErrInvalidTransition):
		return "Not available right now."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
