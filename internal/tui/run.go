package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/session"
)

// Options configures a client run.
type Options struct {
	Store session.Saver
	Days  map[string]models.WorkoutDay
	Queue Queue
	Log   *slog.Logger
	// Day preselects a workout day by ID or name.
	Day string
}

// Run starts the full-screen client and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	var p *tea.Program
	engine := session.New(opts.Store,
		session.WithLogger(opts.Log),
		session.WithTickHandler(func(t session.Tick) {
			if p != nil {
				p.Send(tickMsg(t))
			}
		}),
	)

	m := NewModel(engine, opts.Days, opts.Queue, opts.Log)
	if opts.Day != "" {
		m = m.Preselect(opts.Day)
	}

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
