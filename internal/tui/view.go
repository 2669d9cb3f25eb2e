package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/session"
	"github.com/claude/setclock/internal/stats"
	"github.com/claude/setclock/internal/timeutil"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 2).MarginBottom(1)
	timerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#3C3C3C")).Padding(1, 4).MarginBottom(1)
	restTimerStyle = timerStyle.Background(lipgloss.Color("#1F6F5F"))
	pausedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")).MarginTop(1)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666")).MarginTop(1)
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenPickDay:
		body = m.viewPick()
	case screenWorkout:
		body = m.viewWorkout()
	case screenSummary:
		body = m.viewSummary()
	}
	if m.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", mutedStyle.Render(m.status))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m Model) viewPick() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a workout day"))
	b.WriteString("\n")

	if len(m.days) == 0 {
		b.WriteString(mutedStyle.Render("No workout days yet. Create one with `setclock-cli days create`."))
		b.WriteString("\n")
	}
	for i, d := range m.days {
		line := fmt.Sprintf("%s (%d exercises)", d.Name, len(d.Exercises))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(helpLine(keys.Up, keys.Down, keys.Select, keys.Quit)))
	return b.String()
}

func (m Model) viewWorkout() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.DayName))
	b.WriteString("\n")

	if snap.Exercise != nil {
		fmt.Fprintf(&b, "Exercise %d/%d: %s  %s\n",
			snap.ExerciseIndex+1, snap.ExerciseCount,
			lipgloss.NewStyle().Bold(true).Render(snap.Exercise.Name),
			mutedStyle.Render("target "+snap.Exercise.Target()))
		fmt.Fprintf(&b, "Set %d  •  %s\n\n", snap.SetNumber, phaseLabel(snap.Phase))
	}

	switch snap.Phase {
	case session.ExerciseInProgress:
		b.WriteString(timerStyle.Render(timeutil.FormatTime(snap.SetElapsed.Seconds())))
	case session.Resting:
		b.WriteString(restTimerStyle.Render("REST " + timeutil.FormatTime(snap.RestElapsed.Seconds())))
	default:
		b.WriteString(timerStyle.Render(timeutil.FormatTime(0)))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Workout %s  •  Rest %s  •  %d sets done\n",
		timeutil.FormatTime(snap.Elapsed.Seconds()),
		timeutil.FormatTime(snap.TotalRest.Seconds()),
		len(snap.Sets))

	if snap.Paused {
		b.WriteString(pausedStyle.Render("PAUSED"))
		b.WriteString("\n")
	}

	switch snap.Pending {
	case session.ConfirmSkip:
		b.WriteString(promptStyle.Render(fmt.Sprintf("Skip %s? Its sets will not be logged. (y/n)", snap.Exercise.Name)))
		return b.String()
	case session.ConfirmAbandon:
		b.WriteString(promptStyle.Render("Abandon this workout? Nothing will be saved. (y/n)"))
		return b.String()
	}

	b.WriteString(helpStyle.Render(workoutHelp(snap)))
	return b.String()
}

func workoutHelp(snap session.Snapshot) string {
	if snap.Paused {
		return helpLine(keys.Pause, keys.Finish, keys.Abandon)
	}
	switch snap.Phase {
	case session.ExerciseInProgress:
		return helpLine(keys.Set, keys.Skip, keys.Pause, keys.Finish, keys.Abandon)
	case session.SetComplete:
		return helpLine(keys.Set, keys.Rest, keys.Next, keys.Skip, keys.Pause, keys.Finish)
	case session.Resting:
		return helpLine(keys.Set, keys.Next, keys.Skip, keys.Pause, keys.Finish)
	default:
		return helpLine(keys.Set, keys.Skip, keys.Pause, keys.Finish, keys.Abandon)
	}
}

func phaseLabel(p session.Phase) string {
	switch p {
	case session.ExerciseReady:
		return "ready"
	case session.ExerciseInProgress:
		return "in progress"
	case session.SetComplete:
		return "set complete"
	case session.Resting:
		return "resting"
	default:
		return p.String()
	}
}

func (m Model) viewSummary() string {
	s, ok := m.engine.Summary()
	if !ok {
		return titleStyle.Render("No workout")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Workout complete: " + s.DayName))
	b.WriteString("\n")
	b.WriteString(renderSummary(s))

	switch {
	case m.saving:
		b.WriteString(mutedStyle.Render("Saving..."))
	case m.engine.Saved():
		b.WriteString(helpStyle.Render(helpLine(keys.Back, keys.Quit)))
	case m.queued:
		b.WriteString(helpStyle.Render(helpLine(keys.Retry, keys.Back, keys.Quit)))
	default:
		b.WriteString(helpStyle.Render(helpLine(keys.Retry, keys.Quit)))
	}
	return b.String()
}

func renderSummary(s models.SessionSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duration   %s\n", timeutil.FormatDuration(s.TotalDuration))
	fmt.Fprintf(&b, "Rest       %s\n", timeutil.FormatDuration(s.TotalRestTime))
	if s.PausedTime > 0 {
		fmt.Fprintf(&b, "Paused     %s\n", timeutil.FormatDuration(s.PausedTime))
	}
	b.WriteString("\n")

	all := stats.ExerciseStats(s.Exercises)
	if len(all) == 0 {
		b.WriteString(mutedStyle.Render("No sets logged."))
		b.WriteString("\n")
	}
	for _, ex := range all {
		fmt.Fprintf(&b, "%-20s %2d sets  avg %s\n", ex.Name, ex.Sets, timeutil.FormatTime(ex.AverageDuration))
	}
	return b.String()
}
