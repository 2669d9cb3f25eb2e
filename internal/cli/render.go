// Package cli renders statistics and listings for the command-line client.
package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/stats"
	"github.com/claude/setclock/internal/timeutil"
)

var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	bestStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// Table is a bordered text table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(50).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := range numCols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			b.WriteString(style.Render(" " + cell + strings.Repeat(" ", pad) + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, headerStyle)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, valueStyle)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// RenderStatistics renders the statistics view for one timeframe.
func RenderStatistics(s stats.Statistics, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(RenderTitle("STATISTICS  " + s.Timeframe.Title()))
	b.WriteString("\n\n")

	if s.TotalWorkouts == 0 {
		b.WriteString(mutedStyle.Render("  No workouts in this timeframe."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(RenderTable(Table{
		Headers: []string{"Workouts", "Total time", "Average", "Rest"},
		Rows: [][]string{{
			fmt.Sprint(s.TotalWorkouts),
			timeutil.FormatDuration(s.TotalTime),
			timeutil.FormatDuration(s.AverageWorkoutDuration),
			timeutil.FormatDuration(s.TotalRestTime),
		}},
	}))

	if s.BestWorkout != nil {
		best := s.BestWorkout
		name := best.DayName
		if name == "" {
			name = best.DayID
		}
		b.WriteString(bestStyle.Render(fmt.Sprintf("  Best workout: %s on %s (%s)",
			name, best.LoggedAt().In(loc).Format("Jan 02 15:04"), timeutil.FormatDuration(best.TotalDuration))))
		b.WriteString("\n")
	}
	if s.MostFrequentExercise != nil {
		b.WriteString(bestStyle.Render(fmt.Sprintf("  Most frequent: %s (%d sets)",
			s.MostFrequentExercise.Name, s.MostFrequentExercise.TotalSets)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	names := make([]string, 0, len(s.ExerciseStats))
	for name := range s.ExerciseStats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, c := s.ExerciseStats[names[i]], s.ExerciseStats[names[j]]
		if a.TotalSets != c.TotalSets {
			return a.TotalSets > c.TotalSets
		}
		return names[i] < names[j]
	})
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		ex := s.ExerciseStats[name]
		rows = append(rows, []string{
			name,
			fmt.Sprint(ex.TotalSets),
			timeutil.FormatDuration(ex.TotalDuration),
			timeutil.FormatTime(ex.AverageSetDuration),
		})
	}
	b.WriteString(RenderTable(Table{
		Title:   "Exercises",
		Headers: []string{"Exercise", "Sets", "Time", "Avg set"},
		Rows:    rows,
	}))

	days := make([]string, 0, len(s.DailyStats))
	for day := range s.DailyStats {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	rows = make([][]string, 0, len(days))
	for _, day := range days {
		d := s.DailyStats[day]
		rows = append(rows, []string{day, fmt.Sprint(d.Workouts), timeutil.FormatDuration(d.TotalDuration)})
	}
	b.WriteString(RenderTable(Table{
		Title:   "Days",
		Headers: []string{"Date", "Workouts", "Time"},
		Rows:    rows,
	}))
	return b.String()
}

// RenderSessions renders logged sessions, most recent first.
func RenderSessions(sessions []models.SessionSummary, loc *time.Location) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.LoggedAt().In(loc).Format("Jan 02 15:04"),
			s.DayName,
			fmt.Sprint(len(s.Exercises)),
			timeutil.FormatDuration(s.TotalDuration),
			s.ID,
		})
	}
	return RenderTable(Table{
		Headers: []string{"Logged", "Day", "Sets", "Duration", "ID"},
		Rows:    rows,
	})
}

// RenderDays renders workout days sorted by name.
func RenderDays(days map[string]models.WorkoutDay) string {
	list := make([]models.WorkoutDay, 0, len(days))
	for _, d := range days {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	rows := make([][]string, 0, len(list))
	for _, d := range list {
		parts := make([]string, 0, len(d.Exercises))
		for _, ex := range d.Exercises {
			parts = append(parts, ex.Name+" "+ex.Target())
		}
		rows = append(rows, []string{d.Name, strings.Join(parts, ", "), d.ID})
	}
	return RenderTable(Table{
		Headers: []string{"Day", "Exercises", "ID"},
		Rows:    rows,
	})
}
