package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/stats"
	"github.com/claude/setclock/internal/timeutil"
	"github.com/mark3labs/mcp-go/mcp"
)

// sinceFor resolves the lower bound of a session query. An explicit since
// date wins; otherwise the timeframe (default weekly) is used.
func (h *handlers) sinceFor(timeframe, since string) (time.Time, timeutil.Timeframe, error) {
	if since != "" {
		t, err := parseFlexTime(since, h.loc)
		return t, "", err
	}
	tf, err := timeutil.ParseTimeframe(timeframe)
	if err != nil {
		return time.Time{}, "", err
	}
	return timeutil.StartDate(tf, h.now().In(h.loc)), tf, nil
}

func parseFlexTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

// --- Tool definitions ---

var toolListWorkoutDays = mcp.NewTool("list_workout_days",
	mcp.WithDescription("List configured workout days with their ordered exercises. Each exercise has a type of 'sets' (target count of sets) or 'time' (target duration in seconds)."),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Retrieve logged workout sessions, most recent first. Each session includes start/end time, completed sets with durations, total rest, paused time and total duration in seconds."),
	mcp.WithString("timeframe", mcp.Description("Reporting window. Defaults to 'weekly'."), mcp.Enum("daily", "weekly", "monthly", "all")),
	mcp.WithString("since", mcp.Description("Explicit start date (ISO 8601 or YYYY-MM-DD). Overrides timeframe.")),
	mcp.WithString("day", mcp.Description("Filter by workout day name (case-insensitive)")),
	mcp.WithString("exercise", mcp.Description("Only keep sessions containing this exercise (partial match, case-insensitive)")),
)

var toolGetStatistics = mcp.NewTool("get_statistics",
	mcp.WithDescription("Aggregate statistics over a window: total workouts, total and average workout duration, total rest, per-exercise set counts and average set duration, per-day totals, the longest workout and the most frequent exercise."),
	mcp.WithString("timeframe", mcp.Description("Reporting window. Defaults to 'weekly'."), mcp.Enum("daily", "weekly", "monthly", "all")),
)

// --- Tool handlers ---

func (h *handlers) listWorkoutDays(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := h.ds.ListWorkoutDays(ctx)
	if err != nil {
		h.log.Error("mcp list_workout_days", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(days)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since, _, err := h.sinceFor(req.GetString("timeframe", "weekly"), req.GetString("since", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid time window: " + err.Error()), nil
	}

	sessions, err := h.ds.QuerySessionSummaries(ctx, since)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sessions = filterSessions(sessions, req.GetString("day", ""), req.GetString("exercise", ""))

	result, err := mcp.NewToolResultJSON(map[string]any{
		"since":    since.Format(time.RFC3339),
		"count":    len(sessions),
		"sessions": sessions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since, tf, err := h.sinceFor(req.GetString("timeframe", "weekly"), "")
	if err != nil {
		return mcp.NewToolResultError("invalid timeframe: " + err.Error()), nil
	}

	sessions, err := h.ds.QuerySessionSummaries(ctx, since)
	if err != nil {
		h.log.Error("mcp get_statistics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	s := stats.Compute(sessions, h.loc)
	s.Timeframe = tf

	result, err := mcp.NewToolResultJSON(s)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func filterSessions(sessions []models.SessionSummary, day, exercise string) []models.SessionSummary {
	if day == "" && exercise == "" {
		return sessions
	}
	exercise = strings.ToLower(exercise)

	out := make([]models.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if day != "" && !strings.EqualFold(s.DayName, day) {
			continue
		}
		if exercise != "" && !hasExercise(s, exercise) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func hasExercise(s models.SessionSummary, lowered string) bool {
	for _, set := range s.Exercises {
		if strings.Contains(strings.ToLower(set.Name), lowered) {
			return true
		}
	}
	return false
}
