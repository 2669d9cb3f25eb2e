package mcp

import (
	"context"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/remote"
	"github.com/claude/setclock/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and *remote.HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkoutDays(ctx context.Context) (map[string]models.WorkoutDay, error)
	QuerySessionSummaries(ctx context.Context, since time.Time) ([]models.SessionSummary, error)
}

// Compile-time checks: both backends satisfy DataSource.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*remote.HTTPClient)(nil)
)
