package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. loc is
// the zone used for timeframe boundaries and daily buckets.
func New(ds DataSource, loc *time.Location, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("setclock", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("setclock workout tracker. List configured workout days, read logged sessions with per-set durations, and compute statistics over daily, weekly, monthly or all-time windows. Durations are in seconds."),
	)

	if loc == nil {
		loc = time.Local
	}
	h := &handlers{ds: ds, loc: loc, now: time.Now, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkoutDays, Handler: h.listWorkoutDays},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetStatistics, Handler: h.getStatistics},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	loc *time.Location
	now func() time.Time
	log *slog.Logger
}

var resRecentSessions = mcp.NewResource(
	"setclock://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions logged in the last 14 days, most recent first"),
	mcp.WithMIMEType("application/json"),
)
