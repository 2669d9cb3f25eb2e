package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Store is the persistence the handlers need. *storage.DB satisfies it.
type Store interface {
	ListWorkoutDays(ctx context.Context) (map[string]models.WorkoutDay, error)
	CreateWorkoutDay(ctx context.Context, day models.WorkoutDay) (string, error)
	UpdateWorkoutDay(ctx context.Context, id string, day models.WorkoutDay) error
	DeleteWorkoutDay(ctx context.Context, id string) error
	SaveSessionSummary(ctx context.Context, s models.SessionSummary) error
	QuerySessionSummaries(ctx context.Context, since time.Time) ([]models.SessionSummary, error)
	DeleteSessionSummary(ctx context.Context, id string) error
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	Ping(ctx context.Context) error
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
	router chi.Router
	whois  WhoIser
}

// New creates a new Server with all routes configured. loc is the zone used
// for timeframe boundaries and daily statistics buckets.
func New(db Store, loc *time.Location, log *slog.Logger) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		db:     db,
		loc:    loc,
		now:    time.Now,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/days", s.handleListDays)
		r.Post("/days", s.handleCreateDay)
		r.Put("/days/{id}", s.handleUpdateDay)
		r.Delete("/days/{id}", s.handleDeleteDay)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleSaveSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)

		r.Get("/stats", s.handleStats)
		r.Get("/overview", s.handleOverview)
	})
}

// SetMCP mounts an MCP transport handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetTailscale enables tailnet identity lookup for request logs.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			next.ServeHTTP(w, r)
			return
		}
		TailnetIdentity(s.whois, s.log)(next).ServeHTTP(w, r)
	})
}
