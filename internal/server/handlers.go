package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/claude/setclock/internal/models"
	"github.com/claude/setclock/internal/stats"
	"github.com/claude/setclock/internal/storage"
	"github.com/claude/setclock/internal/timeutil"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.db.ListWorkoutDays(r.Context())
	if err != nil {
		s.log.Error("list days", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	day, ok := decodeDay(w, r)
	if !ok {
		return
	}

	id, err := s.db.CreateWorkoutDay(r.Context(), day)
	if err != nil {
		s.writeStoreError(w, "create day", err)
		return
	}
	s.log.Info("workout day created", "id", id, "name", day.Name, "exercises", len(day.Exercises))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	day, ok := decodeDay(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.db.UpdateWorkoutDay(r.Context(), id, day); err != nil {
		s.writeStoreError(w, "update day", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.db.DeleteWorkoutDay(r.Context(), id); err != nil {
		s.writeStoreError(w, "delete day", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	since, err := s.parseSince(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessionSummaries(r.Context(), since)
	if err != nil {
		s.log.Error("list sessions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	var summary models.SessionSummary
	if err := json.NewDecoder(r.Body).Decode(&summary); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := summary.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.db.SaveSessionSummary(r.Context(), summary); err != nil {
		s.writeStoreError(w, "save session", err)
		return
	}
	s.log.Info("session logged",
		"id", summary.ID,
		"day", summary.DayName,
		"sets", len(summary.Exercises),
		"duration", timeutil.FormatDuration(summary.TotalDuration),
	)
	writeJSON(w, http.StatusCreated, map[string]string{"id": summary.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.db.DeleteSessionSummary(r.Context(), id); err != nil {
		s.writeStoreError(w, "delete session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tf, err := timeutil.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	since := timeutil.StartDate(tf, s.now().In(s.loc))
	sessions, err := s.db.QuerySessionSummaries(r.Context(), since)
	if err != nil {
		s.log.Error("stats query", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result := stats.Compute(sessions, s.loc)
	result.Timeframe = tf
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeDay(w http.ResponseWriter, r *http.Request) (models.WorkoutDay, bool) {
	var day models.WorkoutDay
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return day, false
	}
	if err := day.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return day, false
	}
	return day, true
}

func (s *Server) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error(op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// parseSince resolves the lower bound of a session query. An explicit since
// (RFC 3339 or YYYY-MM-DD in the server zone) wins over timeframe, which
// defaults to daily.
func (s *Server) parseSince(r *http.Request) (time.Time, error) {
	if v := r.URL.Query().Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		t, err := time.ParseInLocation(stats.DateKey, v, s.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid since %q: want RFC 3339 or YYYY-MM-DD", v)
		}
		return t, nil
	}

	tf, err := timeutil.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartDate(tf, s.now().In(s.loc)), nil
}
