// Package outbox keeps session summaries that could not be saved to the
// server so they survive a restart and can be retried with sync.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/setclock/internal/models"
	_ "modernc.org/sqlite"
)

// Saver is the persistence side a flush pushes summaries to.
type Saver interface {
	SaveSessionSummary(ctx context.Context, s models.SessionSummary) error
}

// Outbox is a SQLite-backed queue of unsaved summaries keyed by session ID.
type Outbox struct {
	db *sql.DB
}

// Open opens (or creates) the outbox database at dir/outbox.db.
func Open(dir string) (*Outbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating outbox dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "outbox.db"))
	if err != nil {
		return nil, fmt.Errorf("opening outbox db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_sessions (
		id         TEXT PRIMARY KEY,
		summary    TEXT NOT NULL,
		attempts   INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		queued_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating outbox table: %w", err)
	}

	return &Outbox{db: db}, nil
}

// Close closes the outbox database.
func (o *Outbox) Close() error {
	return o.db.Close()
}

// Add queues a summary. Queuing the same session again replaces the stored copy.
func (o *Outbox) Add(ctx context.Context, s models.SessionSummary, cause error) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err = o.db.ExecContext(ctx,
		`INSERT INTO pending_sessions (id, summary, last_error) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET summary = excluded.summary, last_error = excluded.last_error`,
		s.ID, string(data), msg,
	)
	if err != nil {
		return fmt.Errorf("queuing session %s: %w", s.ID, err)
	}
	return nil
}

// Pending returns queued summaries in the order they were queued.
func (o *Outbox) Pending(ctx context.Context) ([]models.SessionSummary, error) {
	rows, err := o.db.QueryContext(ctx,
		`SELECT summary FROM pending_sessions ORDER BY queued_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying outbox: %w", err)
	}
	defer rows.Close()

	var result []models.SessionSummary
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning outbox row: %w", err)
		}
		var s models.SessionSummary
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decoding queued summary: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Count returns the number of queued summaries.
func (o *Outbox) Count(ctx context.Context) (int, error) {
	var n int
	if err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting outbox: %w", err)
	}
	return n, nil
}

// Remove drops a summary once it has been saved.
func (o *Outbox) Remove(ctx context.Context, id string) error {
	if _, err := o.db.ExecContext(ctx, `DELETE FROM pending_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing session %s: %w", id, err)
	}
	return nil
}

func (o *Outbox) recordFailure(ctx context.Context, id string, cause error) error {
	_, err := o.db.ExecContext(ctx,
		`UPDATE pending_sessions SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		cause.Error(), id)
	return err
}

// FlushResult reports what a Flush did.
type FlushResult struct {
	Saved  int `json:"saved"`
	Failed int `json:"failed"`
}

// Flush tries to save every queued summary, removing those that succeed.
// Failures stay queued with their attempt count bumped.
func (o *Outbox) Flush(ctx context.Context, saver Saver) (FlushResult, error) {
	var res FlushResult

	pending, err := o.Pending(ctx)
	if err != nil {
		return res, err
	}

	for _, s := range pending {
		if err := saver.SaveSessionSummary(ctx, s); err != nil {
			res.Failed++
			if rerr := o.recordFailure(ctx, s.ID, err); rerr != nil {
				return res, fmt.Errorf("recording failure for %s: %w", s.ID, rerr)
			}
			continue
		}
		if err := o.Remove(ctx, s.ID); err != nil {
			return res, err
		}
		res.Saved++
	}
	return res, nil
}
