package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate counts about all stored data.
type DataStats struct {
	TotalDays     int64      `json:"total_days"`
	TotalSessions int64      `json:"total_sessions"`
	EarliestLog   *time.Time `json:"earliest_log"`
	LatestLog     *time.Time `json:"latest_log"`
}

// GetDataStats returns row counts and the logged time range.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workout_days`).Scan(&stats.TotalDays)
	if err != nil {
		return nil, fmt.Errorf("counting workout days: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(logged_at), MAX(logged_at) FROM session_logs`,
	).Scan(&stats.TotalSessions, &stats.EarliestLog, &stats.LatestLog)
	if err != nil {
		return nil, fmt.Errorf("querying session log range: %w", err)
	}

	return stats, nil
}
