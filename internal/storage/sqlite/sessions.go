package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pomoplayer/internal/core/model"
)

// SessionLog stores finished sessions.
type SessionLog struct {
	db *sql.DB
}

// NewSessionLog creates a SessionLog on db.
func NewSessionLog(db *DB) *SessionLog {
	return &SessionLog{db: db.SqlDB}
}

// Append records a finished session.
func (log *SessionLog) Append(ctx context.Context, record model.SessionRecord) error {
	_, err := log.db.ExecContext(ctx,
		`INSERT INTO session_log (id, session_type, planned_seconds, skipped, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID, string(record.SessionType), record.PlannedSeconds, record.Skipped, record.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session record: %w", err)
	}
	return nil
}

// Since returns the sessions completed at or after since, oldest first.
func (log *SessionLog) Since(ctx context.Context, since time.Time) ([]model.SessionRecord, error) {
	rows, err := log.db.QueryContext(ctx,
		`SELECT id, session_type, planned_seconds, skipped, completed_at
		 FROM session_log WHERE completed_at >= ? ORDER BY completed_at`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	defer rows.Close()

	var records []model.SessionRecord
	for rows.Next() {
		var (
			record      model.SessionRecord
			sessionType string
		)
		if err := rows.Scan(&record.ID, &sessionType, &record.PlannedSeconds, &record.Skipped, &record.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		record.SessionType = model.SessionType(sessionType)
		records = append(records, record)
	}
	return records, rows.Err()
}

// Summary aggregates the last days local calendar days, today included.
func (log *SessionLog) Summary(ctx context.Context, days int, now time.Time) ([]model.DaySummary, error) {
	if days <= 0 {
		days = 1
	}
	local := now.Local()
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, -(days - 1))
	records, err := log.Since(ctx, start)
	if err != nil {
		return nil, err
	}
	return model.Summarize(records), nil
}
