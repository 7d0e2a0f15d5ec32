package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/streak/internal/ports/secondary"
)

// ActivityLogRepository implements secondary.ActivityLogRepository with SQLite.
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new SQLite activity log repository.
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create persists a new activity entry.
func (r *ActivityLogRepository) Create(ctx context.Context, record *secondary.ActivityRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, user_id, action, field_name, old_value, new_value, source, request_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.Action,
		nullString(record.FieldName),
		nullString(record.OldValue),
		nullString(record.NewValue),
		nullString(record.Source),
		nullString(record.RequestID),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// List retrieves entries matching the given filters, newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	query := `SELECT id, user_id, timestamp, action, field_name, old_value, new_value, source, request_id FROM activity_log WHERE 1=1`
	args := []any{}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ActivityRecord
	for rows.Next() {
		var (
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			source    sql.NullString
			requestID sql.NullString
			timestamp time.Time
		)

		record := &secondary.ActivityRecord{}
		err := rows.Scan(&record.ID,
			&record.UserID,
			&timestamp,
			&record.Action,
			&fieldName,
			&oldValue,
			&newValue,
			&source,
			&requestID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		record.Timestamp = timestamp.Format(time.RFC3339)
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.Source = source.String
		record.RequestID = requestID.String

		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// PruneOlderThan deletes entries older than the given number of days.
func (r *ActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM activity_log WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

var _ secondary.ActivityLogRepository = (*ActivityLogRepository)(nil)
