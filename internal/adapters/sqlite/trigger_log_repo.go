package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/streak/internal/ports/secondary"
)

// TriggerLogRepository implements secondary.TriggerLogRepository with SQLite.
type TriggerLogRepository struct {
	db *sql.DB
}

// NewTriggerLogRepository creates a new SQLite trigger log repository.
func NewTriggerLogRepository(db *sql.DB) *TriggerLogRepository {
	return &TriggerLogRepository{db: db}
}

// Append persists a new trigger event.
// The record must have ID and CreatedAt pre-populated by the service layer.
func (r *TriggerLogRepository) Append(ctx context.Context, event *secondary.TriggerEventRecord) error {
	if event.ID == "" {
		return fmt.Errorf("trigger event ID must be pre-populated by service layer")
	}
	if event.CreatedAt == "" {
		return fmt.Errorf("trigger event CreatedAt must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO trigger_events (id, user_id, emotion, context, intensity, kind, date_key, time_slot, day_number, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Emotion, event.Context, event.Intensity, event.Kind,
		event.DateKey, event.TimeSlot, event.DayNumber, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append trigger event: %w", err)
	}
	return nil
}

// QueryFrom returns the events with date >= dateKey, oldest first.
func (r *TriggerLogRepository) QueryFrom(ctx context.Context, userID, dateKey string) ([]*secondary.TriggerEventRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, emotion, context, intensity, kind, date_key, time_slot, day_number, created_at
		 FROM trigger_events WHERE user_id = ? AND date_key >= ?
		 ORDER BY date_key, created_at, id`,
		userID, dateKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trigger events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.TriggerEventRecord
	for rows.Next() {
		ev := &secondary.TriggerEventRecord{}
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.Emotion, &ev.Context, &ev.Intensity, &ev.Kind,
			&ev.DateKey, &ev.TimeSlot, &ev.DayNumber, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trigger event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Ensure TriggerLogRepository implements the interface
var _ secondary.TriggerLogRepository = (*TriggerLogRepository)(nil)
