package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/streak/internal/ports/secondary"
)

// DailyRecordRepository implements secondary.DailyRecordRepository with SQLite.
type DailyRecordRepository struct {
	db *sql.DB
}

// NewDailyRecordRepository creates a new SQLite daily record repository.
func NewDailyRecordRepository(db *sql.DB) *DailyRecordRepository {
	return &DailyRecordRepository{db: db}
}

const dailyRecordSelectCols = `user_id, date_key, selected_mission_ids, completed_habit_ids, check_in_emotion,
	check_in_context, completed_count, total_habits, percentage, created_at, updated_at`

// scanDailyRecord scans a daily record row.
func scanDailyRecord(scanner interface{ Scan(...any) error }) (*secondary.DailyRecordRecord, error) {
	var (
		missions  sql.NullString
		habits    sql.NullString
		emotion   sql.NullString
		mood      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.DailyRecordRecord{}
	err := scanner.Scan(&record.UserID, &record.DateKey, &missions, &habits, &emotion,
		&mood, &record.CompletedCount, &record.TotalHabits, &record.Percentage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if record.SelectedMissionIDs, err = decodeIDs(missions); err != nil {
		return nil, fmt.Errorf("failed to decode missions of %s: %w", record.DateKey, err)
	}
	if record.CompletedHabitIDs, err = decodeIDs(habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits of %s: %w", record.DateKey, err)
	}
	record.CheckInEmotion = emotion.String
	record.CheckInContext = mood.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Get retrieves the record of a user for a day, or nil if none exists.
func (r *DailyRecordRepository) Get(ctx context.Context, userID, dateKey string) (*secondary.DailyRecordRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+dailyRecordSelectCols+" FROM daily_records WHERE user_id = ? AND date_key = ?",
		userID, dateKey,
	)
	record, err := scanDailyRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily record: %w", err)
	}
	return record, nil
}

// UpsertMerge creates the record or merges the non-nil fields of patch into
// the stored one in a single statement.
func (r *DailyRecordRepository) UpsertMerge(ctx context.Context, patch *secondary.DailyRecordPatch) error {
	if patch.UserID == "" || patch.DateKey == "" {
		return fmt.Errorf("daily record patch needs user and date")
	}

	missions, err := encodeIDs(patch.SelectedMissionIDs)
	if err != nil {
		return err
	}
	habits, err := encodeIDs(patch.CompletedHabitIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_records (user_id, date_key, selected_mission_ids, completed_habit_ids,
			check_in_emotion, check_in_context, completed_count, total_habits, percentage)
		VALUES (?1, ?2, ?3, ?4, ?5, ?6, COALESCE(?7, 0), COALESCE(?8, 3), COALESCE(?9, 0))
		ON CONFLICT(user_id, date_key) DO UPDATE SET
			selected_mission_ids = COALESCE(?3, selected_mission_ids),
			completed_habit_ids = COALESCE(?4, completed_habit_ids),
			check_in_emotion = COALESCE(?5, check_in_emotion),
			check_in_context = COALESCE(?6, check_in_context),
			completed_count = COALESCE(?7, completed_count),
			total_habits = COALESCE(?8, total_habits),
			percentage = COALESCE(?9, percentage),
			updated_at = CURRENT_TIMESTAMP`,
		patch.UserID, patch.DateKey, missions, habits,
		nullStringPtr(patch.CheckInEmotion), nullStringPtr(patch.CheckInContext),
		nullIntPtr(patch.CompletedCount), nullIntPtr(patch.TotalHabits), nullIntPtr(patch.Percentage),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily record: %w", err)
	}
	return nil
}

// ListRange returns the records with from <= date <= to, oldest first.
func (r *DailyRecordRepository) ListRange(ctx context.Context, userID, from, to string) ([]*secondary.DailyRecordRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dailyRecordSelectCols+" FROM daily_records WHERE user_id = ? AND date_key BETWEEN ? AND ? ORDER BY date_key",
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}
	defer rows.Close()

	var records []*secondary.DailyRecordRecord
	for rows.Next() {
		record, err := scanDailyRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// encodeIDs stores a nil slice as NULL (preserve) and anything else as JSON.
func encodeIDs(ids []string) (sql.NullString, error) {
	if ids == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode ids: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeIDs(v sql.NullString) ([]string, error) {
	ids := []string{}
	if !v.Valid || v.String == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(v.String), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullIntPtr(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// Ensure DailyRecordRepository implements the interface
var _ secondary.DailyRecordRepository = (*DailyRecordRepository)(nil)
