// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/streak/internal/ports/secondary"
)

// StreakStateRepository implements secondary.StreakStateRepository with SQLite.
type StreakStateRepository struct {
	db *sql.DB
}

// NewStreakStateRepository creates a new SQLite streak state repository.
func NewStreakStateRepository(db *sql.DB) *StreakStateRepository {
	return &StreakStateRepository{db: db}
}

const streakStateSelectCols = "user_id, current_streak, longest_streak, last_check_in_date, streak_started_at, last_epitaph_date, created_at, updated_at"

// Get retrieves the streak state of a user.
func (r *StreakStateRepository) Get(ctx context.Context, userID string) (*secondary.StreakStateRecord, error) {
	var (
		lastCheckIn sql.NullString
		lastEpitaph sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	record := &secondary.StreakStateRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+streakStateSelectCols+" FROM streak_states WHERE user_id = ?",
		userID,
	).Scan(&record.UserID, &record.CurrentStreak, &record.LongestStreak, &lastCheckIn,
		&record.StreakStartedAt, &lastEpitaph, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return &secondary.StreakStateRecord{UserID: userID, Exists: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}

	record.Exists = true
	record.LastCheckInDate = lastCheckIn.String
	record.LastEpitaphDate = lastEpitaph.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	achievements, err := r.listAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	record.Achievements = achievements

	return record, nil
}

func (r *StreakStateRepository) listAchievements(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT achievement_id FROM achievements WHERE user_id = ? ORDER BY rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create persists the initial state of a new user.
func (r *StreakStateRepository) Create(ctx context.Context, record *secondary.StreakStateRecord) error {
	if record.UserID == "" {
		return fmt.Errorf("user ID must be pre-populated by service layer")
	}
	if record.StreakStartedAt == "" {
		return fmt.Errorf("streak start must be pre-populated by service layer")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO streak_states (user_id, current_streak, longest_streak, last_check_in_date, streak_started_at, last_epitaph_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.UserID, record.CurrentStreak, record.LongestStreak,
		nullString(record.LastCheckInDate), record.StreakStartedAt, nullString(record.LastEpitaphDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create streak state: %w", err)
	}

	if err := insertAchievements(ctx, tx, record.UserID, record.Achievements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit streak state: %w", err)
	}
	return nil
}

// Update applies a partial update. Achievements are unioned in the same
// transaction so a check-in and its unlocks land together.
func (r *StreakStateRepository) Update(ctx context.Context, patch *secondary.StreakStatePatch) error {
	// Build dynamic query based on what's being updated
	query := "UPDATE streak_states SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if patch.CurrentStreak != nil {
		query += ", current_streak = ?"
		args = append(args, *patch.CurrentStreak)
	}
	if patch.LongestStreak != nil {
		query += ", longest_streak = ?"
		args = append(args, *patch.LongestStreak)
	}
	if patch.LastCheckInDate != nil {
		query += ", last_check_in_date = ?"
		args = append(args, nullString(*patch.LastCheckInDate))
	}
	if patch.StreakStartedAt != nil {
		query += ", streak_started_at = ?"
		args = append(args, *patch.StreakStartedAt)
	}
	if patch.LastEpitaphDate != nil {
		query += ", last_epitaph_date = ?"
		args = append(args, nullString(*patch.LastEpitaphDate))
	}

	query += " WHERE user_id = ?"
	args = append(args, patch.UserID)

	if patch.UnlessCheckedInOn != "" {
		query += " AND (last_check_in_date IS NULL OR last_check_in_date != ?)"
		args = append(args, patch.UnlessCheckedInOn)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update streak state: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM streak_states WHERE user_id = ?", patch.UserID).Scan(&count); err != nil {
			return fmt.Errorf("failed to check streak state: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("streak state for %s not found", patch.UserID)
		}
		return secondary.ErrStaleWrite
	}

	if err := insertAchievements(ctx, tx, patch.UserID, patch.AddAchievements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit streak state: %w", err)
	}
	return nil
}

func insertAchievements(ctx context.Context, tx *sql.Tx, userID string, ids []string) error {
	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO achievements (user_id, achievement_id) VALUES (?, ?)",
			userID, id,
		)
		if err != nil {
			return fmt.Errorf("failed to unlock achievement %s: %w", id, err)
		}
	}
	return nil
}

// ListUserIDs returns every user with persisted state.
func (r *StreakStateRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT user_id FROM streak_states ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure StreakStateRepository implements the interface
var _ secondary.StreakStateRepository = (*StreakStateRepository)(nil)
