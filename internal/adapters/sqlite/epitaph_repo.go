package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/example/streak/internal/ports/secondary"
)

// EpitaphRepository implements secondary.EpitaphRepository with SQLite.
type EpitaphRepository struct {
	db *sql.DB
}

// NewEpitaphRepository creates a new SQLite epitaph repository.
func NewEpitaphRepository(db *sql.DB) *EpitaphRepository {
	return &EpitaphRepository{db: db}
}

// Append persists a new entry. The UNIQUE(user_id, date_key) index turns a
// second same-day write into secondary.ErrDuplicateEpitaph.
func (r *EpitaphRepository) Append(ctx context.Context, entry *secondary.EpitaphRecord) error {
	if entry.ID == "" {
		return fmt.Errorf("epitaph ID must be pre-populated by service layer")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO epitaphs (id, user_id, content, day_number, date_key, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Content, entry.DayNumber, entry.DateKey, entry.CreatedAt,
	)
	if isUniqueViolation(err) {
		return secondary.ErrDuplicateEpitaph
	}
	if err != nil {
		return fmt.Errorf("failed to append epitaph: %w", err)
	}
	return nil
}

// List returns the newest entries first. A limit of 0 means no limit.
func (r *EpitaphRepository) List(ctx context.Context, userID string, limit int) ([]*secondary.EpitaphRecord, error) {
	query := "SELECT id, user_id, content, day_number, date_key, created_at FROM epitaphs WHERE user_id = ? ORDER BY date_key DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list epitaphs: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.EpitaphRecord
	for rows.Next() {
		e := &secondary.EpitaphRecord{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.DayNumber, &e.DateKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan epitaph: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Ensure EpitaphRepository implements the interface
var _ secondary.EpitaphRepository = (*EpitaphRepository)(nil)
