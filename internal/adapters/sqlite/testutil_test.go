// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/streak/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each new connection to ":memory:" is a fresh, empty database.
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedStreakState inserts a streak state row for userID.
func seedStreakState(t *testing.T, db *sql.DB, userID string, current int, lastCheckIn string) {
	t.Helper()
	var last any
	if lastCheckIn != "" {
		last = lastCheckIn
	}
	_, err := db.Exec(
		"INSERT INTO streak_states (user_id, current_streak, longest_streak, last_check_in_date, streak_started_at) VALUES (?, ?, ?, ?, ?)",
		userID, current, current, last, "2024-01-01T08:00:00Z",
	)
	if err != nil {
		t.Fatalf("failed to seed streak state: %v", err)
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
