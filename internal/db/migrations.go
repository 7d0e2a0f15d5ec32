package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_streak_and_daily_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_trigger_log_and_epitaphs",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_activity_log",
		Up:      migrationV3,
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the streak state, achievement and daily record tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS streak_states (
			user_id TEXT PRIMARY KEY,
			current_streak INTEGER NOT NULL DEFAULT 0 CHECK(current_streak >= 0),
			longest_streak INTEGER NOT NULL DEFAULT 0 CHECK(longest_streak >= 0),
			last_check_in_date TEXT,
			streak_started_at TEXT NOT NULL,
			last_epitaph_date TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS achievements (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, achievement_id),
			FOREIGN KEY (user_id) REFERENCES streak_states(user_id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS daily_records (
			user_id TEXT NOT NULL,
			date_key TEXT NOT NULL,
			selected_mission_ids TEXT,
			completed_habit_ids TEXT,
			check_in_emotion TEXT,
			check_in_context TEXT,
			completed_count INTEGER NOT NULL DEFAULT 0,
			total_habits INTEGER NOT NULL DEFAULT 3,
			percentage INTEGER NOT NULL DEFAULT 0 CHECK(percentage BETWEEN 0 AND 100),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, date_key)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create base tables: %w", err)
	}
	return nil
}

// migrationV2 adds the append-only trigger log and epitaph journal.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS trigger_events (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			emotion TEXT NOT NULL,
			context TEXT NOT NULL,
			intensity INTEGER NOT NULL CHECK(intensity BETWEEN 1 AND 5),
			kind TEXT NOT NULL CHECK(kind IN ('urgency', 'relapse')),
			date_key TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			day_number INTEGER NOT NULL CHECK(day_number >= 1),
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trigger_events_user_date ON trigger_events(user_id, date_key);

		CREATE TABLE IF NOT EXISTS epitaphs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			day_number INTEGER NOT NULL CHECK(day_number >= 0),
			date_key TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(user_id, date_key)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create trigger log and epitaph tables: %w", err)
	}
	return nil
}

// migrationV3 adds the streak activity log.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			action TEXT NOT NULL,
			field_name TEXT,
			old_value TEXT,
			new_value TEXT,
			source TEXT,
			request_id TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_activity_log_user_time ON activity_log(user_id, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create activity log table: %w", err)
	}
	return nil
}
