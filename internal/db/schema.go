package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it via GetSchemaSQL() into an in-memory database, so a column
// referenced by repository code but missing here fails with "no such column"
// at test time.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Streak state (one row per user, owned by the streak state machine)
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

-- Unlocked achievements (never revoked)
CREATE TABLE IF NOT EXISTS achievements (
	user_id TEXT NOT NULL,
	achievement_id TEXT NOT NULL,
	unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, achievement_id),
	FOREIGN KEY (user_id) REFERENCES streak_states(user_id) ON DELETE CASCADE
);

-- Daily records (one per user per calendar day)
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

-- Trigger log (append-only)
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

-- Epitaph journal (append-only, at most one entry per user per day)
CREATE TABLE IF NOT EXISTS epitaphs (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	content TEXT NOT NULL,
	day_number INTEGER NOT NULL CHECK(day_number >= 0),
	date_key TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(user_id, date_key)
);

-- Activity log (streak transitions with the surface that caused them)
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
`

// InitSchema creates the database schema on a fresh database, or runs any
// pending migrations on an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Fresh install - create the schema directly and mark every migration
	// as applied.
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
