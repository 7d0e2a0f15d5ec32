// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrStaleWrite is returned by a conditional update whose precondition no
// longer holds because another session wrote first.
var ErrStaleWrite = errors.New("stale write: state changed since it was read")

// ErrDuplicateEpitaph is returned when an epitaph already exists for the
// user and day.
var ErrDuplicateEpitaph = errors.New("epitaph already written for this day")

// StreakStateRepository defines the secondary port for streak state persistence.
type StreakStateRepository interface {
	// Get retrieves the streak state of a user. Unknown users yield a
	// record with Exists=false rather than an error.
	Get(ctx context.Context, userID string) (*StreakStateRecord, error)

	// Create persists the initial state of a new user.
	Create(ctx context.Context, record *StreakStateRecord) error

	// Update applies a partial, field-level update. Nil fields are preserved.
	// When UnlessCheckedInOn is set and the stored last check-in equals it,
	// nothing is written and ErrStaleWrite is returned.
	Update(ctx context.Context, patch *StreakStatePatch) error

	// ListUserIDs returns every user with persisted state.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// StreakStateRecord represents a user's streak state as stored in persistence.
type StreakStateRecord struct {
	UserID          string
	Exists          bool
	CurrentStreak   int
	LongestStreak   int
	LastCheckInDate string // "YYYY-MM-DD" or empty
	StreakStartedAt string // RFC3339
	LastEpitaphDate string
	Achievements    []string // unlock order
	CreatedAt       string
	UpdatedAt       string
}

// StreakStatePatch is a partial update of a streak state.
type StreakStatePatch struct {
	UserID          string
	CurrentStreak   *int
	LongestStreak   *int
	LastCheckInDate *string
	StreakStartedAt *string
	LastEpitaphDate *string
	// AddAchievements are unioned into the stored set.
	AddAchievements []string
	// UnlessCheckedInOn makes the update conditional (see Update).
	UnlessCheckedInOn string
}

// DailyRecordRepository defines the secondary port for per-day records.
type DailyRecordRepository interface {
	// Get retrieves the record of a user for a day, or nil if none exists.
	Get(ctx context.Context, userID, dateKey string) (*DailyRecordRecord, error)

	// UpsertMerge creates the record or merges the non-nil fields of patch
	// into the existing one.
	UpsertMerge(ctx context.Context, patch *DailyRecordPatch) error

	// ListRange returns the records with from <= date <= to, oldest first.
	ListRange(ctx context.Context, userID, from, to string) ([]*DailyRecordRecord, error)
}

// DailyRecordRecord represents a daily record as stored in persistence.
type DailyRecordRecord struct {
	UserID             string
	DateKey            string
	SelectedMissionIDs []string
	CompletedHabitIDs  []string
	CheckInEmotion     string
	CheckInContext     string
	CompletedCount     int
	TotalHabits        int
	Percentage         int
	CreatedAt          string
	UpdatedAt          string
}

// DailyRecordPatch is a partial update of a daily record. Nil fields are preserved.
type DailyRecordPatch struct {
	UserID             string
	DateKey            string
	SelectedMissionIDs []string
	CompletedHabitIDs  []string
	CheckInEmotion     *string
	CheckInContext     *string
	CompletedCount     *int
	TotalHabits        *int
	Percentage         *int
}

// TriggerLogRepository defines the secondary port for the append-only trigger log.
type TriggerLogRepository interface {
	// Append persists a new trigger event.
	Append(ctx context.Context, event *TriggerEventRecord) error

	// QueryFrom returns the events with date >= dateKey, oldest first.
	QueryFrom(ctx context.Context, userID, dateKey string) ([]*TriggerEventRecord, error)
}

// TriggerEventRecord represents a trigger event as stored in persistence.
type TriggerEventRecord struct {
	ID        string
	UserID    string
	Emotion   string
	Context   string
	Intensity int
	Kind      string
	DateKey   string
	TimeSlot  string
	DayNumber int
	CreatedAt string
}

// EpitaphRepository defines the secondary port for the epitaph journal.
type EpitaphRepository interface {
	// Append persists a new entry. A second entry for the same user and day
	// fails with ErrDuplicateEpitaph.
	Append(ctx context.Context, entry *EpitaphRecord) error

	// List returns the newest entries first. A limit of 0 means no limit.
	List(ctx context.Context, userID string, limit int) ([]*EpitaphRecord, error)
}

// EpitaphRecord represents an epitaph entry as stored in persistence.
type EpitaphRecord struct {
	ID        string
	UserID    string
	Content   string
	DayNumber int
	DateKey   string
	CreatedAt string
}
