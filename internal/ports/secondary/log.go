package secondary

import "context"

// ActivityLog records streak transitions for later review.
// Implementations take the request id and calling surface from context.
type ActivityLog interface {
	// Record logs one transition of a user's streak. fieldName, oldValue and
	// newValue describe what changed and may be empty.
	Record(ctx context.Context, userID, action, fieldName, oldValue, newValue string) error
}

// ActivityLogRepository defines the secondary port for activity persistence.
type ActivityLogRepository interface {
	// Create persists a new entry.
	Create(ctx context.Context, record *ActivityRecord) error

	// List retrieves entries matching filters, newest first.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)

	// PruneOlderThan deletes entries older than days and returns how many were removed.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// ActivityRecord represents an activity log entry as stored in persistence.
type ActivityRecord struct {
	ID        string
	UserID    string
	Timestamp string
	Action    string // create, victory, relapse, reset, recovery_passed, recovery_failed
	FieldName string
	OldValue  string
	NewValue  string
	Source    string // cli, http, sync
	RequestID string
}

// ActivityFilters contains filter options for querying activity.
type ActivityFilters struct {
	UserID string
	Action string
	Limit  int
}
