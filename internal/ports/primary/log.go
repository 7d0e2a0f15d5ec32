package primary

import "context"

// ActivityService defines the primary port for the streak activity log.
type ActivityService interface {
	// List retrieves a user's entries, newest first.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityEntry, error)

	// Prune deletes entries older than the specified number of days.
	Prune(ctx context.Context, olderThanDays int) (int, error)
}

// ActivityEntry represents one streak transition at the port boundary.
type ActivityEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	Source    string `json:"source,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ActivityFilters contains filter options for querying activity.
type ActivityFilters struct {
	UserID string
	Action string
	Limit  int
}
