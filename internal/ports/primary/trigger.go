package primary

import "context"

// TriggerService defines the primary port for the trigger log.
type TriggerService interface {
	// LogTrigger appends an urgency (or relapse) event to the trigger log.
	LogTrigger(ctx context.Context, req LogTriggerRequest) (*TriggerEvent, error)
}

// LogTriggerRequest contains parameters for logging a trigger.
type LogTriggerRequest struct {
	UserID    string
	Emotion   string
	Context   string
	Intensity int
	Kind      string // defaults to "urgency"
}

// TriggerEvent represents a logged trigger at the port boundary.
type TriggerEvent struct {
	ID        string `json:"id"`
	Emotion   string `json:"emotion"`
	Context   string `json:"context"`
	Intensity int    `json:"intensity"`
	Kind      string `json:"kind"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	DayNumber int    `json:"day_number"`
	CreatedAt string `json:"created_at"`
}
