package primary

import "context"

// EpitaphService defines the primary port for the milestone journal.
type EpitaphService interface {
	// Eligibility reports whether an epitaph can be written today.
	Eligibility(ctx context.Context, userID string) (*EpitaphEligibility, error)

	// Write saves today's epitaph.
	Write(ctx context.Context, req WriteEpitaphRequest) (*Epitaph, error)

	// List returns the newest entries first.
	List(ctx context.Context, userID string, limit int) ([]*Epitaph, error)
}

// EpitaphEligibility describes today's epitaph gate.
type EpitaphEligibility struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	MilestoneIndex int    `json:"milestone_index"`
	Today          string `json:"today"`
}

// WriteEpitaphRequest contains parameters for writing an epitaph.
type WriteEpitaphRequest struct {
	UserID  string
	Content string
}

// Epitaph represents a journal entry at the port boundary.
type Epitaph struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	DayNumber int    `json:"day_number"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`
}
