// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// StreakService defines the primary port for the streak state machine.
type StreakService interface {
	// StartSession reconciles the stored state against today. A RESET outcome
	// is persisted before returning; first-ever sessions create the state.
	StartSession(ctx context.Context, userID string) (*SessionResponse, error)

	// CheckIn records today's victory or relapse. A second victory on the
	// same day returns streak.ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResponse, error)

	// Recover applies a Recovery Challenge outcome. Only valid when the
	// session outcome is NEEDS_RECOVERY.
	Recover(ctx context.Context, req RecoverRequest) (*RecoverResponse, error)

	// RunRecoveryChallenge presents the challenge and applies its outcome.
	RunRecoveryChallenge(ctx context.Context, userID string) (*RecoverResponse, error)

	// Status returns the stored state without reconciling it.
	Status(ctx context.Context, userID string) (*StreakStatus, error)
}

// StreakStatus represents a user's streak at the port boundary.
type StreakStatus struct {
	UserID          string   `json:"user_id"`
	CurrentStreak   int      `json:"current_streak"`
	LongestStreak   int      `json:"longest_streak"`
	LastCheckInDate string   `json:"last_check_in_date,omitempty"`
	StreakStartedAt string   `json:"streak_started_at"`
	LastEpitaphDate string   `json:"last_epitaph_date,omitempty"`
	Achievements    []string `json:"achievements"`
	Today           string   `json:"today"`
	CheckedInToday  bool     `json:"checked_in_today"`
	// Next is the next achievement the current streak is heading for.
	Next *Achievement `json:"next_achievement,omitempty"`
}

// Achievement is an unlocked achievement at the port boundary.
type Achievement struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Threshold int    `json:"threshold"`
}

// SessionResponse contains the result of reconciling a session.
type SessionResponse struct {
	Outcome string        `json:"outcome"`
	Status  *StreakStatus `json:"status"`
	// StreakLost is the streak length zeroed by a RESET in this session.
	StreakLost      int  `json:"streak_lost,omitempty"`
	NewUser         bool `json:"new_user,omitempty"`
	CanWriteEpitaph bool `json:"can_write_epitaph"`
	DayNumber       int  `json:"day_number"`
}

// CheckInRequest contains parameters for a check-in.
type CheckInRequest struct {
	UserID  string
	Relapse bool
	// Optional relapse details. When Emotion and Context are set a relapse
	// trigger event is logged and today's record stores them.
	Emotion   string
	Context   string
	Intensity int
}

// CheckInResponse contains the result of a check-in.
type CheckInResponse struct {
	Status         *StreakStatus `json:"status"`
	NewlyUnlocked  []Achievement `json:"newly_unlocked"`
	PreviousStreak int           `json:"previous_streak"`
	Relapse        bool          `json:"relapse"`
}

// RecoverRequest contains a Recovery Challenge outcome.
type RecoverRequest struct {
	UserID  string
	Success bool
}

// RecoverResponse contains the state after a Recovery Challenge.
type RecoverResponse struct {
	Success bool          `json:"success"`
	Status  *StreakStatus `json:"status"`
}
