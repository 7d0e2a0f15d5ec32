package primary

import "context"

// DailyService defines the primary port for today's missions and habits.
type DailyService interface {
	// Today returns today's record, or an empty one if nothing was written yet.
	Today(ctx context.Context, userID string) (*DailyRecord, error)

	// SelectMissions sets today's missions. Missions can be chosen once per day.
	SelectMissions(ctx context.Context, req SelectMissionsRequest) (*DailyRecord, error)

	// CompleteHabit marks a habit as done today. Repeating it is a no-op.
	CompleteHabit(ctx context.Context, req CompleteHabitRequest) (*DailyRecord, error)
}

// DailyRecord represents one user's day at the port boundary.
type DailyRecord struct {
	UserID             string   `json:"user_id"`
	Date               string   `json:"date"`
	SelectedMissionIDs []string `json:"selected_mission_ids"`
	CompletedHabitIDs  []string `json:"completed_habit_ids"`
	CheckInEmotion     string   `json:"check_in_emotion,omitempty"`
	CheckInContext     string   `json:"check_in_context,omitempty"`
	CompletedCount     int      `json:"completed_count"`
	TotalHabits        int      `json:"total_habits"`
	Percentage         int      `json:"percentage"`
}

// SelectMissionsRequest contains parameters for selecting today's missions.
type SelectMissionsRequest struct {
	UserID     string
	MissionIDs []string
	// Date is the day being written. Empty means today; any other day is
	// rejected because past records are read-only.
	Date string
}

// CompleteHabitRequest contains parameters for completing a habit.
type CompleteHabitRequest struct {
	UserID  string
	HabitID string
	Date    string // empty means today
}
