package primary

import "context"

// AnalyticsService defines the primary port for adherence analytics.
type AnalyticsService interface {
	// ComputeWindow returns the report for the rangeDays window ending today.
	// It never mutates streak state.
	ComputeWindow(ctx context.Context, userID string, rangeDays int) (*AnalyticsReport, error)
}

// SyncService defines the primary port for background recomputation.
type SyncService interface {
	// RecomputeAll recomputes every window of every user, one at a time.
	RecomputeAll(ctx context.Context) (*SyncSummary, error)
}

// AnalyticsReport is an adherence window at the port boundary.
type AnalyticsReport struct {
	UserID      string          `json:"user_id"`
	RangeDays   int             `json:"range_days"`
	WindowStart string          `json:"window_start"`
	Today       string          `json:"today"`
	Series      []SeriesPoint   `json:"series"`
	Average     int             `json:"average"`
	PerfectDays int             `json:"perfect_days"`
	Insight     *TriggerInsight `json:"insight"`
}

// SeriesPoint is one day of the completion series.
type SeriesPoint struct {
	Label    string `json:"label"`
	Date     string `json:"date"`
	Value    int    `json:"value"`
	RawCount int    `json:"raw_count"`
}

// TriggerTally is a counted trigger attribute.
type TriggerTally struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// TriggerInsight ranks the trigger events of a window.
type TriggerInsight struct {
	Total            int            `json:"total"`
	TopEmotion       TriggerTally   `json:"top_emotion"`
	TopContext       TriggerTally   `json:"top_context"`
	TopTimeSlot      TriggerTally   `json:"top_time_slot"`
	Ranking          []TriggerTally `json:"ranking"`
	AverageIntensity float64        `json:"average_intensity"`
	UrgencyCount     int            `json:"urgency_count"`
	RelapseCount     int            `json:"relapse_count"`
}

// SyncSummary reports the outcome of a RecomputeAll run.
type SyncSummary struct {
	Users    int      `json:"users"`
	Windows  int      `json:"windows"`
	Failures []string `json:"failures,omitempty"`
}
