// Package daily contains the pure rules for per-user, per-day records.
// This is part of the Functional Core - no I/O, only pure functions.
package daily

import (
	"math"

	"github.com/example/streak/internal/core/datekey"
)

// DefaultTotalHabits is the habit count assumed for a day without a record
// or with no recorded total.
const DefaultTotalHabits = 3

// MaxMissions is the maximum number of daily missions a user may select.
const MaxMissions = 3

// Record is the completion data of one user on one calendar day.
type Record struct {
	Date               datekey.Key
	SelectedMissionIDs []string
	CompletedHabitIDs  []string
	CheckInEmotion     string
	CheckInContext     string
	CompletedCount     int
	TotalHabits        int
	Percentage         int
}

// EffectiveTotal returns TotalHabits, falling back to DefaultTotalHabits.
func (r Record) EffectiveTotal() int {
	if r.TotalHabits <= 0 {
		return DefaultTotalHabits
	}
	return r.TotalHabits
}

// HasHabit reports whether habitID is already completed.
func (r Record) HasHabit(habitID string) bool {
	for _, id := range r.CompletedHabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

// Percentage returns round(100*completed/total) clamped to [0, 100].
// A non-positive total uses DefaultTotalHabits.
func Percentage(completed, total int) int {
	if total <= 0 {
		total = DefaultTotalHabits
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// CompleteHabit adds habitID to the completed set and recomputes the derived
// fields. Adding an already-completed habit is a no-op apart from the
// recomputation. The input record is not modified.
func CompleteHabit(r Record, habitID string) Record {
	out := r
	out.CompletedHabitIDs = append([]string(nil), r.CompletedHabitIDs...)
	if !r.HasHabit(habitID) {
		out.CompletedHabitIDs = append(out.CompletedHabitIDs, habitID)
	}
	return Recompute(out)
}

// Recompute refreshes CompletedCount, TotalHabits and Percentage.
func Recompute(r Record) Record {
	r.TotalHabits = r.EffectiveTotal()
	r.CompletedCount = len(r.CompletedHabitIDs)
	r.Percentage = Percentage(r.CompletedCount, r.TotalHabits)
	return r
}
