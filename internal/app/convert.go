package app

import (
	"context"
	"time"

	"github.com/example/streak/internal/core/achievement"
	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/core/trigger"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

func recordToState(r *secondary.StreakStateRecord) streak.State {
	s := streak.State{
		CurrentStreak: r.CurrentStreak,
		LongestStreak: r.LongestStreak,
		LastCheckIn:   datekey.Key(r.LastCheckInDate),
		LastEpitaph:   datekey.Key(r.LastEpitaphDate),
		Unlocked:      append([]string(nil), r.Achievements...),
	}
	if t, err := time.Parse(time.RFC3339, r.StreakStartedAt); err == nil {
		s.StreakStartedAt = t
	}
	return s
}

// startKey returns the calendar day the streak started on, or "" when unknown.
func startKey(s streak.State, loc *time.Location) datekey.Key {
	if s.StreakStartedAt.IsZero() {
		return ""
	}
	return datekey.FromTime(s.StreakStartedAt, loc)
}

// streakDay returns the streak-relative number of today, at least 1.
func streakDay(s streak.State, today datekey.Key, loc *time.Location) int {
	n, err := streak.DayNumber(startKey(s, loc), today)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func stateToStatus(userID string, s streak.State, today datekey.Key) *primary.StreakStatus {
	status := &primary.StreakStatus{
		UserID:          userID,
		CurrentStreak:   s.CurrentStreak,
		LongestStreak:   s.LongestStreak,
		LastCheckInDate: string(s.LastCheckIn),
		LastEpitaphDate: string(s.LastEpitaph),
		Achievements:    append([]string{}, s.Unlocked...),
		Today:           string(today),
		CheckedInToday:  s.CheckedInOn(today),
	}
	if !s.StreakStartedAt.IsZero() {
		status.StreakStartedAt = s.StreakStartedAt.Format(time.RFC3339)
	}
	if next, ok := achievement.Next(s.CurrentStreak); ok {
		status.Next = &primary.Achievement{ID: next.ID, Title: next.Title, Threshold: next.Threshold}
	}
	return status
}

func achievementsFor(ids []string) []primary.Achievement {
	out := make([]primary.Achievement, 0, len(ids))
	for _, id := range ids {
		a, ok := achievement.Lookup(id)
		if !ok {
			out = append(out, primary.Achievement{ID: id, Title: id})
			continue
		}
		out = append(out, primary.Achievement{ID: a.ID, Title: a.Title, Threshold: a.Threshold})
	}
	return out
}

func recordToDaily(r *secondary.DailyRecordRecord) daily.Record {
	return daily.Record{
		Date:               datekey.Key(r.DateKey),
		SelectedMissionIDs: append([]string{}, r.SelectedMissionIDs...),
		CompletedHabitIDs:  append([]string{}, r.CompletedHabitIDs...),
		CheckInEmotion:     r.CheckInEmotion,
		CheckInContext:     r.CheckInContext,
		CompletedCount:     r.CompletedCount,
		TotalHabits:        r.TotalHabits,
		Percentage:         r.Percentage,
	}
}

func emptyDaily(day datekey.Key) daily.Record {
	return daily.Record{
		Date:               day,
		SelectedMissionIDs: []string{},
		CompletedHabitIDs:  []string{},
		TotalHabits:        daily.DefaultTotalHabits,
	}
}

func dailyToPrimary(userID string, r daily.Record) *primary.DailyRecord {
	return &primary.DailyRecord{
		UserID:             userID,
		Date:               string(r.Date),
		SelectedMissionIDs: append([]string{}, r.SelectedMissionIDs...),
		CompletedHabitIDs:  append([]string{}, r.CompletedHabitIDs...),
		CheckInEmotion:     r.CheckInEmotion,
		CheckInContext:     r.CheckInContext,
		CompletedCount:     r.CompletedCount,
		TotalHabits:        r.EffectiveTotal(),
		Percentage:         r.Percentage,
	}
}

func eventToRecord(userID string, e trigger.Event) *secondary.TriggerEventRecord {
	return &secondary.TriggerEventRecord{
		ID:        e.ID,
		UserID:    userID,
		Emotion:   e.Emotion,
		Context:   e.Context,
		Intensity: e.Intensity,
		Kind:      string(e.Kind),
		DateKey:   string(e.Date),
		TimeSlot:  string(e.TimeSlot),
		DayNumber: e.DayNumber,
		CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
	}
}

func recordToEvent(r *secondary.TriggerEventRecord) trigger.Event {
	e := trigger.Event{
		ID:        r.ID,
		Emotion:   r.Emotion,
		Context:   r.Context,
		Intensity: r.Intensity,
		Kind:      trigger.Kind(r.Kind),
		Date:      datekey.Key(r.DateKey),
		TimeSlot:  datekey.TimeSlot(r.TimeSlot),
		DayNumber: r.DayNumber,
	}
	if t, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		e.CreatedAt = t
	}
	// An unknown stored slot is derived from the recorded instant.
	if !datekey.ValidSlot(e.TimeSlot) && !e.CreatedAt.IsZero() {
		e.TimeSlot = datekey.SlotOf(e.CreatedAt)
	}
	return e
}

func eventToPrimary(e trigger.Event) *primary.TriggerEvent {
	return &primary.TriggerEvent{
		ID:        e.ID,
		Emotion:   e.Emotion,
		Context:   e.Context,
		Intensity: e.Intensity,
		Kind:      string(e.Kind),
		Date:      string(e.Date),
		TimeSlot:  string(e.TimeSlot),
		DayNumber: e.DayNumber,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// invalidateAnalytics drops cached reports after a write. Failures are
// logged; a stale entry expires with its TTL.
func invalidateAnalytics(ctx context.Context, cache secondary.AnalyticsCache, log *logger.Logger, userID string) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateUser(ctx, userID); err != nil {
		log.Warn("analytics cache invalidation failed", "user", userID, "error", err)
	}
}
