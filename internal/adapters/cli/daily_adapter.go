package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/streak/internal/ports/primary"
)

// DailyAdapter translates CLI operations to DailyService calls.
type DailyAdapter struct {
	service primary.DailyService
	out     io.Writer
}

// NewDailyAdapter creates a new DailyAdapter with the given service.
func NewDailyAdapter(service primary.DailyService, out io.Writer) *DailyAdapter {
	return &DailyAdapter{
		service: service,
		out:     out,
	}
}

// Today prints today's missions and habit progress.
func (a *DailyAdapter) Today(ctx context.Context, userID string) (*primary.DailyRecord, error) {
	rec, err := a.service.Today(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's record: %w", err)
	}
	a.print(rec)
	return rec, nil
}

// SelectMissions sets today's missions.
func (a *DailyAdapter) SelectMissions(ctx context.Context, userID string, missionIDs []string) (*primary.DailyRecord, error) {
	rec, err := a.service.SelectMissions(ctx, primary.SelectMissionsRequest{UserID: userID, MissionIDs: missionIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to select missions: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Missions for %s: %s\n", rec.Date, strings.Join(rec.SelectedMissionIDs, ", "))
	return rec, nil
}

// CompleteHabit marks a habit as done.
func (a *DailyAdapter) CompleteHabit(ctx context.Context, userID, habitID string) (*primary.DailyRecord, error) {
	rec, err := a.service.CompleteHabit(ctx, primary.CompleteHabitRequest{UserID: userID, HabitID: habitID})
	if err != nil {
		return nil, fmt.Errorf("failed to complete habit: %w", err)
	}
	fmt.Fprintf(a.out, "✓ %s done (%d/%d, %d%%)\n", habitID, rec.CompletedCount, rec.TotalHabits, rec.Percentage)
	return rec, nil
}

func (a *DailyAdapter) print(rec *primary.DailyRecord) {
	fmt.Fprintf(a.out, "Day %s\n", rec.Date)

	if len(rec.SelectedMissionIDs) == 0 {
		fmt.Fprintln(a.out, "Missions: none selected (streak missions select <id>...)")
	} else {
		fmt.Fprintf(a.out, "Missions: %s\n", strings.Join(rec.SelectedMissionIDs, ", "))
	}

	fmt.Fprintf(a.out, "Habits:   %s %d/%d (%d%%)\n", bar(rec.Percentage, 20), rec.CompletedCount, rec.TotalHabits, rec.Percentage)
	for _, id := range rec.CompletedHabitIDs {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgGreen).Sprint("✓"), id)
	}
	if rec.CheckInEmotion != "" {
		fmt.Fprintf(a.out, "Mood:     %s / %s\n", rec.CheckInEmotion, rec.CheckInContext)
	}
}

// bar renders value (0-100) as a fixed-width bar.
func bar(value, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	filled := value * width / 100
	c := color.New(color.FgRed)
	switch {
	case value == 100:
		c = color.New(color.FgGreen)
	case value >= 50:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(strings.Repeat("█", filled)) + strings.Repeat("·", width-filled)
}
