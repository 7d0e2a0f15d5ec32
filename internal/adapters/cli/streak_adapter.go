package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/streak/internal/app"
	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/ports/primary"
)

// StreakAdapter is a thin adapter that translates CLI operations to StreakService calls.
type StreakAdapter struct {
	service primary.StreakService
	out     io.Writer
}

// NewStreakAdapter creates a new StreakAdapter with the given service.
func NewStreakAdapter(service primary.StreakService, out io.Writer) *StreakAdapter {
	return &StreakAdapter{
		service: service,
		out:     out,
	}
}

// Session reconciles today and prints what the user can do next.
func (a *StreakAdapter) Session(ctx context.Context, userID string) (*primary.SessionResponse, error) {
	resp, err := a.service.StartSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if resp.NewUser {
		fmt.Fprintf(a.out, "Welcome, %s! Your streak starts today.\n", userID)
	}
	switch resp.Outcome {
	case string(streak.OutcomeReset):
		fmt.Fprintf(a.out, "%s more than one day was missed; a %d-day streak was reset.\n",
			color.New(color.FgRed).Sprint("Streak lost:"), resp.StreakLost)
	case string(streak.OutcomeNeedsRecovery):
		fmt.Fprintf(a.out, "%s you missed one day. Run `streak recover` to keep your streak.\n",
			color.New(color.FgYellow).Sprint("Recovery available:"))
	}

	a.printStatus(resp.Status)
	fmt.Fprintf(a.out, "Day:      %d\n", resp.DayNumber)
	if resp.CanWriteEpitaph {
		fmt.Fprintln(a.out, color.New(color.FgHiMagenta).Sprint("Milestone day: you can write an epitaph today."))
	}
	return resp, nil
}

// Status prints the stored streak.
func (a *StreakAdapter) Status(ctx context.Context, userID string) (*primary.StreakStatus, error) {
	status, err := a.service.Status(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	a.printStatus(status)
	return status, nil
}

// CheckIn records a victory or relapse. A repeated victory is reported and
// is not an error.
func (a *StreakAdapter) CheckIn(ctx context.Context, req primary.CheckInRequest) (*primary.CheckInResponse, error) {
	resp, err := a.service.CheckIn(ctx, req)
	if errors.Is(err, streak.ErrAlreadyCheckedIn) {
		fmt.Fprintln(a.out, "Already checked in today. See you tomorrow!")
		return nil, nil
	}
	if errors.Is(err, app.ErrRecoveryRequired) {
		return nil, fmt.Errorf("%w (run `streak recover` or check in with --relapse)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check in: %w", err)
	}

	if resp.Relapse {
		fmt.Fprintf(a.out, "%s Relapse recorded after %d day(s). A new streak starts now.\n",
			color.New(color.FgYellow).Sprint("↺"), resp.PreviousStreak)
	} else {
		fmt.Fprintf(a.out, "%s Day %d done!\n", color.New(color.FgGreen).Sprint("✓"), resp.Status.CurrentStreak)
	}
	for _, ach := range resp.NewlyUnlocked {
		fmt.Fprintf(a.out, "%s %s (%d days)\n", color.New(color.FgHiYellow).Sprint("★ Achievement unlocked:"), ach.Title, ach.Threshold)
	}
	a.printStatus(resp.Status)
	return resp, nil
}

// Recover runs the interactive Recovery Challenge.
func (a *StreakAdapter) Recover(ctx context.Context, userID string) (*primary.RecoverResponse, error) {
	resp, err := a.service.RunRecoveryChallenge(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to recover: %w", err)
	}

	if resp.Success {
		fmt.Fprintf(a.out, "%s Your %d-day streak is safe.\n", color.New(color.FgGreen).Sprint("Challenge passed!"), resp.Status.CurrentStreak)
	} else {
		fmt.Fprintf(a.out, "%s The streak restarts today.\n", color.New(color.FgRed).Sprint("Challenge failed."))
	}
	return resp, nil
}

func (a *StreakAdapter) printStatus(s *primary.StreakStatus) {
	if s == nil {
		return
	}
	today := "not yet"
	if s.CheckedInToday {
		today = color.New(color.FgGreen).Sprint("done")
	}
	fmt.Fprintf(a.out, "\nStreak:   %d day(s) (best %d)\n", s.CurrentStreak, s.LongestStreak)
	fmt.Fprintf(a.out, "Today:    %s (%s)\n", s.Today, today)
	if len(s.Achievements) > 0 {
		fmt.Fprintf(a.out, "Unlocked: %s\n", strings.Join(s.Achievements, ", "))
	}
	if s.Next != nil {
		fmt.Fprintf(a.out, "Next:     %s in %d day(s)\n", s.Next.Title, s.Next.Threshold-s.CurrentStreak)
	}
}
