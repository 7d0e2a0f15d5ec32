// Package streak contains the pure business logic of the streak state machine.
// This is part of the Functional Core - no I/O, only pure functions.
// Every transition takes a State by value and returns a new State; callers
// persist the result and keep their own copy untouched until that succeeds.
package streak

import (
	"errors"
	"time"

	"github.com/example/streak/internal/core/achievement"
	"github.com/example/streak/internal/core/datekey"
)

// ErrAlreadyCheckedIn is returned when a victory check-in is attempted on a
// day that already has one. Callers treat it as a no-op.
var ErrAlreadyCheckedIn = errors.New("already checked in today")

// Outcome is the result of reconciling persisted state against today.
// Outcomes are never persisted.
type Outcome string

const (
	OutcomeOK            Outcome = "OK"
	OutcomeNeedsRecovery Outcome = "NEEDS_RECOVERY"
	OutcomeReset         Outcome = "RESET"
)

// State is the persisted streak state of one user.
type State struct {
	CurrentStreak   int
	LongestStreak   int
	LastCheckIn     datekey.Key // zero when the user never checked in
	StreakStartedAt time.Time
	Unlocked        []string
	LastEpitaph     datekey.Key
}

// clone returns a copy that shares no slices with s.
func (s State) clone() State {
	out := s
	out.Unlocked = append([]string(nil), s.Unlocked...)
	return out
}

// lastCheckIn returns the last check-in key, or false when it is absent or
// malformed. A malformed key is treated as "no prior check-in": under-crediting
// is preferable to failing session start.
func (s State) lastCheckIn() (datekey.Key, bool) {
	if s.LastCheckIn.IsZero() || !s.LastCheckIn.Valid() {
		return "", false
	}
	return s.LastCheckIn, true
}

// CheckedInOn reports whether the state records a check-in on day.
func (s State) CheckedInOn(day datekey.Key) bool {
	last, ok := s.lastCheckIn()
	return ok && last == day
}

// Reconcile decides how a new session must proceed.
// Rules:
// - no (or malformed) last check-in: OK
// - diff 0 or 1 day: OK
// - diff 2 days (exactly one day missed): NEEDS_RECOVERY
// - diff > 2 days: RESET
// A negative diff (device clock moved backwards) is treated as OK.
func Reconcile(today datekey.Key, s State) Outcome {
	last, ok := s.lastCheckIn()
	if !ok {
		return OutcomeOK
	}
	diff, err := datekey.DaysBetween(last, today)
	if err != nil {
		return OutcomeOK
	}
	return OutcomeForDiff(diff)
}

// OutcomeForDiff maps a day difference to an outcome.
func OutcomeForDiff(diff int) Outcome {
	switch {
	case diff <= 1:
		return OutcomeOK
	case diff == 2:
		return OutcomeNeedsRecovery
	default:
		return OutcomeReset
	}
}

// ApplyReset zeroes the streak after a RESET outcome.
func ApplyReset(s State, today datekey.Key, now time.Time) State {
	out := s.clone()
	out.CurrentStreak = 0
	out.LastCheckIn = today
	out.StreakStartedAt = now
	return out
}

// CheckInResult is the outcome of a check-in transition.
type CheckInResult struct {
	State State
	// NewlyUnlocked holds achievement ids unlocked by this check-in.
	NewlyUnlocked []string
	// PreviousStreak is the streak length before a relapse. It is reported
	// for display only and is not persisted.
	PreviousStreak int
	Relapse        bool
}

// CheckIn applies a victory or relapse check-in for today.
func CheckIn(s State, isRelapse bool, today datekey.Key, now time.Time) (CheckInResult, error) {
	if isRelapse {
		out := s.clone()
		out.CurrentStreak = 0
		out.StreakStartedAt = now
		out.LastCheckIn = today
		return CheckInResult{
			State:          out,
			PreviousStreak: s.CurrentStreak,
			Relapse:        true,
		}, nil
	}

	if s.CheckedInOn(today) {
		return CheckInResult{State: s.clone()}, ErrAlreadyCheckedIn
	}

	out := s.clone()
	out.CurrentStreak++
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	out.LastCheckIn = today

	newly := achievement.Evaluate(out.CurrentStreak, out.Unlocked)
	out.Unlocked = achievement.Merge(out.Unlocked, newly)

	return CheckInResult{
		State:          out,
		NewlyUnlocked:  newly,
		PreviousStreak: s.CurrentStreak,
	}, nil
}

// RecoverySuccess forgives the missed day: streak and start are preserved.
func RecoverySuccess(s State, today datekey.Key) State {
	out := s.clone()
	out.LastCheckIn = today
	return out
}

// RecoveryFailure is a forced relapse.
func RecoveryFailure(s State, today datekey.Key, now time.Time) State {
	out := s.clone()
	out.CurrentStreak = 0
	out.LastCheckIn = today
	out.StreakStartedAt = now
	return out
}

// DayNumber returns the streak-relative day of day, where the streak start
// day is day 1. Days before the start yield values below 1.
func DayNumber(streakStart, day datekey.Key) (int, error) {
	diff, err := datekey.DaysBetween(streakStart, day)
	if err != nil {
		return 0, err
	}
	return diff + 1, nil
}
