package streak

import (
	"fmt"

	"github.com/example/streak/internal/core/datekey"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// MilestoneIndex returns the streak index that today represents.
// If the user already checked in today the index is the current streak;
// otherwise it is the day about to be earned (current streak + 1).
func MilestoneIndex(s State, today datekey.Key) int {
	if s.CheckedInOn(today) {
		return s.CurrentStreak
	}
	return s.CurrentStreak + 1
}

// IsMilestone reports whether index is day 1 or a multiple of 7.
// Index 0 (relapsed, reset or failed recovery today) satisfies 0 mod 7 == 0
// and counts as a milestone; the entry is filed under day 1.
func IsMilestone(index int) bool {
	return index == 1 || index%7 == 0
}

// CanWriteEpitaph evaluates whether an epitaph entry may be saved today.
// Rules:
// - today must be a milestone day (see MilestoneIndex / IsMilestone)
// - no epitaph may have been saved today already
func CanWriteEpitaph(s State, today datekey.Key) GuardResult {
	index := MilestoneIndex(s, today)
	if !IsMilestone(index) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("day %d is not a milestone day (epitaphs open on day 1 and every 7th day)", index),
		}
	}

	if s.LastEpitaph == today {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("an epitaph was already written on %s", today),
		}
	}

	return GuardResult{Allowed: true}
}

// CanAttemptRecovery evaluates whether a Recovery Challenge may be presented.
// Rules:
// - Reconcile must return NEEDS_RECOVERY for today
func CanAttemptRecovery(s State, today datekey.Key) GuardResult {
	if outcome := Reconcile(today, s); outcome != OutcomeNeedsRecovery {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("recovery is only available after exactly one missed day (session outcome: %s)", outcome),
		}
	}

	return GuardResult{Allowed: true}
}
