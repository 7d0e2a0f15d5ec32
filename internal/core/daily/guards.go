package daily

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

// WriteDayContext provides context for any write to a daily record.
type WriteDayContext struct {
	Day   datekey.Key
	Today datekey.Key
}

// SelectMissionsContext provides context for mission selection guards.
type SelectMissionsContext struct {
	Existing  []string // missions already selected today
	Requested []string
}

// SetMoodContext provides context for check-in emotion/context guards.
type SetMoodContext struct {
	ExistingEmotion string
	ExistingContext string
}

// CanWriteDay evaluates whether a daily record may be written.
// Rules:
// - Day must be a valid key
// - Day must be today (records are immutable once the day is in the past,
//   and future days cannot be written ahead of time)
func CanWriteDay(ctx WriteDayContext) GuardResult {
	if !ctx.Day.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid day %q", ctx.Day),
		}
	}

	if ctx.Day != ctx.Today {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("record for %s is read-only (only %s can be written)", ctx.Day, ctx.Today),
		}
	}

	return GuardResult{Allowed: true}
}

// CanSelectMissions evaluates whether today's missions can be selected.
// Rules:
// - Missions are selected once per day
// - Between 1 and MaxMissions missions
// - No duplicates or empty ids
func CanSelectMissions(ctx SelectMissionsContext) GuardResult {
	if len(ctx.Existing) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("missions already selected today (%d)", len(ctx.Existing)),
		}
	}

	if len(ctx.Requested) == 0 || len(ctx.Requested) > MaxMissions {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("select between 1 and %d missions (got %d)", MaxMissions, len(ctx.Requested)),
		}
	}

	seen := make(map[string]bool, len(ctx.Requested))
	for _, id := range ctx.Requested {
		if id == "" {
			return GuardResult{Allowed: false, Reason: "mission id must not be empty"}
		}
		if seen[id] {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("mission %s selected twice", id),
			}
		}
		seen[id] = true
	}

	return GuardResult{Allowed: true}
}

// CanSetCheckInMood evaluates whether the check-in emotion/context can be set.
// Rules:
// - Set at most once per day
func CanSetCheckInMood(ctx SetMoodContext) GuardResult {
	if ctx.ExistingEmotion != "" || ctx.ExistingContext != "" {
		return GuardResult{
			Allowed: false,
			Reason:  "check-in emotion and context are already recorded for today",
		}
	}

	return GuardResult{Allowed: true}
}
