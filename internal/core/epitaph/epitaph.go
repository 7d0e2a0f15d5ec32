// Package epitaph contains the rules for milestone journal entries.
// This is part of the Functional Core - no I/O, only pure functions.
package epitaph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/streak"
)

// MaxContentRunes is the longest accepted entry.
const MaxContentRunes = 2000

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

// WriteContext provides context for epitaph write guards.
type WriteContext struct {
	Content string
	State   streak.State
	Today   datekey.Key
}

// CanWrite evaluates whether an entry may be saved.
// Rules:
// - content must not be blank and must fit MaxContentRunes
// - today must pass streak.CanWriteEpitaph
func CanWrite(ctx WriteContext) GuardResult {
	if r := CheckContent(ctx.Content); !r.Allowed {
		return r
	}

	gate := streak.CanWriteEpitaph(ctx.State, ctx.Today)
	if !gate.Allowed {
		return GuardResult{Allowed: false, Reason: gate.Reason}
	}

	return GuardResult{Allowed: true}
}

// CheckContent validates entry text on its own.
func CheckContent(content string) GuardResult {
	if strings.TrimSpace(content) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "epitaph content must not be empty",
		}
	}

	if n := utf8.RuneCountInString(content); n > MaxContentRunes {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("epitaph content is %d characters (max %d)", n, MaxContentRunes),
		}
	}

	return GuardResult{Allowed: true}
}

// DayNumber is the streak day an entry written today belongs to. An entry
// written on the day of a relapse (index 0) belongs to day 1 of the new streak.
func DayNumber(s streak.State, today datekey.Key) int {
	if n := streak.MilestoneIndex(s, today); n > 1 {
		return n
	}
	return 1
}
