// Package trigger contains the pure rules for urgency/relapse trigger events.
// This is part of the Functional Core - no I/O, only pure functions.
package trigger

import (
	"fmt"
	"time"

	"github.com/example/streak/internal/core/datekey"
)

// Kind distinguishes an urge that was resisted from an actual relapse.
type Kind string

const (
	KindUrgency Kind = "urgency"
	KindRelapse Kind = "relapse"
)

// Emotions is the catalog of emotions a trigger can be tagged with.
var Emotions = []string{
	"Estresse",
	"Ansiedade",
	"Tédio",
	"Solidão",
	"Tristeza",
	"Raiva",
	"Cansaço",
	"Euforia",
}

// Contexts is the catalog of situations a trigger can be tagged with.
var Contexts = []string{
	"Sozinho",
	"Em casa",
	"Trabalho",
	"Redes sociais",
	"Festa",
	"Insônia",
	"Após discussão",
	"Outro",
}

const (
	MinIntensity = 1
	MaxIntensity = 5
)

// Event is an append-only trigger log entry.
type Event struct {
	ID        string
	Emotion   string
	Context   string
	Intensity int
	Kind      Kind
	Date      datekey.Key
	TimeSlot  datekey.TimeSlot
	DayNumber int
	CreatedAt time.Time
}

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

// LogContext provides context for trigger logging guards.
type LogContext struct {
	Emotion   string
	Context   string
	Intensity int
	Kind      Kind
}

// CanLogTrigger evaluates whether a trigger event can be logged.
// Rules:
// - Emotion and context must come from the catalogs
// - Intensity must be within 1..5
// - Kind must be urgency or relapse
func CanLogTrigger(ctx LogContext) GuardResult {
	if !KnownEmotion(ctx.Emotion) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown emotion %q", ctx.Emotion),
		}
	}

	if !KnownContext(ctx.Context) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown context %q", ctx.Context),
		}
	}

	if ctx.Intensity < MinIntensity || ctx.Intensity > MaxIntensity {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("intensity must be between %d and %d (got %d)", MinIntensity, MaxIntensity, ctx.Intensity),
		}
	}

	if ctx.Kind != KindUrgency && ctx.Kind != KindRelapse {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown trigger kind %q", ctx.Kind),
		}
	}

	return GuardResult{Allowed: true}
}

// KnownEmotion reports whether e is in the emotion catalog.
func KnownEmotion(e string) bool {
	return contains(Emotions, e)
}

// KnownContext reports whether c is in the context catalog.
func KnownContext(c string) bool {
	return contains(Contexts, c)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// NewEvent builds an event recorded at the local instant at.
// The time slot is derived from at and dayNumber is clamped to at least 1.
func NewEvent(id string, ctx LogContext, at time.Time, loc *time.Location, dayNumber int) Event {
	if loc != nil {
		at = at.In(loc)
	}
	if dayNumber < 1 {
		dayNumber = 1
	}
	return Event{
		ID:        id,
		Emotion:   ctx.Emotion,
		Context:   ctx.Context,
		Intensity: ctx.Intensity,
		Kind:      ctx.Kind,
		Date:      datekey.FromTime(at, nil),
		TimeSlot:  datekey.SlotOf(at),
		DayNumber: dayNumber,
		CreatedAt: at,
	}
}
