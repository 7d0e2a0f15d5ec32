package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/streak/internal/ports/primary"
)

// JournalAdapter translates trigger and epitaph CLI operations to service calls.
type JournalAdapter struct {
	triggers primary.TriggerService
	epitaphs primary.EpitaphService
	out      io.Writer
}

// NewJournalAdapter creates a new JournalAdapter with the given services.
func NewJournalAdapter(triggers primary.TriggerService, epitaphs primary.EpitaphService, out io.Writer) *JournalAdapter {
	return &JournalAdapter{
		triggers: triggers,
		epitaphs: epitaphs,
		out:      out,
	}
}

// LogTrigger records an urgency.
func (a *JournalAdapter) LogTrigger(ctx context.Context, req primary.LogTriggerRequest) (*primary.TriggerEvent, error) {
	ev, err := a.triggers.LogTrigger(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to log trigger: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Logged %s: %s / %s (intensity %d, %s, day %d)\n",
		ev.Kind, ev.Emotion, ev.Context, ev.Intensity, ev.TimeSlot, ev.DayNumber)
	fmt.Fprintln(a.out, "The urge will pass. Breathe.")
	return ev, nil
}

// EpitaphStatus prints whether an epitaph can be written today.
func (a *JournalAdapter) EpitaphStatus(ctx context.Context, userID string) (*primary.EpitaphEligibility, error) {
	el, err := a.epitaphs.Eligibility(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check epitaph: %w", err)
	}
	if el.Allowed {
		fmt.Fprintf(a.out, "%s Day %d is a milestone. Write with: streak epitaph write \"...\"\n",
			color.New(color.FgHiMagenta).Sprint("✎"), el.MilestoneIndex)
	} else {
		fmt.Fprintf(a.out, "Epitaph closed today: %s\n", el.Reason)
	}
	return el, nil
}

// WriteEpitaph saves today's entry.
func (a *JournalAdapter) WriteEpitaph(ctx context.Context, userID, content string) (*primary.Epitaph, error) {
	entry, err := a.epitaphs.Write(ctx, primary.WriteEpitaphRequest{UserID: userID, Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to write epitaph: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Epitaph saved for day %d (%s)\n", entry.DayNumber, entry.Date)
	return entry, nil
}

// ListEpitaphs prints the newest entries first.
func (a *JournalAdapter) ListEpitaphs(ctx context.Context, userID string, limit int) ([]*primary.Epitaph, error) {
	entries, err := a.epitaphs.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list epitaphs: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No epitaphs yet. They open on day 1 and every 7th day.")
		return entries, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tENTRY")
	fmt.Fprintln(w, "----\t---\t-----")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Date, e.DayNumber, e.Content)
	}
	w.Flush()
	return entries, nil
}
