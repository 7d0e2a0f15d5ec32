package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/streak/internal/ports/primary"
)

// ActivityAdapter translates history CLI operations to ActivityService calls.
type ActivityAdapter struct {
	service primary.ActivityService
	out     io.Writer
}

// NewActivityAdapter creates a new ActivityAdapter with the given service.
func NewActivityAdapter(service primary.ActivityService, out io.Writer) *ActivityAdapter {
	return &ActivityAdapter{
		service: service,
		out:     out,
	}
}

// History prints the user's streak transitions, newest first.
func (a *ActivityAdapter) History(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error) {
	entries, err := a.service.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No activity recorded.")
		return entries, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tSTREAK\tSOURCE")
	fmt.Fprintln(w, "----\t------\t------\t------")
	for _, e := range entries {
		change := ""
		if e.FieldName != "" {
			change = e.OldValue + " → " + e.NewValue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, actionLabel(e.Action), change, e.Source)
	}
	w.Flush()
	return entries, nil
}

// Prune deletes entries older than days.
func (a *ActivityAdapter) Prune(ctx context.Context, days int) (int, error) {
	n, err := a.service.Prune(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Pruned %d entr(ies) older than %d days\n", n, days)
	return n, nil
}

func actionLabel(action string) string {
	switch action {
	case "victory", "recovery_passed":
		return color.New(color.FgGreen).Sprint(action)
	case "relapse", "reset", "recovery_failed":
		return color.New(color.FgRed).Sprint(action)
	default:
		return action
	}
}
