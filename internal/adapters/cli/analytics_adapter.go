package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/streak/internal/ports/primary"
)

// AnalyticsAdapter translates analytics CLI operations to service calls.
type AnalyticsAdapter struct {
	analytics primary.AnalyticsService
	sync      primary.SyncService
	out       io.Writer
}

// NewAnalyticsAdapter creates a new AnalyticsAdapter. sync may be nil.
func NewAnalyticsAdapter(analytics primary.AnalyticsService, sync primary.SyncService, out io.Writer) *AnalyticsAdapter {
	return &AnalyticsAdapter{
		analytics: analytics,
		sync:      sync,
		out:       out,
	}
}

// Show prints a window as a chart, or as JSON when asJSON is set.
func (a *AnalyticsAdapter) Show(ctx context.Context, userID string, rangeDays int, asJSON bool) (*primary.AnalyticsReport, error) {
	report, err := a.analytics.ComputeWindow(ctx, userID, rangeDays)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return report, nil
	}

	fmt.Fprintf(a.out, "Adherence %s → %s (%d days)\n\n", report.WindowStart, report.Today, report.RangeDays)
	if len(report.Series) == 0 {
		fmt.Fprintln(a.out, "No streak days in this window yet.")
	}
	for _, p := range report.Series {
		fmt.Fprintf(a.out, "%-4s %s %s %3d%%\n", p.Label, p.Date, bar(p.Value, 20), p.Value)
	}
	fmt.Fprintf(a.out, "\nAverage: %d%%   Perfect days: %d\n", report.Average, report.PerfectDays)

	in := report.Insight
	if in == nil {
		fmt.Fprintln(a.out, "No triggers logged in this window.")
		return report, nil
	}
	fmt.Fprintf(a.out, "\n%s %d (urgency %d, relapse %d, avg intensity %.1f)\n",
		color.New(color.FgCyan).Sprint("Triggers:"), in.Total, in.UrgencyCount, in.RelapseCount, in.AverageIntensity)
	fmt.Fprintf(a.out, "  Top emotion: %s (%d%%)\n", in.TopEmotion.Name, in.TopEmotion.Percentage)
	fmt.Fprintf(a.out, "  Top context: %s (%d%%)\n", in.TopContext.Name, in.TopContext.Percentage)
	fmt.Fprintf(a.out, "  Top time:    %s (%d%%)\n", in.TopTimeSlot.Name, in.TopTimeSlot.Percentage)
	for i, t := range in.Ranking {
		fmt.Fprintf(a.out, "  %d. %s ×%d\n", i+1, t.Name, t.Count)
	}
	return report, nil
}

// Sync recomputes every window once and prints the summary.
func (a *AnalyticsAdapter) Sync(ctx context.Context) (*primary.SyncSummary, error) {
	if a.sync == nil {
		return nil, fmt.Errorf("sync is not configured")
	}
	summary, err := a.sync.RecomputeAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("sync failed: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Recomputed %d window(s) for %d user(s)\n", summary.Windows, summary.Users)
	for _, f := range summary.Failures {
		fmt.Fprintf(a.out, "  %s %s\n", color.New(color.FgRed).Sprint("✗"), f)
	}
	return summary, nil
}
