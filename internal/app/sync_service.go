package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/streak/internal/core/adherence"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// WindowRefresher recomputes one analytics window and refreshes its cache entry.
type WindowRefresher interface {
	Refresh(ctx context.Context, userID string, rangeDays int) (*primary.AnalyticsReport, error)
}

// SyncServiceImpl implements the SyncService interface.
type SyncServiceImpl struct {
	states    secondary.StreakStateRepository
	refresher WindowRefresher
	delay     time.Duration
	log       *logger.Logger
}

// NewSyncService creates a new SyncService. delay is waited between windows
// so a run never saturates the store.
func NewSyncService(states secondary.StreakStateRepository, refresher WindowRefresher, delay time.Duration, log *logger.Logger) *SyncServiceImpl {
	return &SyncServiceImpl{
		states:    states,
		refresher: refresher,
		delay:     delay,
		log:       log.Named("sync"),
	}
}

// RecomputeAll recomputes every window of every user, one at a time. A
// failing window is reported in the summary and the run continues; a
// cancelled context stops it.
func (s *SyncServiceImpl) RecomputeAll(ctx context.Context) (*primary.SyncSummary, error) {
	users, err := s.states.ListUserIDs(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}

	summary := &primary.SyncSummary{Users: len(users)}
	first := true
	for _, user := range users {
		for _, rangeDays := range adherence.Ranges {
			if !first {
				if err := wait(ctx, s.delay); err != nil {
					return summary, err
				}
			}
			first = false

			if err := ctx.Err(); err != nil {
				return summary, err
			}
			if _, err := s.refresher.Refresh(ctx, user, rangeDays); err != nil {
				s.log.Warn("window recomputation failed", "user", user, "range", rangeDays, "error", err)
				summary.Failures = append(summary.Failures, fmt.Sprintf("%s/%dd: %v", user, rangeDays, err))
				continue
			}
			summary.Windows++
		}
	}

	s.log.Info("analytics sync finished", "users", summary.Users, "windows", summary.Windows, "failures", len(summary.Failures))
	return summary, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure SyncServiceImpl implements the interface.
var _ primary.SyncService = (*SyncServiceImpl)(nil)
