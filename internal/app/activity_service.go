package app

import (
	"context"
	"strconv"

	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// Activity actions written by the streak service.
const (
	ActivityCreate         = "create"
	ActivityVictory        = "victory"
	ActivityRelapse        = "relapse"
	ActivityReset          = "reset"
	ActivityRecoveryPassed = "recovery_passed"
	ActivityRecoveryFailed = "recovery_failed"
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	logRepo secondary.ActivityLogRepository
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(logRepo secondary.ActivityLogRepository) *ActivityServiceImpl {
	return &ActivityServiceImpl{
		logRepo: logRepo,
	}
}

// List retrieves a user's entries, newest first.
func (s *ActivityServiceImpl) List(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error) {
	if err := ValidateUserID(filters.UserID); err != nil {
		return nil, err
	}
	if filters.Limit < 0 {
		return nil, invalid("limit must not be negative")
	}

	records, err := s.logRepo.List(ctx, secondary.ActivityFilters{
		UserID: filters.UserID,
		Action: filters.Action,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, storeErr("list activity", err)
	}

	entries := make([]*primary.ActivityEntry, len(records))
	for i, r := range records {
		entries[i] = recordToActivityEntry(r)
	}
	return entries, nil
}

// Prune deletes entries older than the specified number of days.
func (s *ActivityServiceImpl) Prune(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, invalid("prune needs at least one day (got %d)", olderThanDays)
	}
	n, err := s.logRepo.PruneOlderThan(ctx, olderThanDays)
	if err != nil {
		return 0, storeErr("prune activity", err)
	}
	return n, nil
}

func recordToActivityEntry(r *secondary.ActivityRecord) *primary.ActivityEntry {
	return &primary.ActivityEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Timestamp: r.Timestamp,
		Action:    r.Action,
		FieldName: r.FieldName,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		Source:    r.Source,
		RequestID: r.RequestID,
	}
}

// recordStreakChange logs a transition of current_streak. A nil log or a
// failed write never fails the caller.
func recordStreakChange(ctx context.Context, activity secondary.ActivityLog, log *logger.Logger, userID, action string, from, to int) {
	if activity == nil {
		return
	}
	err := activity.Record(ctx, userID, action, "current_streak", strconv.Itoa(from), strconv.Itoa(to))
	if err != nil {
		log.Warn("activity log write failed", "user", userID, "action", action, "error", err)
	}
}

// Ensure ActivityServiceImpl implements the interface
var _ primary.ActivityService = (*ActivityServiceImpl)(nil)
