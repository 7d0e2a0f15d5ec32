package app

import (
	"context"
	"strings"

	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// DailyServiceImpl implements the DailyService interface.
type DailyServiceImpl struct {
	records secondary.DailyRecordRepository
	cache   secondary.AnalyticsCache
	clock   secondary.Clock
	log     *logger.Logger
}

// NewDailyService creates a new DailyService with injected dependencies.
func NewDailyService(records secondary.DailyRecordRepository, cache secondary.AnalyticsCache, clock secondary.Clock, log *logger.Logger) *DailyServiceImpl {
	return &DailyServiceImpl{
		records: records,
		cache:   cache,
		clock:   clock,
		log:     log.Named("daily"),
	}
}

// Today returns today's record, or an empty one if nothing was written yet.
func (s *DailyServiceImpl) Today(ctx context.Context, userID string) (*primary.DailyRecord, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	today := s.today()

	current, err := s.load(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	return dailyToPrimary(userID, current), nil
}

// SelectMissions sets today's missions.
func (s *DailyServiceImpl) SelectMissions(ctx context.Context, req primary.SelectMissionsRequest) (*primary.DailyRecord, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}
	today, err := s.writableDay(req.Date)
	if err != nil {
		return nil, err
	}

	requested := make([]string, len(req.MissionIDs))
	for i, id := range req.MissionIDs {
		requested[i] = strings.TrimSpace(id)
	}

	current, err := s.load(ctx, req.UserID, today)
	if err != nil {
		return nil, err
	}

	guard := daily.CanSelectMissions(daily.SelectMissionsContext{
		Existing:  current.SelectedMissionIDs,
		Requested: requested,
	})
	if !guard.Allowed {
		return nil, &ValidationError{Reason: guard.Reason}
	}

	err = s.records.UpsertMerge(ctx, &secondary.DailyRecordPatch{
		UserID:             req.UserID,
		DateKey:            string(today),
		SelectedMissionIDs: requested,
	})
	if err != nil {
		return nil, storeErr("save missions", err)
	}
	s.log.With(ctxutil.LogFields(ctx)...).Info("missions selected", "user", req.UserID, "missions", requested)

	current.SelectedMissionIDs = requested
	return dailyToPrimary(req.UserID, current), nil
}

// CompleteHabit marks a habit as done today.
func (s *DailyServiceImpl) CompleteHabit(ctx context.Context, req primary.CompleteHabitRequest) (*primary.DailyRecord, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}
	habitID := strings.TrimSpace(req.HabitID)
	if habitID == "" {
		return nil, invalid("habit id must not be empty")
	}
	today, err := s.writableDay(req.Date)
	if err != nil {
		return nil, err
	}

	current, err := s.load(ctx, req.UserID, today)
	if err != nil {
		return nil, err
	}
	if current.HasHabit(habitID) {
		return dailyToPrimary(req.UserID, current), nil
	}

	next := daily.CompleteHabit(current, habitID)
	err = s.records.UpsertMerge(ctx, &secondary.DailyRecordPatch{
		UserID:            req.UserID,
		DateKey:           string(today),
		CompletedHabitIDs: next.CompletedHabitIDs,
		CompletedCount:    intPtr(next.CompletedCount),
		TotalHabits:       intPtr(next.TotalHabits),
		Percentage:        intPtr(next.Percentage),
	})
	if err != nil {
		return nil, storeErr("save habit completion", err)
	}
	invalidateAnalytics(ctx, s.cache, s.log, req.UserID)

	s.log.With(ctxutil.LogFields(ctx)...).Info("habit completed",
		"user", req.UserID,
		"habit", habitID,
		"percentage", next.Percentage,
	)
	return dailyToPrimary(req.UserID, next), nil
}

// Helper methods

func (s *DailyServiceImpl) today() datekey.Key {
	return datekey.FromTime(s.clock.Now(), s.clock.Location())
}

// writableDay resolves the requested day (empty means today) and rejects any
// day other than today.
func (s *DailyServiceImpl) writableDay(requested string) (datekey.Key, error) {
	today := s.today()
	day := today
	if requested != "" {
		day = datekey.Key(requested)
	}
	if guard := daily.CanWriteDay(daily.WriteDayContext{Day: day, Today: today}); !guard.Allowed {
		return "", &ValidationError{Reason: guard.Reason}
	}
	return today, nil
}

func (s *DailyServiceImpl) load(ctx context.Context, userID string, day datekey.Key) (daily.Record, error) {
	existing, err := s.records.Get(ctx, userID, string(day))
	if err != nil {
		return daily.Record{}, storeErr("load daily record", err)
	}
	if existing == nil {
		return emptyDaily(day), nil
	}
	return recordToDaily(existing), nil
}

// Ensure DailyServiceImpl implements the interface.
var _ primary.DailyService = (*DailyServiceImpl)(nil)

