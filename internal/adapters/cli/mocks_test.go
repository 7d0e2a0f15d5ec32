package cli

import (
	"context"
	"errors"

	"github.com/fatih/color"

	"github.com/example/streak/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockStreakService implements primary.StreakService for testing
type mockStreakService struct {
	startSessionFn func(ctx context.Context, userID string) (*primary.SessionResponse, error)
	checkInFn      func(ctx context.Context, req primary.CheckInRequest) (*primary.CheckInResponse, error)
	challengeFn    func(ctx context.Context, userID string) (*primary.RecoverResponse, error)
	statusFn       func(ctx context.Context, userID string) (*primary.StreakStatus, error)

	// Track calls for verification
	lastCheckIn primary.CheckInRequest
}

func testStatus(current int) *primary.StreakStatus {
	return &primary.StreakStatus{
		UserID:        "ana",
		CurrentStreak: current,
		LongestStreak: 12,
		Today:         "2026-03-10",
	}
}

func (m *mockStreakService) StartSession(ctx context.Context, userID string) (*primary.SessionResponse, error) {
	if m.startSessionFn != nil {
		return m.startSessionFn(ctx, userID)
	}
	return &primary.SessionResponse{Outcome: "OK", Status: testStatus(4), DayNumber: 5}, nil
}

func (m *mockStreakService) CheckIn(ctx context.Context, req primary.CheckInRequest) (*primary.CheckInResponse, error) {
	m.lastCheckIn = req
	if m.checkInFn != nil {
		return m.checkInFn(ctx, req)
	}
	return &primary.CheckInResponse{Status: testStatus(5), PreviousStreak: 4}, nil
}

func (m *mockStreakService) Recover(ctx context.Context, req primary.RecoverRequest) (*primary.RecoverResponse, error) {
	return nil, errors.New("not implemented in adapter")
}

func (m *mockStreakService) RunRecoveryChallenge(ctx context.Context, userID string) (*primary.RecoverResponse, error) {
	if m.challengeFn != nil {
		return m.challengeFn(ctx, userID)
	}
	return &primary.RecoverResponse{Success: true, Status: testStatus(6)}, nil
}

func (m *mockStreakService) Status(ctx context.Context, userID string) (*primary.StreakStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, userID)
	}
	return testStatus(4), nil
}

// mockDailyService implements primary.DailyService for testing
type mockDailyService struct {
	todayFn    func(ctx context.Context, userID string) (*primary.DailyRecord, error)
	selectFn   func(ctx context.Context, req primary.SelectMissionsRequest) (*primary.DailyRecord, error)
	completeFn func(ctx context.Context, req primary.CompleteHabitRequest) (*primary.DailyRecord, error)

	lastSelect primary.SelectMissionsRequest
}

func (m *mockDailyService) Today(ctx context.Context, userID string) (*primary.DailyRecord, error) {
	if m.todayFn != nil {
		return m.todayFn(ctx, userID)
	}
	return &primary.DailyRecord{UserID: userID, Date: "2026-03-10", TotalHabits: 3}, nil
}

func (m *mockDailyService) SelectMissions(ctx context.Context, req primary.SelectMissionsRequest) (*primary.DailyRecord, error) {
	m.lastSelect = req
	if m.selectFn != nil {
		return m.selectFn(ctx, req)
	}
	return &primary.DailyRecord{UserID: req.UserID, Date: "2026-03-10", SelectedMissionIDs: req.MissionIDs, TotalHabits: 3}, nil
}

func (m *mockDailyService) CompleteHabit(ctx context.Context, req primary.CompleteHabitRequest) (*primary.DailyRecord, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return &primary.DailyRecord{
		UserID:            req.UserID,
		Date:              "2026-03-10",
		CompletedHabitIDs: []string{req.HabitID},
		CompletedCount:    1,
		TotalHabits:       3,
		Percentage:        33,
	}, nil
}

// mockTriggerService implements primary.TriggerService for testing
type mockTriggerService struct {
	logFn   func(ctx context.Context, req primary.LogTriggerRequest) (*primary.TriggerEvent, error)
	lastReq primary.LogTriggerRequest
}

func (m *mockTriggerService) LogTrigger(ctx context.Context, req primary.LogTriggerRequest) (*primary.TriggerEvent, error) {
	m.lastReq = req
	if m.logFn != nil {
		return m.logFn(ctx, req)
	}
	return &primary.TriggerEvent{
		ID: "evt-1", Emotion: req.Emotion, Context: req.Context, Intensity: req.Intensity,
		Kind: "urgency", Date: "2026-03-10", TimeSlot: "Noite", DayNumber: 5,
	}, nil
}

// mockEpitaphService implements primary.EpitaphService for testing
type mockEpitaphService struct {
	eligibilityFn func(ctx context.Context, userID string) (*primary.EpitaphEligibility, error)
	writeFn       func(ctx context.Context, req primary.WriteEpitaphRequest) (*primary.Epitaph, error)
	listFn        func(ctx context.Context, userID string, limit int) ([]*primary.Epitaph, error)
}

func (m *mockEpitaphService) Eligibility(ctx context.Context, userID string) (*primary.EpitaphEligibility, error) {
	if m.eligibilityFn != nil {
		return m.eligibilityFn(ctx, userID)
	}
	return &primary.EpitaphEligibility{Allowed: true, MilestoneIndex: 7, Today: "2026-03-10"}, nil
}

func (m *mockEpitaphService) Write(ctx context.Context, req primary.WriteEpitaphRequest) (*primary.Epitaph, error) {
	if m.writeFn != nil {
		return m.writeFn(ctx, req)
	}
	return &primary.Epitaph{ID: "ep-1", Content: req.Content, DayNumber: 7, Date: "2026-03-10"}, nil
}

func (m *mockEpitaphService) List(ctx context.Context, userID string, limit int) ([]*primary.Epitaph, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return nil, nil
}

// mockAnalyticsService implements primary.AnalyticsService for testing
type mockAnalyticsService struct {
	computeFn func(ctx context.Context, userID string, rangeDays int) (*primary.AnalyticsReport, error)
}

func (m *mockAnalyticsService) ComputeWindow(ctx context.Context, userID string, rangeDays int) (*primary.AnalyticsReport, error) {
	if m.computeFn != nil {
		return m.computeFn(ctx, userID, rangeDays)
	}
	return &primary.AnalyticsReport{UserID: userID, RangeDays: rangeDays, WindowStart: "2026-03-04", Today: "2026-03-10"}, nil
}

// mockSyncService implements primary.SyncService for testing
type mockSyncService struct {
	recomputeFn func(ctx context.Context) (*primary.SyncSummary, error)
}

func (m *mockSyncService) RecomputeAll(ctx context.Context) (*primary.SyncSummary, error) {
	if m.recomputeFn != nil {
		return m.recomputeFn(ctx)
	}
	return &primary.SyncSummary{Users: 2, Windows: 8}, nil
}

// mockActivityService implements primary.ActivityService for testing
type mockActivityService struct {
	listFn     func(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error)
	pruneFn    func(ctx context.Context, days int) (int, error)
	lastFilter primary.ActivityFilters
}

func (m *mockActivityService) List(ctx context.Context, filters primary.ActivityFilters) ([]*primary.ActivityEntry, error) {
	m.lastFilter = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockActivityService) Prune(ctx context.Context, days int) (int, error) {
	if m.pruneFn != nil {
		return m.pruneFn(ctx, days)
	}
	return 0, nil
}
