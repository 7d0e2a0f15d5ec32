package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/core/trigger"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// defaultRelapseIntensity is used when a relapse is logged without one.
const defaultRelapseIntensity = 3

// StreakServiceImpl implements the StreakService interface.
type StreakServiceImpl struct {
	states    secondary.StreakStateRepository
	records   secondary.DailyRecordRepository
	triggers  secondary.TriggerLogRepository
	cache     secondary.AnalyticsCache
	activity  secondary.ActivityLog
	challenge secondary.ChallengePresenter
	clock     secondary.Clock
	log       *logger.Logger
	newID     func() string
}

// NewStreakService creates a new StreakService with injected dependencies.
// challenge may be nil when the caller only uses Recover; activity may be nil
// to skip the activity log.
func NewStreakService(
	states secondary.StreakStateRepository,
	records secondary.DailyRecordRepository,
	triggers secondary.TriggerLogRepository,
	cache secondary.AnalyticsCache,
	activity secondary.ActivityLog,
	challenge secondary.ChallengePresenter,
	clock secondary.Clock,
	log *logger.Logger,
) *StreakServiceImpl {
	return &StreakServiceImpl{
		states:    states,
		records:   records,
		triggers:  triggers,
		cache:     cache,
		activity:  activity,
		challenge: challenge,
		clock:     clock,
		log:       log.Named("streak"),
		newID:     uuid.NewString,
	}
}

// StartSession reconciles the stored state against today.
func (s *StreakServiceImpl) StartSession(ctx context.Context, userID string) (*primary.SessionResponse, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	now, today := s.today()

	state, created, err := s.loadOrCreate(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	resp := &primary.SessionResponse{NewUser: created}
	outcome := streak.Reconcile(today, state)
	resp.Outcome = string(outcome)

	if outcome == streak.OutcomeReset {
		lost := state.CurrentStreak
		state, err = s.persistReset(ctx, userID, state, today, now)
		if err != nil {
			return nil, err
		}
		resp.StreakLost = lost
		s.logger(ctx).Info("streak reset", "user", userID, "lost", lost)
	}

	resp.Status = stateToStatus(userID, state, today)
	resp.CanWriteEpitaph = streak.CanWriteEpitaph(state, today).Allowed
	resp.DayNumber = streakDay(state, today, s.clock.Location())
	return resp, nil
}

// CheckIn records today's victory or relapse.
func (s *StreakServiceImpl) CheckIn(ctx context.Context, req primary.CheckInRequest) (*primary.CheckInResponse, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}
	if !req.Relapse && (req.Emotion != "" || req.Context != "") {
		return nil, invalid("emotion and context are only recorded with a relapse")
	}
	mood, logMood, err := relapseMood(req)
	if err != nil {
		return nil, err
	}

	now, today := s.today()
	state, _, err := s.loadOrCreate(ctx, req.UserID, now)
	if err != nil {
		return nil, err
	}

	switch streak.Reconcile(today, state) {
	case streak.OutcomeNeedsRecovery:
		if !req.Relapse {
			return nil, ErrRecoveryRequired
		}
	case streak.OutcomeReset:
		state, err = s.persistReset(ctx, req.UserID, state, today, now)
		if err != nil {
			return nil, err
		}
	}

	result, err := streak.CheckIn(state, req.Relapse, today, now)
	if err != nil {
		return nil, err
	}

	// The relapse details go in first so a failed write leaves the streak
	// untouched.
	if req.Relapse && logMood {
		if err := s.recordRelapseMood(ctx, req.UserID, mood, state, today, now); err != nil {
			return nil, err
		}
		defer invalidateAnalytics(ctx, s.cache, s.log, req.UserID)
	}

	if req.Relapse {
		err = s.persistRelapse(ctx, req.UserID, result.State)
	} else {
		err = s.persistVictory(ctx, req.UserID, result, today)
	}
	if err != nil {
		return nil, err
	}
	if !logMood {
		defer invalidateAnalytics(ctx, s.cache, s.log, req.UserID)
	}

	action := ActivityVictory
	if req.Relapse {
		action = ActivityRelapse
	}
	recordStreakChange(ctx, s.activity, s.log, req.UserID, action, state.CurrentStreak, result.State.CurrentStreak)

	s.logger(ctx).Info("check-in recorded",
		"user", req.UserID,
		"relapse", req.Relapse,
		"streak", result.State.CurrentStreak,
		"unlocked", result.NewlyUnlocked,
	)

	return &primary.CheckInResponse{
		Status:         stateToStatus(req.UserID, result.State, today),
		NewlyUnlocked:  achievementsFor(result.NewlyUnlocked),
		PreviousStreak: result.PreviousStreak,
		Relapse:        result.Relapse,
	}, nil
}

// Recover applies a Recovery Challenge outcome.
func (s *StreakServiceImpl) Recover(ctx context.Context, req primary.RecoverRequest) (*primary.RecoverResponse, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}
	now, today := s.today()

	state, err := s.recoverableState(ctx, req.UserID, today)
	if err != nil {
		return nil, err
	}

	var next streak.State
	patch := &secondary.StreakStatePatch{
		UserID:            req.UserID,
		LastCheckInDate:   strPtr(string(today)),
		UnlessCheckedInOn: string(today),
	}
	if req.Success {
		next = streak.RecoverySuccess(state, today)
	} else {
		next = streak.RecoveryFailure(state, today, now)
		patch.CurrentStreak = intPtr(next.CurrentStreak)
		patch.StreakStartedAt = strPtr(next.StreakStartedAt.Format(time.RFC3339))
	}

	if err := s.states.Update(ctx, patch); err != nil {
		if errors.Is(err, secondary.ErrStaleWrite) {
			return nil, fmt.Errorf("%w: today was already settled by another session", ErrRecoveryNotAvailable)
		}
		return nil, storeErr("save recovery outcome", err)
	}
	invalidateAnalytics(ctx, s.cache, s.log, req.UserID)

	action := ActivityRecoveryPassed
	if !req.Success {
		action = ActivityRecoveryFailed
	}
	recordStreakChange(ctx, s.activity, s.log, req.UserID, action, state.CurrentStreak, next.CurrentStreak)

	s.logger(ctx).Info("recovery challenge settled", "user", req.UserID, "success", req.Success, "streak", next.CurrentStreak)

	return &primary.RecoverResponse{
		Success: req.Success,
		Status:  stateToStatus(req.UserID, next, today),
	}, nil
}

// RunRecoveryChallenge presents the challenge and applies its outcome.
func (s *StreakServiceImpl) RunRecoveryChallenge(ctx context.Context, userID string) (*primary.RecoverResponse, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	if s.challenge == nil {
		return nil, errors.New("no recovery challenge is configured")
	}

	_, today := s.today()
	if _, err := s.recoverableState(ctx, userID, today); err != nil {
		return nil, err
	}

	passed, err := s.challenge.Present(ctx)
	if err != nil {
		return nil, fmt.Errorf("recovery challenge interrupted: %w", err)
	}

	return s.Recover(ctx, primary.RecoverRequest{UserID: userID, Success: passed})
}

// Status returns the stored state without reconciling it.
func (s *StreakServiceImpl) Status(ctx context.Context, userID string) (*primary.StreakStatus, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	_, today := s.today()

	record, err := s.states.Get(ctx, userID)
	if err != nil {
		return nil, storeErr("load streak state", err)
	}
	if !record.Exists {
		return stateToStatus(userID, streak.State{}, today), nil
	}
	return stateToStatus(userID, recordToState(record), today), nil
}

// Helper methods

func (s *StreakServiceImpl) today() (time.Time, datekey.Key) {
	now := s.clock.Now()
	return now, datekey.FromTime(now, s.clock.Location())
}

func (s *StreakServiceImpl) logger(ctx context.Context) *logger.Logger {
	return s.log.With(ctxutil.LogFields(ctx)...)
}

// loadOrCreate returns the stored state, creating it for first-time users.
func (s *StreakServiceImpl) loadOrCreate(ctx context.Context, userID string, now time.Time) (streak.State, bool, error) {
	record, err := s.states.Get(ctx, userID)
	if err != nil {
		return streak.State{}, false, storeErr("load streak state", err)
	}
	if record.Exists {
		return recordToState(record), false, nil
	}

	initial := &secondary.StreakStateRecord{
		UserID:          userID,
		StreakStartedAt: now.Format(time.RFC3339),
	}
	if err := s.states.Create(ctx, initial); err != nil {
		return streak.State{}, false, storeErr("create streak state", err)
	}
	s.logger(ctx).Info("streak state created", "user", userID)
	recordStreakChange(ctx, s.activity, s.log, userID, ActivityCreate, 0, 0)

	start, _ := time.Parse(time.RFC3339, initial.StreakStartedAt)
	return streak.State{StreakStartedAt: start}, true, nil
}

func (s *StreakServiceImpl) recoverableState(ctx context.Context, userID string, today datekey.Key) (streak.State, error) {
	record, err := s.states.Get(ctx, userID)
	if err != nil {
		return streak.State{}, storeErr("load streak state", err)
	}
	if !record.Exists {
		return streak.State{}, fmt.Errorf("%w: no streak recorded yet", ErrRecoveryNotAvailable)
	}

	state := recordToState(record)
	if guard := streak.CanAttemptRecovery(state, today); !guard.Allowed {
		return streak.State{}, fmt.Errorf("%w: %s", ErrRecoveryNotAvailable, guard.Reason)
	}
	return state, nil
}

func (s *StreakServiceImpl) persistReset(ctx context.Context, userID string, state streak.State, today datekey.Key, now time.Time) (streak.State, error) {
	next := streak.ApplyReset(state, today, now)
	err := s.states.Update(ctx, &secondary.StreakStatePatch{
		UserID:          userID,
		CurrentStreak:   intPtr(next.CurrentStreak),
		LastCheckInDate: strPtr(string(next.LastCheckIn)),
		StreakStartedAt: strPtr(next.StreakStartedAt.Format(time.RFC3339)),
	})
	if err != nil {
		return state, storeErr("save streak reset", err)
	}
	invalidateAnalytics(ctx, s.cache, s.log, userID)
	recordStreakChange(ctx, s.activity, s.log, userID, ActivityReset, state.CurrentStreak, next.CurrentStreak)
	return next, nil
}

// persistVictory writes a victory only if no other session checked in today;
// the first write wins.
func (s *StreakServiceImpl) persistVictory(ctx context.Context, userID string, result streak.CheckInResult, today datekey.Key) error {
	next := result.State
	err := s.states.Update(ctx, &secondary.StreakStatePatch{
		UserID:            userID,
		CurrentStreak:     intPtr(next.CurrentStreak),
		LongestStreak:     intPtr(next.LongestStreak),
		LastCheckInDate:   strPtr(string(next.LastCheckIn)),
		AddAchievements:   result.NewlyUnlocked,
		UnlessCheckedInOn: string(today),
	})
	if errors.Is(err, secondary.ErrStaleWrite) {
		return streak.ErrAlreadyCheckedIn
	}
	if err != nil {
		return storeErr("save check-in", err)
	}
	return nil
}

func (s *StreakServiceImpl) persistRelapse(ctx context.Context, userID string, next streak.State) error {
	err := s.states.Update(ctx, &secondary.StreakStatePatch{
		UserID:          userID,
		CurrentStreak:   intPtr(next.CurrentStreak),
		LastCheckInDate: strPtr(string(next.LastCheckIn)),
		StreakStartedAt: strPtr(next.StreakStartedAt.Format(time.RFC3339)),
	})
	if err != nil {
		return storeErr("save relapse", err)
	}
	return nil
}

// relapseMood validates the optional relapse details before anything is written.
func relapseMood(req primary.CheckInRequest) (trigger.LogContext, bool, error) {
	if req.Emotion == "" && req.Context == "" {
		return trigger.LogContext{}, false, nil
	}
	mood := trigger.LogContext{
		Emotion:   req.Emotion,
		Context:   req.Context,
		Intensity: req.Intensity,
		Kind:      trigger.KindRelapse,
	}
	if mood.Intensity == 0 {
		mood.Intensity = defaultRelapseIntensity
	}
	if guard := trigger.CanLogTrigger(mood); !guard.Allowed {
		return trigger.LogContext{}, false, &ValidationError{Reason: guard.Reason}
	}
	return mood, true, nil
}

// recordRelapseMood logs the relapse trigger and stores the mood on today's
// record. The mood on the record is written once per day.
func (s *StreakServiceImpl) recordRelapseMood(ctx context.Context, userID string, mood trigger.LogContext, before streak.State, today datekey.Key, now time.Time) error {
	loc := s.clock.Location()
	event := trigger.NewEvent(s.newID(), mood, now, loc, streakDay(before, today, loc))
	if err := s.triggers.Append(ctx, eventToRecord(userID, event)); err != nil {
		return storeErr("append relapse trigger", err)
	}

	existing, err := s.records.Get(ctx, userID, string(today))
	if err != nil {
		return storeErr("load daily record", err)
	}
	current := emptyDaily(today)
	if existing != nil {
		current = recordToDaily(existing)
	}

	guard := daily.CanSetCheckInMood(daily.SetMoodContext{
		ExistingEmotion: current.CheckInEmotion,
		ExistingContext: current.CheckInContext,
	})
	if !guard.Allowed {
		s.logger(ctx).Debug("check-in mood kept", "user", userID, "reason", guard.Reason)
		return nil
	}

	err = s.records.UpsertMerge(ctx, &secondary.DailyRecordPatch{
		UserID:         userID,
		DateKey:        string(today),
		CheckInEmotion: strPtr(mood.Emotion),
		CheckInContext: strPtr(mood.Context),
	})
	if err != nil {
		return storeErr("save check-in mood", err)
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

// Ensure StreakServiceImpl implements the interface.
var _ primary.StreakService = (*StreakServiceImpl)(nil)
