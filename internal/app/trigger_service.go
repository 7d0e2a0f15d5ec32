package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/core/trigger"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// TriggerServiceImpl implements the TriggerService interface.
type TriggerServiceImpl struct {
	states   secondary.StreakStateRepository
	triggers secondary.TriggerLogRepository
	cache    secondary.AnalyticsCache
	clock    secondary.Clock
	log      *logger.Logger
	newID    func() string
}

// NewTriggerService creates a new TriggerService with injected dependencies.
func NewTriggerService(
	states secondary.StreakStateRepository,
	triggers secondary.TriggerLogRepository,
	cache secondary.AnalyticsCache,
	clock secondary.Clock,
	log *logger.Logger,
) *TriggerServiceImpl {
	return &TriggerServiceImpl{
		states:   states,
		triggers: triggers,
		cache:    cache,
		clock:    clock,
		log:      log.Named("trigger"),
		newID:    uuid.NewString,
	}
}

// LogTrigger appends an event to the trigger log. The streak day number is
// taken at write time.
func (s *TriggerServiceImpl) LogTrigger(ctx context.Context, req primary.LogTriggerRequest) (*primary.TriggerEvent, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}

	kind := trigger.Kind(req.Kind)
	if kind == "" {
		kind = trigger.KindUrgency
	}
	logCtx := trigger.LogContext{
		Emotion:   req.Emotion,
		Context:   req.Context,
		Intensity: req.Intensity,
		Kind:      kind,
	}
	if guard := trigger.CanLogTrigger(logCtx); !guard.Allowed {
		return nil, &ValidationError{Reason: guard.Reason}
	}

	now := s.clock.Now()
	loc := s.clock.Location()
	today := datekey.FromTime(now, loc)

	record, err := s.states.Get(ctx, req.UserID)
	if err != nil {
		return nil, storeErr("load streak state", err)
	}
	state := streak.State{}
	if record.Exists {
		state = recordToState(record)
	}

	event := trigger.NewEvent(s.newID(), logCtx, now, loc, streakDay(state, today, loc))
	if err := s.triggers.Append(ctx, eventToRecord(req.UserID, event)); err != nil {
		return nil, storeErr("append trigger event", err)
	}
	invalidateAnalytics(ctx, s.cache, s.log, req.UserID)

	s.log.With(ctxutil.LogFields(ctx)...).Info("trigger logged",
		"user", req.UserID,
		"kind", event.Kind,
		"emotion", event.Emotion,
		"slot", event.TimeSlot,
	)
	return eventToPrimary(event), nil
}

// Ensure TriggerServiceImpl implements the interface.
var _ primary.TriggerService = (*TriggerServiceImpl)(nil)
