package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/epitaph"
	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// EpitaphServiceImpl implements the EpitaphService interface.
type EpitaphServiceImpl struct {
	states   secondary.StreakStateRepository
	epitaphs secondary.EpitaphRepository
	clock    secondary.Clock
	log      *logger.Logger
	newID    func() string
}

// NewEpitaphService creates a new EpitaphService with injected dependencies.
func NewEpitaphService(states secondary.StreakStateRepository, epitaphs secondary.EpitaphRepository, clock secondary.Clock, log *logger.Logger) *EpitaphServiceImpl {
	return &EpitaphServiceImpl{
		states:   states,
		epitaphs: epitaphs,
		clock:    clock,
		log:      log.Named("epitaph"),
		newID:    uuid.NewString,
	}
}

// Eligibility reports whether an epitaph can be written today.
func (s *EpitaphServiceImpl) Eligibility(ctx context.Context, userID string) (*primary.EpitaphEligibility, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	_, today := s.today()

	state, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	guard := streak.CanWriteEpitaph(state, today)
	return &primary.EpitaphEligibility{
		Allowed:        guard.Allowed,
		Reason:         guard.Reason,
		MilestoneIndex: streak.MilestoneIndex(state, today),
		Today:          string(today),
	}, nil
}

// Write saves today's epitaph. At most one entry exists per user and day.
func (s *EpitaphServiceImpl) Write(ctx context.Context, req primary.WriteEpitaphRequest) (*primary.Epitaph, error) {
	if err := ValidateUserID(req.UserID); err != nil {
		return nil, err
	}
	now, today := s.today()

	state, exists, err := s.load(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, invalid("no streak recorded for %s yet; start a session first", req.UserID)
	}

	guard := epitaph.CanWrite(epitaph.WriteContext{Content: req.Content, State: state, Today: today})
	if !guard.Allowed {
		return nil, &ValidationError{Reason: guard.Reason}
	}

	entry := &secondary.EpitaphRecord{
		ID:        s.newID(),
		UserID:    req.UserID,
		Content:   req.Content,
		DayNumber: epitaph.DayNumber(state, today),
		DateKey:   string(today),
		CreatedAt: now.Format(time.RFC3339),
	}
	if err := s.epitaphs.Append(ctx, entry); err != nil {
		if errors.Is(err, secondary.ErrDuplicateEpitaph) {
			return nil, fmt.Errorf("%w (%s)", secondary.ErrDuplicateEpitaph, today)
		}
		return nil, storeErr("append epitaph", err)
	}

	err = s.states.Update(ctx, &secondary.StreakStatePatch{
		UserID:          req.UserID,
		LastEpitaphDate: strPtr(string(today)),
	})
	if err != nil {
		return nil, storeErr("save last epitaph date", err)
	}

	s.log.With(ctxutil.LogFields(ctx)...).Info("epitaph written", "user", req.UserID, "day", entry.DayNumber)
	return recordToEpitaph(entry), nil
}

// List returns the newest entries first.
func (s *EpitaphServiceImpl) List(ctx context.Context, userID string, limit int) ([]*primary.Epitaph, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, invalid("limit must not be negative (got %d)", limit)
	}

	records, err := s.epitaphs.List(ctx, userID, limit)
	if err != nil {
		return nil, storeErr("list epitaphs", err)
	}

	entries := make([]*primary.Epitaph, len(records))
	for i, r := range records {
		entries[i] = recordToEpitaph(r)
	}
	return entries, nil
}

// Helper methods

func (s *EpitaphServiceImpl) today() (time.Time, datekey.Key) {
	now := s.clock.Now()
	return now, datekey.FromTime(now, s.clock.Location())
}

func (s *EpitaphServiceImpl) load(ctx context.Context, userID string) (streak.State, bool, error) {
	record, err := s.states.Get(ctx, userID)
	if err != nil {
		return streak.State{}, false, storeErr("load streak state", err)
	}
	if !record.Exists {
		return streak.State{}, false, nil
	}
	return recordToState(record), true, nil
}

func recordToEpitaph(r *secondary.EpitaphRecord) *primary.Epitaph {
	return &primary.Epitaph{
		ID:        r.ID,
		Content:   r.Content,
		DayNumber: r.DayNumber,
		Date:      r.DateKey,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure EpitaphServiceImpl implements the interface.
var _ primary.EpitaphService = (*EpitaphServiceImpl)(nil)
