package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/streak/internal/core/streak"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

type streakFixture struct {
	svc       *StreakServiceImpl
	states    *mockStateRepository
	daily     *mockDailyRepository
	triggers  *mockTriggerRepository
	cache     *mockCache
	clock     *mockClock
	presenter *mockPresenter
	activity  *mockActivityLog
}

func newStreakFixture(today string) *streakFixture {
	f := &streakFixture{
		states:    newMockStateRepository(),
		daily:     newMockDailyRepository(),
		triggers:  newMockTriggerRepository(),
		cache:     newMockCache(),
		clock:     newMockClock(today),
		presenter: &mockPresenter{},
		activity:  &mockActivityLog{},
	}
	f.svc = NewStreakService(f.states, f.daily, f.triggers, f.cache, f.activity, f.presenter, f.clock, logger.Nop())
	n := 0
	f.svc.newID = func() string {
		n++
		return fmt.Sprintf("evt-%d", n)
	}
	return f
}

func (f *streakFixture) seed(current, longest int, last, start string) {
	f.states.put(&secondary.StreakStateRecord{
		UserID:          "ana",
		CurrentStreak:   current,
		LongestStreak:   longest,
		LastCheckInDate: last,
		StreakStartedAt: startedAt(start),
	})
}

func (f *streakFixture) stored() *secondary.StreakStateRecord {
	r, _ := f.states.Get(context.Background(), "ana")
	return r
}

func TestStartSession_NewUser(t *testing.T) {
	f := newStreakFixture("2024-01-10")

	resp, err := f.svc.StartSession(context.Background(), "ana")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if !resp.NewUser || resp.Outcome != "OK" {
		t.Errorf("NewUser=%v Outcome=%s", resp.NewUser, resp.Outcome)
	}
	if resp.DayNumber != 1 || !resp.CanWriteEpitaph {
		t.Errorf("DayNumber=%d CanWriteEpitaph=%v, want 1/true", resp.DayNumber, resp.CanWriteEpitaph)
	}
	if !f.stored().Exists {
		t.Error("state not created")
	}

	again, err := f.svc.StartSession(context.Background(), "ana")
	if err != nil || again.NewUser {
		t.Errorf("second session: NewUser=%v err=%v", again.NewUser, err)
	}
}

func TestStartSession_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		last        string
		wantOutcome string
		wantCurrent int
		wantLost    int
		wantLast    string
		wantUpdates int
	}{
		{name: "checked in yesterday", last: "2024-01-09", wantOutcome: "OK", wantCurrent: 5, wantLast: "2024-01-09"},
		{name: "checked in today", last: "2024-01-10", wantOutcome: "OK", wantCurrent: 5, wantLast: "2024-01-10"},
		{name: "one day missed", last: "2024-01-08", wantOutcome: "NEEDS_RECOVERY", wantCurrent: 5, wantLast: "2024-01-08"},
		{name: "several days missed", last: "2024-01-05", wantOutcome: "RESET", wantCurrent: 0, wantLost: 5, wantLast: "2024-01-10", wantUpdates: 1},
		{name: "malformed last check-in", last: "2024/01/05", wantOutcome: "OK", wantCurrent: 5, wantLast: "2024/01/05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStreakFixture("2024-01-10")
			f.seed(5, 5, tt.last, "2024-01-04")

			resp, err := f.svc.StartSession(context.Background(), "ana")
			if err != nil {
				t.Fatalf("StartSession failed: %v", err)
			}
			if resp.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %s, want %s", resp.Outcome, tt.wantOutcome)
			}
			if resp.StreakLost != tt.wantLost {
				t.Errorf("StreakLost = %d, want %d", resp.StreakLost, tt.wantLost)
			}
			got := f.stored()
			if got.CurrentStreak != tt.wantCurrent || got.LastCheckInDate != tt.wantLast {
				t.Errorf("stored current=%d last=%s, want %d/%s", got.CurrentStreak, got.LastCheckInDate, tt.wantCurrent, tt.wantLast)
			}
			if got.LongestStreak != 5 {
				t.Errorf("LongestStreak = %d, reset must keep it", got.LongestStreak)
			}
			if f.states.updates != tt.wantUpdates {
				t.Errorf("updates = %d, want %d", f.states.updates, tt.wantUpdates)
			}
		})
	}
}

func TestCheckIn_Victory(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(2, 2, "2024-01-09", "2024-01-08")

	resp, err := f.svc.CheckIn(context.Background(), primary.CheckInRequest{UserID: "ana"})
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if resp.Status.CurrentStreak != 3 || resp.Status.LongestStreak != 3 || !resp.Status.CheckedInToday {
		t.Errorf("status = %+v", resp.Status)
	}
	if len(resp.NewlyUnlocked) != 1 || resp.NewlyUnlocked[0].ID != "streak_3d" || resp.NewlyUnlocked[0].Threshold != 3 {
		t.Errorf("NewlyUnlocked = %+v", resp.NewlyUnlocked)
	}

	got := f.stored()
	if got.CurrentStreak != 3 || got.LastCheckInDate != "2024-01-10" {
		t.Errorf("stored = %+v", got)
	}
	if len(got.Achievements) != 1 || got.Achievements[0] != "streak_3d" {
		t.Errorf("stored achievements = %v", got.Achievements)
	}
	if len(f.cache.invalidations) != 1 {
		t.Errorf("invalidations = %v, want one", f.cache.invalidations)
	}
}

func TestCheckIn_SecondVictorySameDay(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(2, 2, "2024-01-09", "2024-01-08")
	ctx := context.Background()

	if _, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana"}); err != nil {
		t.Fatalf("first CheckIn failed: %v", err)
	}
	_, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana"})
	if !errors.Is(err, streak.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
	}
	if got := f.stored().CurrentStreak; got != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got)
	}
}

func TestCheckIn_ConcurrentSessionWritesFirst(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(4, 4, "2024-01-09", "2024-01-06")
	f.states.beforeUpdate = func(m *mockStateRepository) {
		m.states["ana"].CurrentStreak = 5
		m.states["ana"].LastCheckInDate = "2024-01-10"
	}

	_, err := f.svc.CheckIn(context.Background(), primary.CheckInRequest{UserID: "ana"})
	if !errors.Is(err, streak.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
	}
	if got := f.stored().CurrentStreak; got != 5 {
		t.Errorf("CurrentStreak = %d, want the first writer's 5", got)
	}
}

func TestCheckIn_NeedsRecovery(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(6, 6, "2024-01-08", "2024-01-03")
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana"})
	if !errors.Is(err, ErrRecoveryRequired) {
		t.Fatalf("victory err = %v, want ErrRecoveryRequired", err)
	}
	if f.states.updates != 0 {
		t.Errorf("updates = %d, want 0", f.states.updates)
	}

	resp, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana", Relapse: true})
	if err != nil {
		t.Fatalf("relapse failed: %v", err)
	}
	if resp.PreviousStreak != 6 || resp.Status.CurrentStreak != 0 {
		t.Errorf("relapse response = %+v", resp)
	}
}

func TestCheckIn_AfterLongGapResetsFirst(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(8, 8, "2024-01-01", "2023-12-25")

	_, err := f.svc.CheckIn(context.Background(), primary.CheckInRequest{UserID: "ana"})
	if !errors.Is(err, streak.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn after the reset", err)
	}
	got := f.stored()
	if got.CurrentStreak != 0 || got.LastCheckInDate != "2024-01-10" || got.LongestStreak != 8 {
		t.Errorf("stored = %+v", got)
	}
}

func TestCheckIn_RelapseWithMood(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(9, 12, "2024-01-09", "2024-01-01")
	ctx := context.Background()

	resp, err := f.svc.CheckIn(ctx, primary.CheckInRequest{
		UserID:    "ana",
		Relapse:   true,
		Emotion:   "Tédio",
		Context:   "Sozinho",
		Intensity: 4,
	})
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if !resp.Relapse || resp.PreviousStreak != 9 || resp.Status.CurrentStreak != 0 || resp.Status.LongestStreak != 12 {
		t.Errorf("response = %+v status = %+v", resp, resp.Status)
	}

	got := f.stored()
	if got.StreakStartedAt != f.clock.now.Format(time.RFC3339) {
		t.Errorf("StreakStartedAt = %s, want now", got.StreakStartedAt)
	}

	if len(f.triggers.events) != 1 {
		t.Fatalf("events = %d, want 1", len(f.triggers.events))
	}
	ev := f.triggers.events[0]
	if ev.Kind != "relapse" || ev.DayNumber != 10 || ev.DateKey != "2024-01-10" || ev.TimeSlot != "Manhã" || ev.ID != "evt-1" {
		t.Errorf("event = %+v", ev)
	}

	rec := f.daily.records["ana|2024-01-10"]
	if rec == nil || rec.CheckInEmotion != "Tédio" || rec.CheckInContext != "Sozinho" {
		t.Fatalf("daily record = %+v", rec)
	}

	// A second relapse the same day logs another trigger but keeps the mood.
	_, err = f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana", Relapse: true, Emotion: "Raiva", Context: "Trabalho"})
	if err != nil {
		t.Fatalf("second relapse failed: %v", err)
	}
	if len(f.triggers.events) != 2 || f.triggers.events[1].Intensity != defaultRelapseIntensity {
		t.Errorf("second event = %+v", f.triggers.events)
	}
	if rec := f.daily.records["ana|2024-01-10"]; rec.CheckInEmotion != "Tédio" {
		t.Errorf("mood overwritten: %s", rec.CheckInEmotion)
	}
}

func TestCheckIn_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  primary.CheckInRequest
	}{
		{name: "bad user id", req: primary.CheckInRequest{UserID: "ana:1"}},
		{name: "unknown emotion", req: primary.CheckInRequest{UserID: "ana", Relapse: true, Emotion: "Fome", Context: "Sozinho"}},
		{name: "intensity out of range", req: primary.CheckInRequest{UserID: "ana", Relapse: true, Emotion: "Tédio", Context: "Sozinho", Intensity: 9}},
		{name: "mood on victory", req: primary.CheckInRequest{UserID: "ana", Emotion: "Tédio", Context: "Sozinho"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStreakFixture("2024-01-10")
			f.seed(3, 3, "2024-01-09", "2024-01-07")

			_, err := f.svc.CheckIn(context.Background(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if f.states.updates != 0 || len(f.triggers.events) != 0 {
				t.Errorf("state written despite validation failure")
			}
		})
	}
}

func TestCheckIn_RelapseMoodFailureKeepsStreak(t *testing.T) {
	tests := []struct {
		name       string
		breakStore func(f *streakFixture)
	}{
		{name: "trigger append fails", breakStore: func(f *streakFixture) { f.triggers.appendErr = errStoreDown }},
		{name: "mood save fails", breakStore: func(f *streakFixture) { f.daily.upsertErr = errStoreDown }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStreakFixture("2024-01-10")
			f.seed(9, 12, "2024-01-09", "2024-01-01")
			tt.breakStore(f)

			_, err := f.svc.CheckIn(context.Background(), primary.CheckInRequest{
				UserID:  "ana",
				Relapse: true,
				Emotion: "Tédio",
				Context: "Sozinho",
			})
			var serr *StoreUnavailableError
			if !errors.As(err, &serr) {
				t.Fatalf("err = %v, want *StoreUnavailableError", err)
			}

			got := f.stored()
			if got.CurrentStreak != 9 || got.LastCheckInDate != "2024-01-09" {
				t.Errorf("stored after failed check-in: current=%d last=%s, want 9 and 2024-01-09", got.CurrentStreak, got.LastCheckInDate)
			}
			if f.states.updates != 0 {
				t.Errorf("streak updates = %d, want 0", f.states.updates)
			}
		})
	}
}

func TestCheckIn_StoreUnavailable(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	f.seed(3, 3, "2024-01-09", "2024-01-07")
	f.states.updateErr = errStoreDown

	_, err := f.svc.CheckIn(context.Background(), primary.CheckInRequest{UserID: "ana"})
	var serr *StoreUnavailableError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want *StoreUnavailableError", err)
	}
	if !errors.Is(err, errStoreDown) {
		t.Errorf("cause lost: %v", err)
	}
	if len(f.cache.invalidations) != 0 {
		t.Errorf("cache invalidated for a write that did not happen")
	}
}

func TestRecover(t *testing.T) {
	tests := []struct {
		name        string
		success     bool
		wantCurrent int
		wantStart   string
	}{
		{name: "passed keeps the streak", success: true, wantCurrent: 6, wantStart: startedAt("2024-01-03")},
		{name: "failed is a relapse", success: false, wantCurrent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStreakFixture("2024-01-10")
			f.seed(6, 6, "2024-01-08", "2024-01-03")
			ctx := context.Background()

			resp, err := f.svc.Recover(ctx, primary.RecoverRequest{UserID: "ana", Success: tt.success})
			if err != nil {
				t.Fatalf("Recover failed: %v", err)
			}
			if resp.Success != tt.success || resp.Status.CurrentStreak != tt.wantCurrent {
				t.Errorf("response = %+v status = %+v", resp, resp.Status)
			}

			got := f.stored()
			if got.CurrentStreak != tt.wantCurrent || got.LastCheckInDate != "2024-01-10" {
				t.Errorf("stored = %+v", got)
			}
			wantStart := tt.wantStart
			if wantStart == "" {
				wantStart = f.clock.now.Format(time.RFC3339)
			}
			if got.StreakStartedAt != wantStart {
				t.Errorf("StreakStartedAt = %s, want %s", got.StreakStartedAt, wantStart)
			}

			if _, err := f.svc.Recover(ctx, primary.RecoverRequest{UserID: "ana", Success: true}); !errors.Is(err, ErrRecoveryNotAvailable) {
				t.Errorf("second recovery err = %v, want ErrRecoveryNotAvailable", err)
			}
		})
	}
}

func TestRecover_NotAvailable(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	ctx := context.Background()

	if _, err := f.svc.Recover(ctx, primary.RecoverRequest{UserID: "ana", Success: true}); !errors.Is(err, ErrRecoveryNotAvailable) {
		t.Errorf("unknown user err = %v", err)
	}

	f.seed(6, 6, "2024-01-09", "2024-01-04")
	if _, err := f.svc.Recover(ctx, primary.RecoverRequest{UserID: "ana", Success: true}); !errors.Is(err, ErrRecoveryNotAvailable) {
		t.Errorf("no missed day err = %v", err)
	}
	if f.states.updates != 0 {
		t.Errorf("updates = %d, want 0", f.states.updates)
	}
}

func TestRunRecoveryChallenge(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.seed(6, 6, "2024-01-08", "2024-01-03")
		f.presenter.passed = true

		resp, err := f.svc.RunRecoveryChallenge(context.Background(), "ana")
		if err != nil {
			t.Fatalf("RunRecoveryChallenge failed: %v", err)
		}
		if !resp.Success || resp.Status.CurrentStreak != 6 || f.presenter.calls != 1 {
			t.Errorf("resp = %+v calls = %d", resp, f.presenter.calls)
		}
	})

	t.Run("not offered without a missed day", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.seed(6, 6, "2024-01-09", "2024-01-04")

		_, err := f.svc.RunRecoveryChallenge(context.Background(), "ana")
		if !errors.Is(err, ErrRecoveryNotAvailable) {
			t.Errorf("err = %v", err)
		}
		if f.presenter.calls != 0 {
			t.Errorf("challenge presented %d times", f.presenter.calls)
		}
	})

	t.Run("interrupted challenge writes nothing", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.seed(6, 6, "2024-01-08", "2024-01-03")
		f.presenter.err = errors.New("input closed")

		if _, err := f.svc.RunRecoveryChallenge(context.Background(), "ana"); err == nil {
			t.Fatal("expected error")
		}
		if f.states.updates != 0 {
			t.Errorf("updates = %d, want 0", f.states.updates)
		}
	})

	t.Run("no presenter", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.svc.challenge = nil
		if _, err := f.svc.RunRecoveryChallenge(context.Background(), "ana"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestStatus(t *testing.T) {
	f := newStreakFixture("2024-01-10")
	ctx := context.Background()

	status, err := f.svc.Status(ctx, "ana")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.CurrentStreak != 0 || status.Today != "2024-01-10" || status.Achievements == nil {
		t.Errorf("unknown user status = %+v", status)
	}

	f.seed(7, 9, "2024-01-10", "2024-01-04")
	status, err = f.svc.Status(ctx, "ana")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.CurrentStreak != 7 || status.LongestStreak != 9 || !status.CheckedInToday {
		t.Errorf("status = %+v", status)
	}
	if status.Next == nil || status.Next.ID != "streak_15d" {
		t.Errorf("Next = %+v, want streak_15d", status.Next)
	}
	if f.states.updates != 0 {
		t.Error("Status must not write")
	}
}

func TestStreakService_RecordsActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("session lifecycle", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		if _, err := f.svc.StartSession(ctx, "ana"); err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		if _, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana"}); err != nil {
			t.Fatalf("CheckIn failed: %v", err)
		}
		if _, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana", Relapse: true}); err != nil {
			t.Fatalf("relapse failed: %v", err)
		}

		want := []string{ActivityCreate, ActivityVictory, ActivityRelapse}
		got := f.activity.actions()
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("actions = %v, want %v", got, want)
		}
		victory := f.activity.entries[1]
		if victory.FieldName != "current_streak" || victory.OldValue != "0" || victory.NewValue != "1" {
			t.Errorf("victory entry = %+v", victory)
		}
	})

	t.Run("reset and recovery", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.seed(5, 5, "2024-01-05", "2024-01-01")
		if _, err := f.svc.StartSession(ctx, "ana"); err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}

		g := newStreakFixture("2024-01-10")
		g.seed(5, 5, "2024-01-08", "2024-01-04")
		if _, err := g.svc.Recover(ctx, primary.RecoverRequest{UserID: "ana", Success: false}); err != nil {
			t.Fatalf("Recover failed: %v", err)
		}

		if got := f.activity.actions(); len(got) != 1 || got[0] != ActivityReset {
			t.Errorf("reset actions = %v", got)
		}
		if e := f.activity.entries[0]; e.OldValue != "5" || e.NewValue != "0" {
			t.Errorf("reset entry = %+v", e)
		}
		if got := g.activity.actions(); len(got) != 1 || got[0] != ActivityRecoveryFailed {
			t.Errorf("recovery actions = %v", got)
		}
	})

	t.Run("log failure does not fail the check-in", func(t *testing.T) {
		f := newStreakFixture("2024-01-10")
		f.seed(2, 2, "2024-01-09", "2024-01-08")
		f.activity.err = errors.New("disk full")

		resp, err := f.svc.CheckIn(ctx, primary.CheckInRequest{UserID: "ana"})
		if err != nil {
			t.Fatalf("CheckIn failed: %v", err)
		}
		if resp.Status.CurrentStreak != 3 {
			t.Errorf("CurrentStreak = %d, want 3", resp.Status.CurrentStreak)
		}
	})
}
