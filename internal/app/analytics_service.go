package app

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/example/streak/internal/core/adherence"
	"github.com/example/streak/internal/core/daily"
	"github.com/example/streak/internal/core/datekey"
	"github.com/example/streak/internal/core/trigger"
	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

// AnalyticsServiceImpl implements the AnalyticsService interface as a
// read-only cache-aside over adherence.ComputeWindow.
type AnalyticsServiceImpl struct {
	states   secondary.StreakStateRepository
	records  secondary.DailyRecordRepository
	triggers secondary.TriggerLogRepository
	cache    secondary.AnalyticsCache
	clock    secondary.Clock
	ttl      time.Duration
	log      *logger.Logger

	group singleflight.Group
}

// NewAnalyticsService creates a new AnalyticsService with injected dependencies.
// cache may be nil to disable caching.
func NewAnalyticsService(
	states secondary.StreakStateRepository,
	records secondary.DailyRecordRepository,
	triggers secondary.TriggerLogRepository,
	cache secondary.AnalyticsCache,
	clock secondary.Clock,
	ttl time.Duration,
	log *logger.Logger,
) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		states:   states,
		records:  records,
		triggers: triggers,
		cache:    cache,
		clock:    clock,
		ttl:      ttl,
		log:      log.Named("analytics"),
	}
}

// sharedComputeTimeout bounds a coalesced computation, which no longer
// follows any single caller's context.
const sharedComputeTimeout = 30 * time.Second

// ComputeWindow returns the report for the rangeDays window ending today.
func (s *AnalyticsServiceImpl) ComputeWindow(ctx context.Context, userID string, rangeDays int) (*primary.AnalyticsReport, error) {
	if err := s.validate(userID, rangeDays); err != nil {
		return nil, err
	}
	today := datekey.FromTime(s.clock.Now(), s.clock.Location())
	log := s.log.With(ctxutil.LogFields(ctx)...)
	key, cacheable := s.cacheKey(ctx, log, userID, rangeDays, today)

	if cacheable {
		data, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("analytics cache read failed", "key", key, "error", err)
		case found:
			if report, err := decodeReport(data); err == nil {
				return report, nil
			}
			log.Warn("discarding undecodable analytics cache entry", "key", key)
		}
	}

	return s.computeShared(ctx, key, cacheable, userID, rangeDays, today)
}

// Refresh recomputes a window and overwrites its cache entry.
func (s *AnalyticsServiceImpl) Refresh(ctx context.Context, userID string, rangeDays int) (*primary.AnalyticsReport, error) {
	if err := s.validate(userID, rangeDays); err != nil {
		return nil, err
	}
	today := datekey.FromTime(s.clock.Now(), s.clock.Location())
	key, cacheable := s.cacheKey(ctx, s.log.With(ctxutil.LogFields(ctx)...), userID, rangeDays, today)
	return s.computeShared(ctx, key, cacheable, userID, rangeDays, today)
}

func (s *AnalyticsServiceImpl) validate(userID string, rangeDays int) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if !adherence.ValidRange(rangeDays) {
		return invalid("range must be one of %v days (got %d)", adherence.Ranges, rangeDays)
	}
	return nil
}

// cacheKey returns the key of the window in the user's current cache
// generation. The generation is read before any store read, so a write that
// commits during the computation moves readers to a newer key and the
// report computed here is never served after it. cacheable is false when
// there is no cache or the generation is unknown.
func (s *AnalyticsServiceImpl) cacheKey(ctx context.Context, log *logger.Logger, userID string, rangeDays int, today datekey.Key) (string, bool) {
	if s.cache == nil {
		return secondary.AnalyticsCacheKey(userID, 0, rangeDays, string(today)), false
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		log.Warn("analytics cache generation read failed", "user", userID, "error", err)
		return secondary.AnalyticsCacheKey(userID, -1, rangeDays, string(today)), false
	}
	return secondary.AnalyticsCacheKey(userID, gen, rangeDays, string(today)), true
}

// computeShared coalesces concurrent computations of the same key. The shared
// computation is detached from the caller that started it, so one caller
// giving up does not fail the others. Each caller decodes its own copy of
// the shared result.
func (s *AnalyticsServiceImpl) computeShared(ctx context.Context, key string, cacheable bool, userID string, rangeDays int, today datekey.Key) (*primary.AnalyticsReport, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedComputeTimeout)
		defer cancel()

		report, err := s.compute(shared, userID, rangeDays, today)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(report)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := s.cache.Set(shared, key, data, s.ttl); err != nil {
				s.log.Warn("analytics cache write failed", "key", key, "error", err)
			}
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return decodeReport(res.Val.([]byte))
	}
}

func (s *AnalyticsServiceImpl) compute(ctx context.Context, userID string, rangeDays int, today datekey.Key) (*primary.AnalyticsReport, error) {
	start := adherence.WindowStart(today, rangeDays)

	var (
		stateRec *secondary.StreakStateRecord
		dayRecs  []*secondary.DailyRecordRecord
		events   []*secondary.TriggerEventRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.states.Get(gctx, userID)
		if err != nil {
			return storeErr("load streak state", err)
		}
		stateRec = r
		return nil
	})
	g.Go(func() error {
		r, err := s.records.ListRange(gctx, userID, string(start), string(today))
		if err != nil {
			return storeErr("list daily records", err)
		}
		dayRecs = r
		return nil
	})
	g.Go(func() error {
		r, err := s.triggers.QueryFrom(gctx, userID, string(start))
		if err != nil {
			return storeErr("query trigger log", err)
		}
		events = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in := adherence.Input{
		RangeDays: rangeDays,
		Records:   make([]daily.Record, 0, len(dayRecs)),
		Triggers:  make([]trigger.Event, 0, len(events)),
		Today:     today,
	}
	if stateRec.Exists {
		in.StreakStart = startKey(recordToState(stateRec), s.clock.Location())
	}
	for _, r := range dayRecs {
		in.Records = append(in.Records, recordToDaily(r))
	}
	for _, e := range events {
		in.Triggers = append(in.Triggers, recordToEvent(e))
	}

	report := reportToPrimary(userID, adherence.ComputeWindow(in))
	s.log.Debug("analytics window computed", "user", userID, "range", rangeDays, "points", len(report.Series))
	return report, nil
}

func decodeReport(data []byte) (*primary.AnalyticsReport, error) {
	var report primary.AnalyticsReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	if report.Series == nil {
		report.Series = []primary.SeriesPoint{}
	}
	return &report, nil
}

func reportToPrimary(userID string, r adherence.Report) *primary.AnalyticsReport {
	out := &primary.AnalyticsReport{
		UserID:      userID,
		RangeDays:   r.RangeDays,
		WindowStart: string(r.WindowStart),
		Today:       string(r.Today),
		Series:      make([]primary.SeriesPoint, len(r.Series)),
		Average:     r.Stats.Average,
		PerfectDays: r.Stats.PerfectDays,
	}
	for i, p := range r.Series {
		out.Series[i] = primary.SeriesPoint{
			Label:    p.Label,
			Date:     string(p.Date),
			Value:    p.Value,
			RawCount: p.RawCount,
		}
	}
	if r.Insight != nil {
		in := r.Insight
		out.Insight = &primary.TriggerInsight{
			Total:            in.Total,
			TopEmotion:       tallyToPrimary(in.TopEmotion),
			TopContext:       tallyToPrimary(in.TopContext),
			TopTimeSlot:      tallyToPrimary(in.TopTimeSlot),
			Ranking:          make([]primary.TriggerTally, len(in.Ranking)),
			AverageIntensity: in.AverageIntensity,
			UrgencyCount:     in.UrgencyCount,
			RelapseCount:     in.RelapseCount,
		}
		for i, t := range in.Ranking {
			out.Insight.Ranking[i] = tallyToPrimary(t)
		}
	}
	return out
}

func tallyToPrimary(t adherence.Tally) primary.TriggerTally {
	return primary.TriggerTally{Name: t.Name, Count: t.Count, Percentage: t.Percentage}
}

// Ensure AnalyticsServiceImpl implements the interface.
var _ primary.AnalyticsService = (*AnalyticsServiceImpl)(nil)
