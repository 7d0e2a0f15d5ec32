package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/streak/internal/ctxutil"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
)

// SyncScheduler runs SyncService.RecomputeAll on a cron schedule. Runs never
// overlap: a tick that fires while a run is in progress is skipped.
type SyncScheduler struct {
	cron   *cron.Cron
	sync   primary.SyncService
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSyncScheduler parses schedule (standard 5-field cron) in loc.
func NewSyncScheduler(sync primary.SyncService, schedule string, loc *time.Location, log *logger.Logger) (*SyncScheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	log = log.Named("scheduler")
	cl := cronLogger{log: log}

	ctx, cancel := context.WithCancel(ctxutil.WithSource(context.Background(), "sync"))
	s := &SyncScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sync:   sync,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running on schedule in the background.
func (s *SyncScheduler) Start() {
	s.cron.Start()
	s.log.Info("sync scheduler started", "next", s.Next())
}

// Next returns the next scheduled run, or the zero time if not started.
func (s *SyncScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop cancels an in-progress run and waits for it to return, or for ctx.
func (s *SyncScheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("sync scheduler stop timed out")
	}
}

func (s *SyncScheduler) run() {
	summary, err := s.sync.RecomputeAll(s.ctx)
	if err != nil {
		s.log.Error("scheduled sync failed", "error", err)
		return
	}
	s.log.Debug("scheduled sync done", "windows", summary.Windows)
}

// cronLogger adapts the structured logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}

var _ cron.Logger = cronLogger{}
