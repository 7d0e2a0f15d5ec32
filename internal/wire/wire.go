// Package wire provides dependency injection for the streak application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/streak/internal/adapters/cache"
	cliadapter "github.com/example/streak/internal/adapters/cli"
	"github.com/example/streak/internal/adapters/clock"
	"github.com/example/streak/internal/adapters/httpapi"
	"github.com/example/streak/internal/adapters/quiz"
	"github.com/example/streak/internal/adapters/sqlite"
	"github.com/example/streak/internal/app"
	"github.com/example/streak/internal/config"
	"github.com/example/streak/internal/db"
	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
	"github.com/example/streak/internal/ports/secondary"
)

var (
	configDir string

	cfg      *config.Config
	appLog   *logger.Logger
	database *sql.DB
	sysClock secondary.Clock
	reports  secondary.AnalyticsCache
	closers  []func() error

	states   secondary.StreakStateRepository
	records  secondary.DailyRecordRepository
	triggers secondary.TriggerLogRepository
	activity secondary.ActivityLog

	streakService    *app.StreakServiceImpl
	dailyService     primary.DailyService
	triggerService   primary.TriggerService
	epitaphService   primary.EpitaphService
	activityService  primary.ActivityService
	analyticsService *app.AnalyticsServiceImpl
	syncService      primary.SyncService

	once    sync.Once
	initErr error
)

// SetConfigDir overrides the config directory. It must be called before
// the first service is requested.
func SetConfigDir(dir string) {
	configDir = dir
}

// Init initializes all services once and reports any failure.
func Init() error {
	once.Do(initServices)
	return initErr
}

func mustInit() {
	if err := Init(); err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	dir := configDir
	if dir == "" {
		d, err := config.DefaultDir()
		if err != nil {
			initErr = err
			return
		}
		dir = d
	}

	c, err := config.LoadConfig(dir)
	if err != nil {
		initErr = err
		return
	}
	cfg = c

	l, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Console:    consoleSink(cfg.Log.File),
	})
	if err != nil {
		initErr = fmt.Errorf("failed to initialize logger: %w", err)
		return
	}
	appLog = l

	loc, _ := cfg.Location()
	sysClock = clock.NewSystem(loc)

	database, err = db.Open(cfg.DBPath)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}
	closers = append(closers, database.Close)

	reports = newAnalyticsCache()

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	states = sqlite.NewStreakStateRepository(database)
	records = sqlite.NewDailyRecordRepository(database)
	triggers = sqlite.NewTriggerLogRepository(database)
	epitaphs := sqlite.NewEpitaphRepository(database)
	activityRepo := sqlite.NewActivityLogRepository(database)
	activity = sqlite.NewLogWriterAdapter(activityRepo)

	// Create services (primary ports implementation)
	streakService = app.NewStreakService(states, records, triggers, reports, activity, newPresenter(cfg.Quiz.Questions), sysClock, appLog)
	dailyService = app.NewDailyService(records, reports, sysClock, appLog)
	triggerService = app.NewTriggerService(states, triggers, reports, sysClock, appLog)
	epitaphService = app.NewEpitaphService(states, epitaphs, sysClock, appLog)
	activityService = app.NewActivityService(activityRepo)
	analyticsService = app.NewAnalyticsService(states, records, triggers, reports, sysClock, cfg.Redis.TTL, appLog)
	syncService = app.NewSyncService(states, analyticsService, cfg.Sync.WindowDelay, appLog)
}

// newPresenter returns a terminal Recovery Challenge of n questions.
func newPresenter(n int) *quiz.Presenter {
	return quiz.NewPresenter(quiz.DefaultBank, n, os.Stdin, os.Stdout,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// consoleSink returns where human-readable logs go. With a log file
// configured the console only gets what the file also records.
func consoleSink(file string) io.Writer {
	if file != "" {
		return nil
	}
	return os.Stderr
}

// newAnalyticsCache selects Redis when an address is configured and
// reachable, and the in-process cache otherwise.
func newAnalyticsCache() secondary.AnalyticsCache {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache()
	}

	rc := cache.NewRedisCache(cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		appLog.Warn("redis unreachable, using in-process cache", "addr", cfg.Redis.Addr, "error", err)
		rc.Close()
		return cache.NewMemoryCache()
	}
	closers = append(closers, rc.Close)
	return rc
}

// Close releases the database and cache connections and flushes logs.
func Close() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && appLog != nil {
			appLog.Warn("close failed", "error", err)
		}
	}
	closers = nil
	if appLog != nil {
		appLog.Sync()
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	mustInit()
	return cfg
}

// Logger returns the application logger.
func Logger() *logger.Logger {
	mustInit()
	return appLog
}

// Clock returns the system clock in the configured timezone.
func Clock() secondary.Clock {
	mustInit()
	return sysClock
}

// DB returns the open database.
func DB() *sql.DB {
	mustInit()
	return database
}

// StreakService returns the singleton StreakService instance.
func StreakService() primary.StreakService {
	mustInit()
	return streakService
}

// DailyService returns the singleton DailyService instance.
func DailyService() primary.DailyService {
	mustInit()
	return dailyService
}

// AnalyticsService returns the singleton AnalyticsService instance.
func AnalyticsService() primary.AnalyticsService {
	mustInit()
	return analyticsService
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	mustInit()
	return syncService
}

// SyncScheduler returns a scheduler running SyncService on the configured
// cron schedule.
func SyncScheduler() (*app.SyncScheduler, error) {
	mustInit()
	loc, _ := cfg.Location()
	return app.NewSyncScheduler(syncService, cfg.Sync.Schedule, loc, appLog)
}

// HTTPServer returns a server exposing every service on addr. An empty addr
// uses the configured one.
func HTTPServer(addr string) *httpapi.Server {
	mustInit()
	if addr == "" {
		addr = cfg.HTTP.Addr
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.Services{
		Streak:    streakService,
		Daily:     dailyService,
		Trigger:   triggerService,
		Epitaph:   epitaphService,
		Analytics: analyticsService,
		Activity:  activityService,
	}, httpapi.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		RatePerSecond:  cfg.HTTP.RatePerSecond,
		Burst:          cfg.HTTP.Burst,
	}, appLog)
	return httpapi.NewServer(addr, router, appLog)
}

// StreakAdapter returns a new StreakAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func StreakAdapter() *cliadapter.StreakAdapter {
	return StreakAdapterWithOutput(os.Stdout)
}

// StreakAdapterWithOutput returns a new StreakAdapter writing to the given output.
func StreakAdapterWithOutput(out io.Writer) *cliadapter.StreakAdapter {
	mustInit()
	return cliadapter.NewStreakAdapter(streakService, out)
}

// RecoveryAdapter returns a StreakAdapter whose Recovery Challenge asks
// questions questions. Zero uses the configured count.
func RecoveryAdapter(questions int) *cliadapter.StreakAdapter {
	mustInit()
	if questions == 0 {
		return cliadapter.NewStreakAdapter(streakService, os.Stdout)
	}
	svc := app.NewStreakService(states, records, triggers, reports, activity, newPresenter(questions), sysClock, appLog)
	return cliadapter.NewStreakAdapter(svc, os.Stdout)
}

// DailyAdapter returns a new DailyAdapter writing to stdout.
func DailyAdapter() *cliadapter.DailyAdapter {
	mustInit()
	return cliadapter.NewDailyAdapter(dailyService, os.Stdout)
}

// JournalAdapter returns a new JournalAdapter writing to stdout.
func JournalAdapter() *cliadapter.JournalAdapter {
	mustInit()
	return cliadapter.NewJournalAdapter(triggerService, epitaphService, os.Stdout)
}

// ActivityAdapter returns a new ActivityAdapter writing to stdout.
func ActivityAdapter() *cliadapter.ActivityAdapter {
	mustInit()
	return cliadapter.NewActivityAdapter(activityService, os.Stdout)
}

// AnalyticsAdapter returns a new AnalyticsAdapter writing to stdout.
func AnalyticsAdapter() *cliadapter.AnalyticsAdapter {
	mustInit()
	return cliadapter.NewAnalyticsAdapter(analyticsService, syncService, os.Stdout)
}
