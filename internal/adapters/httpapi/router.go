// Package httpapi exposes the streak services as a JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/streak/internal/logger"
	"github.com/example/streak/internal/ports/primary"
)

// Services are the primary ports the API drives.
type Services struct {
	Streak    primary.StreakService
	Daily     primary.DailyService
	Trigger   primary.TriggerService
	Epitaph   primary.EpitaphService
	Analytics primary.AnalyticsService
	// Activity is optional; without it /history is not routed.
	Activity primary.ActivityService
}

// Options configures the router middlewares.
type Options struct {
	AllowedOrigins []string
	RatePerSecond  float64
	Burst          int
}

// NewRouter wires middlewares and routes.
func NewRouter(svcs Services, opts Options, log *logger.Logger) *gin.Engine {
	log = log.Named("http")

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(log))
	r.Use(corsMiddleware(opts.AllowedOrigins))
	if opts.RatePerSecond > 0 {
		r.Use(newIPRateLimiter(opts.RatePerSecond, opts.Burst).middleware())
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.GET("/healthz", func(c *gin.Context) {
		success(c, gin.H{"status": "ok"})
	})

	h := &handlers{svcs: svcs}
	users := r.Group("/api/v1/users/:user")
	{
		users.GET("/session", h.startSession)
		users.GET("/status", h.status)
		users.POST("/checkin", h.checkIn)
		users.POST("/recovery", h.recoverStreak)
		users.GET("/today", h.today)
		users.POST("/missions", h.selectMissions)
		users.POST("/habits/:habit/complete", h.completeHabit)
		users.POST("/triggers", h.logTrigger)
		users.GET("/epitaph", h.epitaph)
		users.POST("/epitaph", h.writeEpitaph)
		users.GET("/analytics", h.analytics)
		if svcs.Activity != nil {
			users.GET("/history", h.history)
		}
	}

	return r
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv *http.Server
	log *logger.Logger
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		log: log.Named("http"),
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
