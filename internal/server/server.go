// Package server exposes the scorer and the session controller over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/sessioncache"
	"github.com/abhisek/wordbridge/internal/settings"
)

const (
	maxBodyBytes    = 1 << 20
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Sessions is the part of the session controller the API drives.
type Sessions interface {
	Start(ctx context.Context, count int) (*session.Session, []sequence.Item, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Rate(ctx context.Context, sessionID string, id concept.ID, r progress.Rating) (*progress.Record, error)
	End(ctx context.Context, sessionID string) (*session.Session, error)
}

// SettingsStore loads and saves the learner settings.
type SettingsStore interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

// StatsStore loads the lifetime statistics.
type StatsStore interface {
	Load(ctx context.Context) (session.Statistics, error)
}

// Config wires the server's dependencies. Cache and Logger are optional.
type Config struct {
	Sessions Sessions
	Settings SettingsStore
	Stats    StatsStore
	Cache    sessioncache.Cache
	Logger   *zap.Logger
	Now      func() time.Time
}

// Server serves the JSON API.
type Server struct {
	sessions Sessions
	settings SettingsStore
	stats    StatsStore
	cache    sessioncache.Cache
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Server. A nil cache falls back to an in-memory one.
func New(cfg Config) *Server {
	s := &Server{
		sessions: cfg.Sessions,
		settings: cfg.Settings,
		stats:    cfg.Stats,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if s.cache == nil {
		s.cache = sessioncache.NewMemory(sessioncache.DefaultTTL)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", s.score)
		r.Post("/score/group", s.scoreGroup)

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.putSettings)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.startSession)
			r.Get("/{id}", s.getSession)
			r.Post("/{id}/ratings", s.rate)
			r.Post("/{id}/end", s.endSession)
		})

		r.Get("/stats", s.getStats)
	})

	return r
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
