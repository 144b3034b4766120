// Package httpapi serves the BusinessAPI over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"daylog/internal/api"
	"daylog/internal/config"
	"daylog/internal/metrics"
)

// NewRouter builds the HTTP routes. m may be nil, in which case /metrics is
// not served and requests are not instrumented.
func NewRouter(a api.BusinessAPI, m *metrics.Metrics, log *zap.Logger) http.Handler {
	h := &handlers{api: a}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	if m != nil {
		r.Use(instrument(m))
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{user}", func(r chi.Router) {
			r.Get("/days/{date}/activities", h.listActivities)
			r.Post("/days/{date}/activities", h.addActivity)
			r.Get("/days/{date}/stats", h.dayStats)
			r.Get("/range", h.activityRange)
			r.Get("/todos", h.listTodos)
			r.Post("/todos", h.addTodo)
		})

		r.Patch("/activities/{id}", h.editActivity)
		r.Delete("/activities/{id}", h.deleteActivity)

		r.Patch("/todos/{id}", h.updateTodo)
		r.Delete("/todos/{id}", h.deleteTodo)

		r.Route("/timers", func(r chi.Router) {
			r.Get("/", h.listTimers)
			r.Post("/", h.addTimer)
			r.Get("/stats", h.timerStats)
			r.Get("/templates", h.timerTemplates)
			r.Put("/{id}", h.editTimer)
			r.Delete("/{id}", h.deleteTimer)
			r.Post("/{id}/toggle", h.toggleTimer)
			r.Post("/{id}/reset", h.resetTimer)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.listBooks)
			r.Post("/", h.addBook)
			r.Get("/stats", h.bookStats)
			r.Delete("/{id}", h.deleteBook)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.listProfiles)
			r.Post("/", h.createProfile)
			r.Get("/{id}", h.getProfile)
			r.Put("/{id}/role", h.changeRole)
		})
	})

	return r
}

// NewServer wraps handler with the configured address and timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
	}
}

// Serve runs srv until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

func instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, r.Method, status, time.Since(start))
		})
	}
}
