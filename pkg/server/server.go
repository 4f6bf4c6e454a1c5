// Package server puts highlight sessions behind HTTP. A browser opens a
// session, uploads its atoms, then sends clicks. The answer to a click
// is the selection expression and the names of the highlights, and the
// browser asks for the list of representations and draws them itself.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andrew-torda/pdbnear/pkg/config"
)

type Server struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *Metrics
	st      *store
	router  chi.Router
}

func New(cfg config.Config, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	m := NewMetrics()
	s := &Server{cfg: cfg, log: l, metrics: m, st: newStore(cfg.MaxSessions, m)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoverer(l))
	r.Use(logging(l, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.newSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.dropSession)
			r.Post("/structure", s.loadStructure)
			r.Post("/pick", s.pick)
			r.Delete("/highlights", s.clear)
			r.Get("/representations", s.representations)
			r.Post("/toggle/{kind}", s.toggle)
			r.Post("/measure/pick", s.measurePick)
			r.Post("/measure/{kind}", s.setMeasure)
		})
	})
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Metrics() *Metrics { return s.metrics }

// Run serves until ctx is cancelled, then gives requests in flight
// ten seconds to finish.
func Run(ctx context.Context, cfg config.Config, l *zap.Logger) error {
	s := New(cfg, l)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("http listen", zap.String("addr", cfg.Addr),
			zap.Float64("radius", cfg.Radius), zap.Int("workers", cfg.Workers))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		l.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
