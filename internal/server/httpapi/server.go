// Package httpapi exposes the timeline store as a JSON API, together with
// health and Prometheus endpoints, using a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics is the part of the metrics package the API needs.
type Metrics interface {
	ObserveRequest(transport, method, code string, d time.Duration)
	Handler() http.Handler
}

type Server struct {
	address string
	router  *chi.Mux
	store   *timeline.Store
	metrics Metrics
	logger  logging.Logger
}

// New builds the router. metrics may be nil, in which case /metrics is not
// served.
func New(address string, logger logging.Logger, store *timeline.Store, metrics Metrics) *Server {
	s := &Server{
		address: address,
		router:  chi.NewRouter(),
		store:   store,
		metrics: metrics,
		logger:  logger.With("module", "http_server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{name}", s.handleResolveUser)
		r.Post("/users/{id}/follow", s.handleFollow)
		r.Post("/users/{id}/posts", s.handleCreatePost)
		r.Get("/users/{id}/timeline", s.handleUserTimeline)
		r.Get("/users/{id}/followers", s.handleFollowers)
		r.Get("/users/{id}/following", s.handleFollowing)
		r.Get("/common/{a}/{b}", s.handleCommonFollowers)
		r.Get("/timeline", s.handleGlobalTimeline)
		r.Get("/posts/{id}", s.handleGetPost)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done and then shuts down, giving in-flight
// requests a few seconds to finish.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		serverErrors <- srv.Serve(lis)
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
