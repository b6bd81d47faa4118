// Package server exposes the ranking engine over HTTP: rank a snapshot
// against a reference location, resolve nearest campuses for a GPS
// fix, and format timezone labels.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campuspulse/activity-rank/internal/config"
	"github.com/campuspulse/activity-rank/internal/geo"
	"github.com/campuspulse/activity-rank/internal/ranker"
	"github.com/campuspulse/activity-rank/internal/registry"
	"github.com/campuspulse/activity-rank/internal/store"
	"github.com/campuspulse/activity-rank/internal/timeparse"
)

// Server is the HTTP API over the ranking engine. Store may be nil
// when the process runs without persistence; store-backed routes then
// return 503.
type Server struct {
	srv     *http.Server
	engine  *ranker.Engine
	locator *geo.Locator
	cache   *timeparse.Cache
	store   store.Store
	lang    string
}

// New assembles the router and HTTP server.
func New(cfg config.ServerConfig, reg *registry.Registry, cache *timeparse.Cache, st store.Store, lang string) *Server {
	s := &Server{
		engine:  ranker.New(reg),
		locator: geo.NewLocator(reg),
		cache:   cache,
		store:   st,
		lang:    lang,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	s.addRoutes(r)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) addRoutes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/rank", s.handleRank)
		r.Get("/nearest", s.handleNearest)
		r.Get("/label", s.handleLabel)
		r.Get("/activities", s.handleListActivities)
	})
}

// Run listens and serves until the server is shut down.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
