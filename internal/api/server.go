// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fictora/fictora/internal/core/comment"
	"github.com/fictora/fictora/internal/core/episode"
	"github.com/fictora/fictora/internal/core/genre"
	"github.com/fictora/fictora/internal/core/novel"
	"github.com/fictora/fictora/internal/core/review"
	"github.com/fictora/fictora/internal/platform/config"
	"github.com/fictora/fictora/internal/platform/constants"
	"github.com/fictora/fictora/internal/platform/middleware"
	"github.com/fictora/fictora/internal/users/account"
	"github.com/fictora/fictora/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (login, register, refresh).
	Auth *auth.Handler

	// Account handles self-service profiles and managed accounts.
	Account *account.Handler

	// Novel handles the catalogue, submission, and moderation endpoints.
	Novel *novel.Handler

	// Episode handles per-novel episode endpoints.
	Episode *episode.Handler

	// Genre manages the genre taxonomy.
	Genre *genre.Handler

	// Comment handles episode discussion threads.
	Comment *comment.Handler

	// Review handles reader scores on novels.
	Review *review.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())
		api.Mount("/admin", h.Account.AdminRoutes())

		// Nested resources mount on the {novelID} branch; the novel
		// router's own identifier route catches everything else.
		api.Route("/novels", func(novels chi.Router) {
			novels.Mount("/{novelID}/episodes", h.Episode.NovelRoutes())
			novels.Mount("/{novelID}/reviews", h.Review.NovelRoutes())
			novels.Mount("/", h.Novel.Routes())
		})

		api.Route("/episodes", func(episodes chi.Router) {
			episodes.Mount("/{episodeID}/comments", h.Comment.EpisodeRoutes())
			episodes.Mount("/", h.Episode.Routes())
		})

		api.Mount("/comments", h.Comment.Routes())
		api.Mount("/reviews", h.Review.Routes())

		api.Route("/genres", h.Genre.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
