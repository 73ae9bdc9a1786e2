// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root": every dependency — database, services,
// handlers, middleware — is created and wired together here, in one place,
// rather than scattered across the codebase. main.go stays minimal (load
// config, start server); each layer only receives the interfaces it needs.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/config"
	"github.com/sakif/snippet-share/internal/handler"
	"github.com/sakif/snippet-share/internal/locale"
	"github.com/sakif/snippet-share/internal/middleware"
	sqliteRepo "github.com/sakif/snippet-share/internal/repository/sqlite"
	"github.com/sakif/snippet-share/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown — most importantly the database connection, which has to be
// closed to flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and runs the startup tag recount.
//
// Recounting HERE (before the server accepts a single request) upholds the
// ledger invariant from the very first read: counts are exact at startup and
// every snippet mutation after that recounts synchronously.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	tagService := service.NewTagService(db, logger)
	if err := tagService.Recount(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("startup tag recount: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS — it executes in the order added:
//  1. RequestID/RealIP — request identity for the logs
//  2. Recoverer — a panicking handler becomes a 500, not a dead process
//  3. Logger — one structured line per completed request
//  4. Gate — locale normalization + auth redirects; runs BEFORE routing, so
//     unprefixed page paths never reach the page routes directly
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	sessions := auth.NewSessionReader(tokens)
	resolver := locale.NewResolver(s.cfg.Locales)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Gate(resolver, sessions, s.logger))

	// Services
	snippetService := service.NewSnippetService(s.db, s.db, s.logger)
	tagService := service.NewTagService(s.db, s.logger)
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)

	// Handlers
	var github *auth.GitHubProvider
	if s.cfg.GitHub.ClientID != "" && s.cfg.GitHub.ClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.cfg.GitHub.ClientID, s.cfg.GitHub.ClientSecret, s.cfg.GitHub.CallbackURL)
	} else {
		s.logger.Warn("GitHub OAuth not configured — /api/auth/github routes disabled")
	}

	authHandler := handler.NewAuthHandler(authService, github, s.cfg.SessionTTL, s.cfg.SecureCookies, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	tagHandler := handler.NewTagHandler(tagService, s.logger)
	pageHandler := handler.NewPageHandler(s.logger)

	requireAuth := auth.RequireAuth(sessions)

	// The whole /api subtree rides the gate's asset bypass — no locale
	// redirects, no auth-page redirects; auth on API routes is RequireAuth
	// returning 401, never a 307.
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignUp)
		r.Post("/auth/signin", authHandler.HandleSignIn)
		r.Post("/auth/signout", authHandler.HandleSignOut)
		r.With(requireAuth).Get("/auth/me", authHandler.HandleMe)

		if github != nil {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}

		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.With(requireAuth).Post("/snippets", snippetHandler.HandleCreate)
		r.With(requireAuth).Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.With(requireAuth).Delete("/snippets/{id}", snippetHandler.HandleDelete)

		r.Get("/tags", tagHandler.HandleList)

		r.With(requireAuth).Get("/stats/me", snippetHandler.HandleMyStats)
		r.Get("/users/{id}/stats", snippetHandler.HandleUserStats)
	})

	// Page shells. By the time a request lands here the gate has guaranteed
	// a locale prefix, so bare paths ("/", "/dashboard") never match these —
	// they arrive as "/{locale}" or "/{locale}/dashboard" on the redirected
	// follow-up request.
	s.router.Get("/{locale}", pageHandler.HandlePage)
	s.router.Get("/{locale}/*", pageHandler.HandlePage)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
			slog.String("defaultLocale", s.cfg.DefaultLocale),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the configured router for HTTP-level tests.
func (s *Server) Router() http.Handler {
	return s.router
}
