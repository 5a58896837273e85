// Package server wires the store, services, handlers and routes together
// and owns the HTTP listener's lifecycle.
//
// This is the composition root: every dependency is constructed in New,
// each layer receives only the interfaces it needs, and main.go stays a
// thin entry point.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/examverse/accounts/internal/auth"
	"github.com/examverse/accounts/internal/config"
	"github.com/examverse/accounts/internal/handler"
	"github.com/examverse/accounts/internal/middleware"
	"github.com/examverse/accounts/internal/repository"
	postgresRepo "github.com/examverse/accounts/internal/repository/postgres"
	sqliteRepo "github.com/examverse/accounts/internal/repository/sqlite"
	"github.com/examverse/accounts/internal/service"
)

// Server holds the router and the resources that must be released on
// shutdown. The store is owned here: New opens it, Start closes it.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New assembles the full dependency chain:
//
//	store (sqlite or postgres, by DB_DRIVER)
//	→ SessionManager, AuditLogger, AccountService
//	→ AccountHandler, HealthHandler
//	→ routes
//
// The service only ever sees the repository interfaces, so the two store
// backends stay interchangeable.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	if err := s.setupRoutes(); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openStore picks the storage adapter. Config validation already rejected
// unknown drivers, so the default branch only guards against drift.
func openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db, nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := postgresRepo.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

func (s *Server) setupRoutes() error {
	// Order matters: RequestID and RealIP must run before the logger so
	// each log line carries the request ID and the real client address.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The frontend parses every response as the JSON envelope, so the
	// router's own errors must use it too.
	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	hasher, err := auth.NewHasher(s.config.HashScheme)
	if err != nil {
		return fmt.Errorf("creating credential hasher: %w", err)
	}

	var tokens *auth.TokenService
	if s.config.JWTSecret != "" {
		tokens, err = auth.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
	} else {
		s.logger.Warn("JWT_SECRET not set: login issues no cookie and /api/me is disabled")
	}

	validator := service.NewValidator(s.config.StrictEmail)
	audit := service.NewAuditLogger(s.store, s.logger)
	sessions := service.NewSessionManager(s.store, s.store, s.logger)
	accounts := service.NewAccountService(
		s.store, sessions, audit, hasher, validator, s.logger,
		s.config.RegistrationAutoActivate,
	)

	accountHandler := handler.NewAccountHandler(accounts, tokens, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/health", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", accountHandler.HandleRegister)
		r.Post("/login", accountHandler.HandleLogin)

		if tokens != nil {
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(tokens))
				r.Get("/me", accountHandler.HandleMe)
			})
		}
	})

	return nil
}

// Start runs the listener until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the store. Closing the store
// last lets draining requests finish their writes.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
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
