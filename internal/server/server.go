// Package server provides the HTTP server for the TodoApp API. It wires
// configuration, storage, services, and handlers together and manages
// the server lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/todoapp/gobackend/internal/auth"
	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/handlers"
	"github.com/todoapp/gobackend/internal/repository"
	"github.com/todoapp/gobackend/internal/service"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages signup, login, and profile endpoints
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler manages the password reset flow
	PasswordResetHandler *handlers.PasswordResetHandler

	// TodoHandler manages todo CRUD endpoints
	TodoHandler *handlers.TodoHandler

	// GenericHandler serves health and version endpoints
	GenericHandler *handlers.GenericHandler
}

// Server represents the API server for the TodoApp application.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Repos provides data access
	Repos *repository.Repositories

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// jwtService handles token generation and validation
	jwtService *auth.JWTService

	// cleanup purges expired reset tokens in the background
	cleanup *service.CleanupScheduler

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// Initialization order: storage → auth services → email → handlers →
// routes; each layer only depends on the ones before it.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	repos, err := repository.NewRepositories(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}
	s.Repos = repos

	s.jwtService = auth.NewJWTService(&cfg.JWT, cfg.Reset.TokenTTL)
	s.cleanup = service.NewCleanupScheduler(repos.ResetTokens, cfg.Reset.CleanupInterval)

	emailSender := service.NewEmailSender(&cfg.Email)

	s.Handlers = &Handlers{
		AuthHandler: handlers.NewAuthHandler(repos.Users, s.jwtService),
		PasswordResetHandler: handlers.NewPasswordResetHandler(
			repos.Users,
			repos.ResetTokens,
			s.jwtService,
			emailSender,
			cfg.Reset.TokenTTL,
			cfg.Reset.BaseURL,
		),
		TodoHandler:    handlers.NewTodoHandler(repos.Todos),
		GenericHandler: handlers.NewGenericHandler(&cfg.App),
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// Start starts the HTTP server and the background cleanup of expired
// reset tokens, then blocks until a server error or shutdown signal.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	s.cleanup.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		s.cleanup.Stop()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server. In-flight requests are
// allowed to complete and the cleanup scheduler is stopped.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.cleanup.Stop()
	log.Info().Msg("Server stopped gracefully")

	return nil
}
