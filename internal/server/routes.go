package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/constants"
	"github.com/todoapp/gobackend/internal/handlers"
	"github.com/todoapp/gobackend/internal/middleware"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Authentication endpoints (signup, login, password reset)
// - Todo CRUD endpoints (JWT-protected)
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(corsMiddleware(&s.Config.CORS))
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.Handlers.GenericHandler.Health)
		r.Get(constants.VersionPath, s.Handlers.GenericHandler.Version)
	})

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Group(func(r chi.Router) {
				r.Post("/signup", s.Handlers.AuthHandler.Register)
				r.Post("/login", s.Handlers.AuthHandler.Login)
				r.Post("/forgot-password", s.Handlers.PasswordResetHandler.ForgotPassword)
				r.Post("/reset-password", s.Handlers.PasswordResetHandler.ResetPassword)
			})

			// Protected auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.jwtService))
				r.Get("/me", s.Handlers.AuthHandler.Me)
			})
		})

		// Todo routes (all protected)
		r.Route("/todos", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.jwtService))

			r.Get("/", s.Handlers.TodoHandler.List)
			r.Post("/", s.Handlers.TodoHandler.Create)

			r.Route("/{"+constants.ParamTodoID+"}", func(r chi.Router) {
				r.Get("/", s.Handlers.TodoHandler.Get)
				r.Put("/", s.Handlers.TodoHandler.Update)
				r.Delete("/", s.Handlers.TodoHandler.Delete)
				r.Post("/toggle", s.Handlers.TodoHandler.Toggle)
			})
		})
	})

	s.router = r
}

// GetRouter returns the configured router. It is primarily used by
// tests that drive the server through httptest.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware adds CORS headers for the configured origins and
// answers OPTIONS preflight requests.
func corsMiddleware(cfg *config.CORSSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range cfg.AllowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					// Preflight request
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
