// Package web provides the HTTP server and JSON handlers for the buyer lead
// intake API.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kAtharva4/buyer-lead-intake/internal/config"
	"github.com/kAtharva4/buyer-lead-intake/internal/core"
	"github.com/kAtharva4/buyer-lead-intake/internal/ratelimit"
	"github.com/kAtharva4/buyer-lead-intake/internal/web/middleware"
)

// Server is the HTTP server for the lead intake application.
type Server struct {
	service *core.Service
	cfg     *config.Config
	limiter *ratelimit.Limiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		limiter: ratelimit.New(cfg.Rate.CreateMax, cfg.Rate.CreateWindow),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes. Every API route requires a
// resolved session.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(&s.cfg.Session))

		r.Route("/buyers", func(r chi.Router) {
			r.Get("/", s.handleListBuyers)
			r.Post("/", s.handleCreateBuyer)

			r.Post("/import", s.handleImport)
			r.Get("/export", s.handleExport)

			r.Get("/{id}", s.handleGetBuyer)
			r.Put("/{id}", s.handleUpdateBuyer)
			r.Delete("/{id}", s.handleDeleteBuyer)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
