package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nimamura/fencing-drill/internal/session"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	registry *session.Registry
	log      *slog.Logger
	version  string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(registry *session.Registry, version string, log *slog.Logger) *Server {
	s := &Server{
		registry: registry,
		log:      log,
		version:  version,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// MountMCP exposes an MCP transport handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)

	// Catalog endpoints — static data, no session required
	s.router.Get("/api/v1/commands", s.handleCommands)
	s.router.Get("/api/v1/patterns", s.handlePatterns)
	s.router.Get("/api/v1/weapons", s.handleWeapons)

	// Session control surface
	s.router.Post("/api/v1/sessions", s.handleStartSession)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Post("/api/v1/sessions/{id}/stop", s.handleStopSession)
	s.router.Get("/api/v1/sessions/{id}/events", s.handleSessionEvents)
}
