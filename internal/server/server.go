package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftmax/internal/mcp"
	"github.com/claude/liftmax/internal/storage"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	ts     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables WhoIs-based identity resolution for requests arriving
// over the tailnet. Without it every request maps to the local user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

// MountMCP attaches the MCP transport handler under /mcp, re-keying the
// resolved user identity into the MCP handler context.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := mcp.WithUserID(r.Context(), userIDFromContext(r))
		h.ServeHTTP(w, r.WithContext(ctx))
	}))
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/sets", s.handleIngestSets)
		r.Post("/tests", s.handleIngestTests)
	})

	// Dashboard API endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Put("/api/v1/profile", s.handlePutProfile)
	s.router.Get("/api/v1/estimates", s.handleDashboard)
	s.router.Get("/api/v1/estimates/{lift}", s.handleEstimate)
	s.router.Get("/api/v1/estimates/{lift}/history", s.handleHistory)
	s.router.Get("/api/v1/sets", s.handleQuerySets)
	s.router.Get("/api/v1/tests", s.handleQueryTests)
	s.router.Get("/api/v1/calibration", s.handleGetCalibrations)
	s.router.Put("/api/v1/calibration/{lift}", s.handlePutCalibration)
}
