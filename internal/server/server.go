package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/client/local"

	"github.com/NicolajFoerderer/workout-tracker/internal/cache"
	"github.com/NicolajFoerderer/workout-tracker/internal/mcp"
	"github.com/NicolajFoerderer/workout-tracker/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
	apiKey   string
	ts       *local.Client
	router   chi.Router
}

// New creates a new Server with all routes configured. The cache may be
// nil; handlers treat a nil cache as a permanent miss.
func New(db *storage.DB, c cache.Cache, cacheTTL time.Duration, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// MountMCP exposes an MCP server at /mcp over streamable HTTP. The
// identity middleware runs first; its user ID is copied into the MCP
// request context so tool handlers see the same scoping as the REST API.
func (s *Server) MountMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return mcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

// SetTailscale switches identity resolution from the dev fallback to
// WhoIs lookups against the tsnet local client. Must be called before the
// first request is served.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/stats", s.handleStats)

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleListExercises)
			r.Post("/", s.handleCreateExercise)
			r.Get("/{id}", s.handleGetExercise)
			r.Delete("/{id}", s.handleDeleteExercise)
			r.Get("/{id}/suggestion", s.handleSuggestion)
			r.Get("/{id}/progress", s.handleProgress)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Get("/{id}", s.handleGetTemplate)
			r.Put("/{id}", s.handleUpdateTemplate)
			r.Delete("/{id}", s.handleDeleteTemplate)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.handleListWorkouts)
			r.Post("/", s.handleCreateWorkout)
			r.Get("/{id}", s.handleGetWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
		})
	})
}
