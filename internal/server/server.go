package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/mapty/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracker is the workout service the handlers drive.
type Tracker interface {
	Submit(ctx context.Context, in models.Input) (models.Workout, error)
	Get(id string) (models.Workout, error)
	Select(id string) (models.Position, error)
	List() []models.Workout
	Reset(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker Tracker
	log     *slog.Logger
	apiKey  string
	zoom    int
	router  chi.Router
}

// New creates a new Server with all routes configured. zoom is the map zoom
// level returned when a workout is selected.
func New(tracker Tracker, apiKey string, zoom int, log *slog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		log:     log,
		apiKey:  apiKey,
		zoom:    zoom,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/workouts/{id}/position", s.handleSelectWorkout)
		r.Get("/markers", s.handleListMarkers)
		r.Get("/stats", s.handleStats)

		// Write endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/workouts", s.handleSubmitWorkout)
			r.Delete("/workouts", s.handleResetWorkouts)
		})
	})
}

// MountMCP serves an MCP transport at /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

// SetFrontend mounts the browser frontend filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
