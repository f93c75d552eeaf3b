package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Mapty", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Mapty workout tracker. List, inspect and log running and cycling workouts pinned to map positions."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolSelectWorkout, Handler: h.selectWorkout},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolGetWorkoutStats, Handler: h.getWorkoutStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workoutsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resWorkouts = mcp.NewResource(
	"mapty://workouts",
	"Workouts",
	mcp.WithResourceDescription("Every logged workout in insertion order"),
	mcp.WithMIMEType("application/json"),
)
