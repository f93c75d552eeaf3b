package mcp

import (
	"context"
	"errors"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workouts"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workouts in the order they were recorded. Each workout carries distance, duration, position, description and either running (cadence, pace) or cycling (elevation gain, speed) fields."),
	mcp.WithString("kind", mcp.Description("Only return workouts of this kind"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("limit", mcp.Description("Return at most this many of the most recent workouts. Defaults to all.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single workout by its id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id (10 digits)")),
)

var toolSelectWorkout = mcp.NewTool("select_workout",
	mcp.WithDescription("Resolve a workout id to the map position it was logged at."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id (10 digits)")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a new workout at a map position. Running needs cadence_spm; cycling needs elevation_gain_m. Distance, duration and cadence must be positive."),
	mcp.WithString("kind", mcp.Required(), mcp.Enum("running", "cycling")),
	mcp.WithNumber("distance_km", mcp.Required(), mcp.Description("Distance in kilometres")),
	mcp.WithNumber("duration_min", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence_spm", mcp.Description("Running cadence in steps per minute")),
	mcp.WithNumber("elevation_gain_m", mcp.Description("Cycling elevation gain in metres")),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude in degrees")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude in degrees")),
)

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Totals per workout kind: count, distance, duration and the overall pace (running) or speed (cycling), plus the date range covered."),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kind models.Kind
	if s := req.GetString("kind", ""); s != "" {
		k, err := models.ParseKind(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		kind = k
	}

	ws, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := make([]models.Workout, 0, len(ws))
	for _, w := range ws {
		if kind == "" || w.Kind == kind {
			out = append(out, w)
		}
	}
	if limit := req.GetInt("limit", 0); limit > 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, tracker.ErrNotFound) {
		return mcp.NewToolResultError("workout " + id + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) selectWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	w, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, tracker.ErrNotFound) {
		return mcp.NewToolResultError("workout " + id + " not found"), nil
	}
	if err != nil {
		h.log.Error("mcp select_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w.Position)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindStr, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError("kind parameter is required"), nil
	}
	kind, err := models.ParseKind(kindStr)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := models.Input{
		Kind:          kind,
		DistanceKm:    req.GetFloat("distance_km", 0),
		DurationMin:   req.GetFloat("duration_min", 0),
		CadenceSpm:    req.GetFloat("cadence_spm", 0),
		ElevationGain: req.GetFloat("elevation_gain_m", 0),
		Position:      models.Position{Lat: req.GetFloat("lat", 0), Lng: req.GetFloat("lng", 0)},
	}

	w, err := h.ds.LogWorkout(ctx, in)
	if errors.Is(err, models.ErrInvalidInput) {
		return mcp.NewToolResultError(models.InvalidInputMessage), nil
	}
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("logging workout failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts.Summarize(ws))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
