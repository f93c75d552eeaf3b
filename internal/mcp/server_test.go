package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workouts"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeSource is an in-memory DataSource.
type fakeSource struct {
	workouts []models.Workout
	logged   []models.Input
	err      error
}

func (f *fakeSource) ListWorkouts(context.Context) ([]models.Workout, error) {
	return f.workouts, f.err
}

func (f *fakeSource) GetWorkout(_ context.Context, id string) (models.Workout, error) {
	if f.err != nil {
		return models.Workout{}, f.err
	}
	for _, w := range f.workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workout{}, tracker.ErrNotFound
}

func (f *fakeSource) LogWorkout(_ context.Context, in models.Input) (models.Workout, error) {
	if err := in.Validate(); err != nil {
		return models.Workout{}, err
	}
	f.logged = append(f.logged, in)
	w := in.Build("0000000099", time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	f.workouts = append(f.workouts, w)
	return w, nil
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func sampleWorkouts() []models.Workout {
	t0 := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	pos := models.Position{Lat: 52.52, Lng: 13.40}
	return []models.Workout{
		models.NewRunning("0000000001", t0, 5, 30, 178, pos),
		models.NewCycling("0000000002", t0.Add(time.Hour), 20, 60, 300, models.Position{Lat: 48.1, Lng: 11.6}),
		models.NewRunning("0000000003", t0.Add(2*time.Hour), 10, 55, 172, pos),
	}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want mcp.TextContent", res.Content[0])
	}
	return text.Text
}

// TestListWorkoutsTool verifies the kind filter and limit keep the most recent entries.
func TestListWorkoutsTool(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})

	res, err := h.listWorkouts(context.Background(), callTool(map[string]any{"kind": "running", "limit": 1}))
	if err != nil || res.IsError {
		t.Fatalf("listWorkouts = %v, %v", res, err)
	}
	var got []models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "0000000003" {
		t.Errorf("got %+v, want only 0000000003", got)
	}
}

// TestListWorkoutsToolBadKind verifies unknown kinds are reported as tool errors.
func TestListWorkoutsToolBadKind(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, _ := h.listWorkouts(context.Background(), callTool(map[string]any{"kind": "rowing"}))
	if !res.IsError {
		t.Error("expected tool error for unknown kind")
	}
}

// TestGetWorkoutTool verifies hits and the not-found message.
func TestGetWorkoutTool(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})

	res, _ := h.getWorkout(context.Background(), callTool(map[string]any{"id": "0000000002"}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	var w models.Workout
	json.Unmarshal([]byte(resultText(t, res)), &w)
	if w.Kind != models.KindCycling || w.Cycling == nil || w.Cycling.SpeedKmPerH != 20 {
		t.Errorf("workout = %+v", w)
	}

	res, _ = h.getWorkout(context.Background(), callTool(map[string]any{"id": "nope"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "not found") {
		t.Errorf("missing id result = %+v", res)
	}

	res, _ = h.getWorkout(context.Background(), callTool(nil))
	if !res.IsError {
		t.Error("expected error when id is missing")
	}
}

// TestSelectWorkoutTool verifies the tool returns the workout's position.
func TestSelectWorkoutTool(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})
	res, _ := h.selectWorkout(context.Background(), callTool(map[string]any{"id": "0000000002"}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	var pos models.Position
	json.Unmarshal([]byte(resultText(t, res)), &pos)
	if pos.Lat != 48.1 || pos.Lng != 11.6 {
		t.Errorf("position = %+v, want 48.1/11.6", pos)
	}
}

// TestLogWorkoutTool verifies a valid form is logged and an invalid one gets the form message.
func TestLogWorkoutTool(t *testing.T) {
	src := &fakeSource{}
	h := newHandlers(src)

	res, _ := h.logWorkout(context.Background(), callTool(map[string]any{
		"kind": "cycling", "distance_km": 20.0, "duration_min": 60.0, "elevation_gain_m": -15.0, "lat": 1.0, "lng": 2.0,
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if len(src.logged) != 1 || src.logged[0].ElevationGain != -15 || src.logged[0].Position.Lng != 2 {
		t.Errorf("logged = %+v", src.logged)
	}

	res, _ = h.logWorkout(context.Background(), callTool(map[string]any{
		"kind": "running", "distance_km": 5.0, "duration_min": 30.0, "lat": 1.0, "lng": 2.0,
	}))
	if !res.IsError || resultText(t, res) != models.InvalidInputMessage {
		t.Errorf("invalid running result = %+v", res)
	}
}

// TestToolsSurfaceSourceErrors verifies backend failures become tool errors, not protocol errors.
func TestToolsSurfaceSourceErrors(t *testing.T) {
	h := newHandlers(&fakeSource{err: errors.New("backend down")})
	res, err := h.listWorkouts(context.Background(), callTool(nil))
	if err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "backend down") {
		t.Errorf("result = %+v", res)
	}
}

// TestGetWorkoutStatsTool verifies the stats tool summarizes the source's workouts.
func TestGetWorkoutStatsTool(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})
	res, _ := h.getWorkoutStats(context.Background(), callTool(nil))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	var stats workouts.Stats
	if err := json.Unmarshal([]byte(resultText(t, res)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalWorkouts != 3 || len(stats.ByKind) != 2 || stats.ByKind[0].Count != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestWorkoutsResource verifies the resource serves the list as JSON.
func TestWorkoutsResource(t *testing.T) {
	h := newHandlers(&fakeSource{workouts: sampleWorkouts()})
	var req mcp.ReadResourceRequest
	req.Params.URI = "mapty://workouts"

	contents, err := h.workoutsResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents = %T", contents[0])
	}
	var got []models.Workout
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || text.URI != "mapty://workouts" {
		t.Errorf("resource = %d workouts, uri %q", len(got), text.URI)
	}
}

// TestNewRegistersTools verifies New builds a server without panicking.
func TestNewRegistersTools(t *testing.T) {
	if s := New(&fakeSource{}, "test", slog.Default()); s == nil {
		t.Fatal("New returned nil")
	}
}
