package mcp

import (
	"context"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
)

// DataSource abstracts the workout layer for MCP tools. Both Local (in-process
// tracker) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (models.Workout, error)
	LogWorkout(ctx context.Context, in models.Input) (models.Workout, error)
}

// Tracker is the subset of the tracker service Local needs.
type Tracker interface {
	Submit(ctx context.Context, in models.Input) (models.Workout, error)
	Get(id string) (models.Workout, error)
	List() []models.Workout
}

// Local serves tools straight from an in-process tracker.
type Local struct {
	Tracker Tracker
}

// Compile-time checks.
var (
	_ DataSource = Local{}
	_ Tracker    = (*tracker.Service)(nil)
)

func (l Local) ListWorkouts(context.Context) ([]models.Workout, error) {
	return l.Tracker.List(), nil
}

func (l Local) GetWorkout(_ context.Context, id string) (models.Workout, error) {
	return l.Tracker.Get(id)
}

func (l Local) LogWorkout(ctx context.Context, in models.Input) (models.Workout, error) {
	return l.Tracker.Submit(ctx, in)
}
