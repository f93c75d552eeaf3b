// Package tracker coordinates the workout store with persistence. It is the
// single entry point the HTTP, MCP and import front ends talk to.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/claude/mapty/internal/events"
	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/observability"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workouts"
)

// ErrNotFound is returned for ids that are not in the store.
var ErrNotFound = workouts.ErrNotFound

// Repository is the persistence the tracker writes through.
type Repository interface {
	Save(ctx context.Context, ws []models.Workout) error
	Load(ctx context.Context) ([]models.Record, error)
	Clear(ctx context.Context) error
}

var _ Repository = (*storage.WorkoutRepository)(nil)

// Service owns the workout store for the lifetime of the process. All
// operations are serialized.
type Service struct {
	mu        sync.Mutex
	store     *workouts.Store
	repo      Repository
	ids       *models.IDSource
	publisher events.Publisher
	log       *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithIDSource overrides the id/timestamp source.
func WithIDSource(ids *models.IDSource) Option {
	return func(s *Service) { s.ids = ids }
}

// WithPublisher sets the event publisher used after each committed submit.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New creates a Service with an empty store. Call Load to restore persisted workouts.
func New(repo Repository, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     workouts.NewStore(),
		repo:      repo,
		ids:       models.NewIDSource(nil),
		publisher: events.Nop{},
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadResult summarizes a Load.
type LoadResult struct {
	Restored int
	Skipped  []workouts.Skipped
}

// Load replaces the store with the persisted workouts. A corrupt blob is
// logged and leaves the store empty; it is only overwritten by the next save.
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if errors.Is(err, storage.ErrCorruptBlob) {
		s.log.Warn("persisted workouts are corrupt, starting empty", "error", err)
		s.store.Reset()
		observability.SetWorkouts(0)
		return LoadResult{}, nil
	}
	if err != nil {
		return LoadResult{}, err
	}

	skipped := s.store.Restore(records)
	for _, sk := range skipped {
		s.log.Warn("skipping persisted workout", "index", sk.Index, "id", sk.ID, "error", sk.Err)
	}
	res := LoadResult{Restored: s.store.Len(), Skipped: skipped}
	observability.RecordRestored(res.Restored, len(skipped))
	observability.SetWorkouts(res.Restored)
	return res, nil
}

// Submit validates in, builds the workout, persists the extended list and
// only then adds the workout to the store.
func (s *Service) Submit(ctx context.Context, in models.Input) (models.Workout, error) {
	if err := in.Validate(); err != nil {
		observability.RecordRejected()
		return models.Workout{}, err
	}

	s.mu.Lock()
	id, createdAt := s.ids.Next()
	for s.store.Has(id) {
		id, createdAt = s.ids.Next()
	}
	w := in.Build(id, createdAt)

	next := append(s.store.All(), w)
	err := s.repo.Save(ctx, next)
	observability.RecordSave(err)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("saving workouts failed", "id", w.ID, "error", err)
		return models.Workout{}, fmt.Errorf("persisting workout: %w", err)
	}
	s.store.Add(w)
	count := s.store.Len()
	s.mu.Unlock()

	observability.RecordSubmitted(string(w.Kind))
	observability.SetWorkouts(count)
	s.log.Info("workout logged", "id", w.ID, "kind", w.Kind, "description", w.Description)

	if err := s.publisher.PublishWorkoutLogged(ctx, w); err != nil {
		s.log.Warn("publishing workout event failed", "id", w.ID, "error", err)
	}
	return w, nil
}

// Get returns the workout with id.
func (s *Service) Get(id string) (models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.store.FindByID(id)
	if !ok {
		return models.Workout{}, ErrNotFound
	}
	return w, nil
}

// Select resolves a clicked entry to the position the map should center on.
func (s *Service) Select(id string) (models.Position, error) {
	w, err := s.Get(id)
	if err != nil {
		return models.Position{}, err
	}
	return w.Position, nil
}

// List returns all workouts in the order they were logged.
func (s *Service) List() []models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Reset deletes the persisted blob, then empties the store.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.store.Reset()
	observability.SetWorkouts(0)
	s.log.Info("workouts reset")
	return nil
}

// Replace rebuilds the list from records, persists it and swaps it into the
// store. Records Restore would skip are reported and left out.
// Used by bulk import.
func (s *Service) Replace(ctx context.Context, records []models.Record) (LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := workouts.NewStore()
	skipped := staged.Restore(records)
	err := s.repo.Save(ctx, staged.All())
	observability.RecordSave(err)
	if err != nil {
		return LoadResult{}, fmt.Errorf("persisting imported workouts: %w", err)
	}
	s.store.Restore(models.ToRecords(staged.All()))
	observability.SetWorkouts(s.store.Len())
	return LoadResult{Restored: s.store.Len(), Skipped: skipped}, nil
}
