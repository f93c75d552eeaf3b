// Package workouts holds the ordered, in-memory collection of a user's workouts.
package workouts

import (
	"errors"
	"fmt"

	"github.com/claude/mapty/internal/models"
)

// ErrNotFound is returned when no workout has the requested id.
var ErrNotFound = errors.New("workout not found")

// Skipped describes a persisted record that Restore could not rebuild.
type Skipped struct {
	Index int
	ID    string
	Err   error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("record %d (id %q): %v", s.Index, s.ID, s.Err)
}

// Store keeps workouts in insertion order. It is not safe for concurrent use;
// callers serialize access.
type Store struct {
	items []models.Workout
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends w. Ids are not checked for uniqueness here.
func (s *Store) Add(w models.Workout) {
	s.items = append(s.items, w)
}

// FindByID returns the first workout with the given id.
func (s *Store) FindByID(id string) (models.Workout, bool) {
	for _, w := range s.items {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}

// Has reports whether a workout with id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.FindByID(id)
	return ok
}

// All returns a copy of the workouts in insertion order.
func (s *Store) All() []models.Workout {
	out := make([]models.Workout, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.items)
}

// Restore replaces the contents with workouts rebuilt from records, keeping
// record order. Records that cannot be typed, or repeat an id seen earlier,
// are left out and returned as Skipped.
func (s *Store) Restore(records []models.Record) []Skipped {
	items := make([]models.Workout, 0, len(records))
	seen := make(map[string]bool, len(records))
	var skipped []Skipped

	for i, r := range records {
		w, err := r.Workout()
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, ID: r.ID, Err: err})
			continue
		}
		if seen[w.ID] {
			skipped = append(skipped, Skipped{Index: i, ID: r.ID, Err: errors.New("duplicate id")})
			continue
		}
		seen[w.ID] = true
		items = append(items, w)
	}

	s.items = items
	return skipped
}

// Reset drops every workout.
func (s *Store) Reset() {
	s.items = nil
}
