package storage

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/workouts"
	"github.com/google/go-cmp/cmp"
)

var pos = models.Position{Lat: 52.52, Lng: 13.40}

func sampleWorkouts() []models.Workout {
	t0 := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	return []models.Workout{
		models.NewRunning("1714986000", t0, 5, 30, 178, pos),
		models.NewCycling("1714989600", t0.Add(time.Hour), 20, 60, 300, pos),
	}
}

func newRepo() (*WorkoutRepository, *Memory) {
	kv := NewMemory()
	return NewWorkoutRepository(kv, "", slog.Default()), kv
}

// TestLoadEmpty verifies loading with nothing stored yields an empty list and no error.
func TestLoadEmpty(t *testing.T) {
	repo, _ := newRepo()
	records, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %v, want empty non-nil slice", records)
	}
}

// TestSaveLoadRestoreRoundTrip verifies restore(load(save(list))) reproduces
// the list attribute for attribute.
func TestSaveLoadRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo()
	want := sampleWorkouts()

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	records, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := workouts.NewStore()
	if skipped := store.Restore(records); len(skipped) != 0 {
		t.Fatalf("skipped: %v", skipped)
	}
	if diff := cmp.Diff(want, store.All()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestSaveIdempotent verifies saving an unchanged list twice stores the same bytes.
func TestSaveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, kv := newRepo()
	ws := sampleWorkouts()

	if err := repo.Save(ctx, ws); err != nil {
		t.Fatal(err)
	}
	first, _, _ := kv.Get(ctx, DefaultKey)
	if err := repo.Save(ctx, ws); err != nil {
		t.Fatal(err)
	}
	second, _, _ := kv.Get(ctx, DefaultKey)
	if string(first) != string(second) {
		t.Errorf("second save changed storage:\n%s\n%s", first, second)
	}
}

// TestSaveEmptyList verifies an empty list is stored as an empty JSON array.
func TestSaveEmptyList(t *testing.T) {
	ctx := context.Background()
	repo, kv := newRepo()
	if err := repo.Save(ctx, nil); err != nil {
		t.Fatal(err)
	}
	got, _, _ := kv.Get(ctx, DefaultKey)
	if string(got) != "[]" {
		t.Errorf("blob = %s, want []", got)
	}
}

// TestClear verifies Clear returns storage to the absent state.
func TestClear(t *testing.T) {
	ctx := context.Background()
	repo, kv := newRepo()
	repo.Save(ctx, sampleWorkouts())
	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get(ctx, DefaultKey); ok {
		t.Error("blob still present after Clear")
	}
	records, err := repo.Load(ctx)
	if err != nil || len(records) != 0 {
		t.Errorf("Load after Clear = %v, %v", records, err)
	}
}

// TestLoadCorruptBlob verifies a non-array blob is reported as ErrCorruptBlob.
func TestLoadCorruptBlob(t *testing.T) {
	ctx := context.Background()
	repo, kv := newRepo()
	kv.Put(ctx, DefaultKey, []byte(`{"not": "an array"`))
	if _, err := repo.Load(ctx); !errors.Is(err, ErrCorruptBlob) {
		t.Errorf("Load error = %v, want ErrCorruptBlob", err)
	}
}

// TestLoadSkipsUndecodableRecords verifies one bad record does not lose the rest.
func TestLoadSkipsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	repo, kv := newRepo()
	blob := `[{"id":"1","kind":"running","distanceKm":"five"},
	          {"id":"2","createdAt":"2024-05-06T09:00:00Z","kind":"cycling","distanceKm":20,"durationMin":60,
	           "position":[1,2],"description":"Cycling on May 6","elevationGainM":0,"speedKmPerH":20}]`
	kv.Put(ctx, DefaultKey, []byte(blob))

	records, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 || records[0].ID != "2" {
		t.Errorf("records = %+v, want only id 2", records)
	}
}

// TestCustomKey verifies the repository writes under the configured key.
func TestCustomKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewWorkoutRepository(kv, "alice-workouts", slog.Default())
	repo.Save(ctx, sampleWorkouts())
	if _, ok, _ := kv.Get(ctx, "alice-workouts"); !ok {
		t.Error("blob not stored under custom key")
	}
	if repo.Key() != "alice-workouts" {
		t.Errorf("Key() = %q", repo.Key())
	}
}
