package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/claude/mapty/internal/models"
)

// DefaultKey is the storage key holding the workouts blob.
const DefaultKey = "workouts"

// WorkoutRepository saves and loads the whole workout list as one JSON blob.
type WorkoutRepository struct {
	kv  KV
	key string
	log *slog.Logger
}

// NewWorkoutRepository creates a repository over kv. An empty key means DefaultKey.
func NewWorkoutRepository(kv KV, key string, log *slog.Logger) *WorkoutRepository {
	if key == "" {
		key = DefaultKey
	}
	return &WorkoutRepository{kv: kv, key: key, log: log}
}

// Key returns the storage key in use.
func (r *WorkoutRepository) Key() string {
	return r.key
}

// Encode serializes workouts in order into the persisted layout.
func Encode(ws []models.Workout) ([]byte, error) {
	data, err := json.Marshal(models.ToRecords(ws))
	if err != nil {
		return nil, fmt.Errorf("encoding workouts: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob. Records that fail to decode are skipped
// and returned as warnings; a blob that is not a JSON array is ErrCorruptBlob.
func Decode(data []byte) ([]models.Record, []error, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Record{}, nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptBlob, err)
	}

	records := make([]models.Record, 0, len(raw))
	var warnings []error
	for i, msg := range raw {
		var rec models.Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			warnings = append(warnings, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, warnings, nil
}

// Save overwrites the blob with the full list.
func (r *WorkoutRepository) Save(ctx context.Context, ws []models.Workout) error {
	data, err := Encode(ws)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving workouts: %w", err)
	}
	return nil
}

// Load reads the blob back as plain records. A missing blob yields an empty list.
func (r *WorkoutRepository) Load(ctx context.Context) ([]models.Record, error) {
	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	if !ok {
		return []models.Record{}, nil
	}

	records, warnings, err := Decode(data)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		r.log.Warn("skipping undecodable workout record", "key", r.key, "error", w)
	}
	return records, nil
}

// Clear deletes the blob.
func (r *WorkoutRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}
