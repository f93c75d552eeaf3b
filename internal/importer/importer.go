// Package importer loads workouts exported from the browser app into the
// tracker.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workouts"
)

// Stats tracks import progress.
type Stats struct {
	EntriesRead       int
	EntriesUnreadable int

	WorkoutsExisting int
	WorkoutsImported int
	WorkoutsSkipped  int

	Skipped []workouts.Skipped
}

// Target is the tracker an import writes into.
type Target interface {
	List() []models.Workout
	Replace(ctx context.Context, records []models.Record) (tracker.LoadResult, error)
}

// Importer reads an exported workouts array and replaces or extends the
// tracker's list with it.
type Importer struct {
	target Target
	log    *slog.Logger
	dryRun bool
	merge  bool
	stats  Stats
}

// New creates a new Importer. With merge set, imported workouts are appended
// after the existing ones and ids already present are skipped; otherwise the
// import replaces the list.
func New(target Target, log *slog.Logger, dryRun, merge bool) *Importer {
	return &Importer{target: target, log: log, dryRun: dryRun, merge: merge}
}

// Import processes the export file at path.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return imp.ImportReader(ctx, f)
}

// ImportReader processes an export read from r.
func (imp *Importer) ImportReader(ctx context.Context, r io.Reader) (*Stats, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return &imp.stats, fmt.Errorf("parsing export: expected a JSON array: %w", err)
	}
	imp.stats.EntriesRead = len(raw)

	var records []models.Record
	if imp.merge {
		existing := imp.target.List()
		imp.stats.WorkoutsExisting = len(existing)
		records = models.ToRecords(existing)
	}

	for i, msg := range raw {
		rec, err := decodeEntry(msg)
		if err != nil {
			imp.log.Warn("unreadable entry", "index", i, "error", err)
			imp.stats.EntriesUnreadable++
			continue
		}
		records = append(records, rec)
	}

	var (
		total   int
		skipped []workouts.Skipped
	)
	if imp.dryRun {
		staged := workouts.NewStore()
		skipped = staged.Restore(records)
		total = staged.Len()
	} else {
		res, err := imp.target.Replace(ctx, records)
		if err != nil {
			return &imp.stats, fmt.Errorf("replacing workouts: %w", err)
		}
		total, skipped = res.Restored, res.Skipped
	}

	for _, sk := range skipped {
		imp.log.Info("skipping workout", "index", sk.Index, "id", sk.ID, "reason", sk.Err)
	}
	imp.stats.Skipped = skipped
	imp.stats.WorkoutsSkipped = len(skipped)
	imp.stats.WorkoutsImported = total - imp.stats.WorkoutsExisting
	return &imp.stats, nil
}
