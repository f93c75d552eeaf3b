package importer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/mapty/internal/models"
)

// browserWorkout is a workout as the browser app keeps it in local storage:
// the plain object form of its Running/Cycling classes.
type browserWorkout struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Type          string     `json:"type"`
	Distance      float64    `json:"distance"`
	Duration      float64    `json:"duration"`
	Coords        [2]float64 `json:"coords"`
	Description   string     `json:"description"`
	Cadence       *float64   `json:"cadence"`
	Pace          *float64   `json:"pace"`
	ElevationGain *float64   `json:"elevationGain"`
	Speed         *float64   `json:"speed"`
}

// record converts to the persisted layout. Pace, speed and description are
// derived only when the export lacks them.
func (b browserWorkout) record() models.Record {
	r := models.Record{
		ID:          b.ID,
		CreatedAt:   b.Date,
		Kind:        b.Type,
		DistanceKm:  b.Distance,
		DurationMin: b.Duration,
		Position:    b.Coords,
		Description: b.Description,
	}
	kind, err := models.ParseKind(b.Type)
	if err != nil {
		return r
	}
	r.Kind = string(kind)
	if r.Description == "" {
		r.Description = models.Describe(kind, b.Date)
	}

	switch kind {
	case models.KindRunning:
		r.CadenceSpm = b.Cadence
		r.PaceMinPerKm = b.Pace
		if r.PaceMinPerKm == nil {
			p := models.Pace(b.Distance, b.Duration)
			r.PaceMinPerKm = &p
		}
	case models.KindCycling:
		r.ElevationGainM = b.ElevationGain
		r.SpeedKmPerH = b.Speed
		if r.SpeedKmPerH == nil {
			s := models.Speed(b.Distance, b.Duration)
			r.SpeedKmPerH = &s
		}
	}
	return r
}

// decodeEntry accepts either layout: persisted records carry "kind", browser
// objects carry "type".
func decodeEntry(msg json.RawMessage) (models.Record, error) {
	var probe struct {
		Kind string `json:"kind"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &probe); err != nil {
		return models.Record{}, err
	}

	switch {
	case probe.Kind != "":
		var rec models.Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			return models.Record{}, err
		}
		return rec, nil
	case probe.Type != "":
		var bw browserWorkout
		if err := json.Unmarshal(msg, &bw); err != nil {
			return models.Record{}, err
		}
		return bw.record(), nil
	default:
		return models.Record{}, fmt.Errorf("entry has neither kind nor type")
	}
}
