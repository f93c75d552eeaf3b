package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Record is the persisted, untyped form of a workout. Variant fields are
// pointers so that a record only carries the fields of its own kind.
type Record struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	Kind        string     `json:"kind"`
	DistanceKm  float64    `json:"distanceKm"`
	DurationMin float64    `json:"durationMin"`
	Position    [2]float64 `json:"position"`
	Description string     `json:"description"`

	CadenceSpm   *float64 `json:"cadenceSpm,omitempty"`
	PaceMinPerKm *float64 `json:"paceMinPerKm,omitempty"`

	ElevationGainM *float64 `json:"elevationGainM,omitempty"`
	SpeedKmPerH    *float64 `json:"speedKmPerH,omitempty"`
}

// ErrMalformedRecord is wrapped by Record.Workout for records that cannot be
// turned back into a workout.
var ErrMalformedRecord = errors.New("malformed workout record")

// ToRecord flattens a workout into its persisted form, derived fields included.
func ToRecord(w Workout) Record {
	r := Record{
		ID:          w.ID,
		CreatedAt:   w.CreatedAt,
		Kind:        string(w.Kind),
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Position:    [2]float64{w.Position.Lat, w.Position.Lng},
		Description: w.Description,
	}
	if w.Running != nil {
		cadence, pace := w.Running.CadenceSpm, w.Running.PaceMinPerKm
		r.CadenceSpm, r.PaceMinPerKm = &cadence, &pace
	}
	if w.Cycling != nil {
		elevation, speed := w.Cycling.ElevationGainM, w.Cycling.SpeedKmPerH
		r.ElevationGainM, r.SpeedKmPerH = &elevation, &speed
	}
	return r
}

// ToRecords flattens workouts in order.
func ToRecords(ws []Workout) []Record {
	out := make([]Record, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToRecord(w))
	}
	return out
}

// Workout rebuilds the typed workout by dispatching on Kind. Derived fields
// and the description are taken as stored; nothing is recomputed.
func (r Record) Workout() (Workout, error) {
	kind, err := ParseKind(r.Kind)
	if err != nil {
		return Workout{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if r.ID == "" {
		return Workout{}, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if !positive(r.DistanceKm) || !positive(r.DurationMin) {
		return Workout{}, fmt.Errorf("%w: record %s has non-positive distance or duration", ErrMalformedRecord, r.ID)
	}

	w := Workout{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Kind:        kind,
		DistanceKm:  r.DistanceKm,
		DurationMin: r.DurationMin,
		Position:    Position{Lat: r.Position[0], Lng: r.Position[1]},
		Description: r.Description,
	}

	switch kind {
	case KindRunning:
		if r.CadenceSpm == nil || r.PaceMinPerKm == nil {
			return Workout{}, fmt.Errorf("%w: running record %s lacks cadence or pace", ErrMalformedRecord, r.ID)
		}
		w.Running = &Running{CadenceSpm: *r.CadenceSpm, PaceMinPerKm: *r.PaceMinPerKm}
	case KindCycling:
		if r.ElevationGainM == nil || r.SpeedKmPerH == nil {
			return Workout{}, fmt.Errorf("%w: cycling record %s lacks elevation or speed", ErrMalformedRecord, r.ID)
		}
		w.Cycling = &Cycling{ElevationGainM: *r.ElevationGainM, SpeedKmPerH: *r.SpeedKmPerH}
	}
	return w, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
