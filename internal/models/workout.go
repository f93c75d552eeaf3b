package models

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind returns the Kind for s, or an error for anything but running/cycling.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindRunning, KindCycling:
		return k, nil
	default:
		return "", fmt.Errorf("unknown workout kind %q", s)
	}
}

// Title returns the kind with its first letter upper-cased ("Running").
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Position is a latitude/longitude pair in degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Running holds the running-only fields of a workout.
type Running struct {
	CadenceSpm   float64 `json:"cadence_spm"`
	PaceMinPerKm float64 `json:"pace_min_per_km"`
}

// Cycling holds the cycling-only fields of a workout.
type Cycling struct {
	ElevationGainM float64 `json:"elevation_gain_m"`
	SpeedKmPerH    float64 `json:"speed_km_per_h"`
}

// Workout is a single recorded exercise session. Exactly one of Running or
// Cycling is set, matching Kind. Values are never mutated after construction.
type Workout struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Kind        Kind      `json:"kind"`
	DistanceKm  float64   `json:"distance_km"`
	DurationMin float64   `json:"duration_min"`
	Position    Position  `json:"position"`
	Description string    `json:"description"`
	Running     *Running  `json:"running,omitempty"`
	Cycling     *Cycling  `json:"cycling,omitempty"`
}

// NewRunning builds a running workout. Arguments are not validated; a zero
// distance yields an infinite pace.
func NewRunning(id string, createdAt time.Time, distanceKm, durationMin, cadenceSpm float64, pos Position) Workout {
	w := newWorkout(id, createdAt, KindRunning, distanceKm, durationMin, pos)
	w.Running = &Running{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: Pace(distanceKm, durationMin),
	}
	return w
}

// NewCycling builds a cycling workout. Arguments are not validated.
func NewCycling(id string, createdAt time.Time, distanceKm, durationMin, elevationGainM float64, pos Position) Workout {
	w := newWorkout(id, createdAt, KindCycling, distanceKm, durationMin, pos)
	w.Cycling = &Cycling{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    Speed(distanceKm, durationMin),
	}
	return w
}

func newWorkout(id string, createdAt time.Time, kind Kind, distanceKm, durationMin float64, pos Position) Workout {
	return Workout{
		ID:          id,
		CreatedAt:   createdAt,
		Kind:        kind,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Position:    pos,
		Description: Describe(kind, createdAt),
	}
}

// Pace returns minutes per kilometre.
func Pace(distanceKm, durationMin float64) float64 {
	return durationMin / distanceKm
}

// Speed returns kilometres per hour.
func Speed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

// Describe renders "Running on May 6" using the month and day of t in its own location.
func Describe(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), t.Month(), t.Day())
}

// Metric returns the derived metric value and its unit for the workout's kind.
func (w Workout) Metric() (float64, string) {
	switch w.Kind {
	case KindRunning:
		if w.Running != nil {
			return w.Running.PaceMinPerKm, "min/km"
		}
	case KindCycling:
		if w.Cycling != nil {
			return w.Cycling.SpeedKmPerH, "km/h"
		}
	}
	return 0, ""
}
