package models

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidInput is returned for form input that must not reach the entity constructors.
var ErrInvalidInput = errors.New("invalid workout input")

// InvalidInputMessage is the notification shown to the user for ErrInvalidInput.
const InvalidInputMessage = "Inputs have to be positive numbers!"

// Input is a raw new-workout request as captured from a form.
// Cadence applies to running, ElevationGain to cycling.
type Input struct {
	Kind          Kind
	DistanceKm    float64
	DurationMin   float64
	CadenceSpm    float64
	ElevationGain float64
	Position      Position
}

// Validate applies the form rules: every field must be finite, and distance,
// duration and cadence must be positive. Cycling elevation only has to be
// finite, so a descent-only ride with negative gain is accepted.
func (in Input) Validate() error {
	switch in.Kind {
	case KindRunning:
		if !allFinite(in.DistanceKm, in.DurationMin, in.CadenceSpm) ||
			!allPositive(in.DistanceKm, in.DurationMin, in.CadenceSpm) {
			return ErrInvalidInput
		}
	case KindCycling:
		if !allFinite(in.DistanceKm, in.DurationMin, in.ElevationGain) ||
			!allPositive(in.DistanceKm, in.DurationMin) {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	if !allFinite(in.Position.Lat, in.Position.Lng) {
		return ErrInvalidInput
	}
	return nil
}

// Build constructs the workout for the input's kind. Call Validate first.
func (in Input) Build(id string, createdAt time.Time) Workout {
	if in.Kind == KindCycling {
		return NewCycling(id, createdAt, in.DistanceKm, in.DurationMin, in.ElevationGain, in.Position)
	}
	return NewRunning(id, createdAt, in.DistanceKm, in.DurationMin, in.CadenceSpm, in.Position)
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func allPositive(vs ...float64) bool {
	for _, v := range vs {
		if v <= 0 {
			return false
		}
	}
	return true
}
