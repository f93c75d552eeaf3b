package server

import (
	"fmt"
	"math"
	"strconv"

	"github.com/claude/mapty/internal/models"
)

// entryView is a rendered list entry.
type entryView struct {
	ID        string          `json:"id"`
	Kind      models.Kind     `json:"kind"`
	Title     string          `json:"title"`
	ClassName string          `json:"class_name"`
	Position  models.Position `json:"position"`
	Details   []detailView    `json:"details"`
	Workout   models.Workout  `json:"workout"`
}

type detailView struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// markerView is a map marker with its popup.
type markerView struct {
	ID           string          `json:"id"`
	Position     models.Position `json:"position"`
	Label        string          `json:"label"`
	ClassName    string          `json:"class_name"`
	MaxWidth     int             `json:"max_width"`
	MinWidth     int             `json:"min_width"`
	AutoClose    bool            `json:"auto_close"`
	CloseOnClick bool            `json:"close_on_click"`
}

// positionView is the map view to show after selecting a workout.
type positionView struct {
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

func kindIcon(k models.Kind) string {
	if k == models.KindRunning {
		return "🏃‍♂️"
	}
	return "🚲"
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// oneDecimal formats v like toFixed(1): exact ties round away from zero.
// A float is an exact tie at one decimal only when 4*|v| is an odd integer.
func oneDecimal(v float64) string {
	if t := math.Abs(v) * 4; t == math.Trunc(t) && math.Mod(t, 2) == 1 {
		v = math.Round(v*10) / 10
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func newEntryView(w models.Workout) entryView {
	details := []detailView{
		{Icon: kindIcon(w.Kind), Value: plain(w.DistanceKm), Unit: "km"},
		{Icon: "⏱", Value: plain(w.DurationMin), Unit: "min"},
	}
	metric, unit := w.Metric()
	details = append(details, detailView{Icon: "⚡️", Value: oneDecimal(metric), Unit: unit})

	switch {
	case w.Running != nil:
		details = append(details, detailView{Icon: "🦶🏼", Value: oneDecimal(w.Running.CadenceSpm), Unit: "spm"})
	case w.Cycling != nil:
		details = append(details, detailView{Icon: "⛰", Value: oneDecimal(w.Cycling.ElevationGainM), Unit: "m"})
	}

	return entryView{
		ID:        w.ID,
		Kind:      w.Kind,
		Title:     w.Description,
		ClassName: fmt.Sprintf("workout workout--%s", w.Kind),
		Position:  w.Position,
		Details:   details,
		Workout:   w,
	}
}

func newMarkerView(w models.Workout) markerView {
	return markerView{
		ID:           w.ID,
		Position:     w.Position,
		Label:        fmt.Sprintf("%s %s workout on %s %d", kindIcon(w.Kind), w.Kind.Title(), w.CreatedAt.Month(), w.CreatedAt.Day()),
		ClassName:    fmt.Sprintf("%s-popup", w.Kind),
		MaxWidth:     250,
		MinWidth:     50,
		AutoClose:    false,
		CloseOnClick: false,
	}
}
