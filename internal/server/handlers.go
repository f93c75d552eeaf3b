package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mapty/internal/models"
	"github.com/claude/mapty/internal/tracker"
	"github.com/claude/mapty/internal/workouts"
	"github.com/go-chi/chi/v5"
)

// submitRequest is the new-workout form. Cadence applies to running,
// elevation gain to cycling.
type submitRequest struct {
	Kind           string  `json:"kind"`
	DistanceKm     float64 `json:"distance_km"`
	DurationMin    float64 `json:"duration_min"`
	CadenceSpm     float64 `json:"cadence_spm"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}

func (req submitRequest) input() (models.Input, error) {
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return models.Input{}, err
	}
	return models.Input{
		Kind:          kind,
		DistanceKm:    req.DistanceKm,
		DurationMin:   req.DurationMin,
		CadenceSpm:    req.CadenceSpm,
		ElevationGain: req.ElevationGainM,
		Position:      models.Position{Lat: req.Lat, Lng: req.Lng},
	}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSubmitWorkout(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	in, err := req.input()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	workout, err := s.tracker.Submit(r.Context(), in)
	if errors.Is(err, models.ErrInvalidInput) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": models.InvalidInputMessage})
		return
	}
	if err != nil {
		s.log.Error("submit workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"entry":  newEntryView(workout),
		"marker": newMarkerView(workout),
	})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	var filter models.Kind
	if k := r.URL.Query().Get("kind"); k != "" {
		kind, err := models.ParseKind(k)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filter = kind
	}
	ascending := r.URL.Query().Get("order") == "asc"

	all := s.tracker.List()
	entries := make([]entryView, 0, len(all))
	for i := range all {
		// Newest first unless asked otherwise, matching the list as rendered.
		wk := all[len(all)-1-i]
		if ascending {
			wk = all[i]
		}
		if filter != "" && wk.Kind != filter {
			continue
		}
		entries = append(entries, newEntryView(wk))
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleListMarkers(w http.ResponseWriter, r *http.Request) {
	all := s.tracker.List()
	markers := make([]markerView, 0, len(all))
	for _, wk := range all {
		markers = append(markers, newMarkerView(wk))
	}
	writeJSON(w, http.StatusOK, markers)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, err := s.tracker.Get(chi.URLParam(r, "id"))
	if errors.Is(err, tracker.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newEntryView(workout))
}

func (s *Server) handleSelectWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pos, err := s.tracker.Select(id)
	if errors.Is(err, tracker.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, positionView{ID: id, Lat: pos.Lat, Lng: pos.Lng, Zoom: s.zoom})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workouts.Summarize(s.tracker.List()))
}

func (s *Server) handleResetWorkouts(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Reset(r.Context()); err != nil {
		s.log.Error("reset workouts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
