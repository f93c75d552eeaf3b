package workouts

import (
	"time"

	"github.com/claude/mapty/internal/models"
)

// Stats holds aggregate statistics over a list of workouts.
type Stats struct {
	TotalWorkouts int         `json:"total_workouts"`
	Earliest      *time.Time  `json:"earliest,omitempty"`
	Latest        *time.Time  `json:"latest,omitempty"`
	ByKind        []KindStats `json:"by_kind"`
}

// KindStats holds summary stats for a single workout kind. AvgMetric is the
// pace (running) or speed (cycling) over the summed distance and duration.
type KindStats struct {
	Kind             models.Kind `json:"kind"`
	Count            int         `json:"count"`
	TotalDistanceKm  float64     `json:"total_distance_km"`
	TotalDurationMin float64     `json:"total_duration_min"`
	AvgMetric        float64     `json:"avg_metric"`
	MetricUnit       string      `json:"metric_unit"`
}

// Summarize computes Stats for ws. Kinds appear in a fixed order and only
// when at least one workout of that kind exists.
func Summarize(ws []models.Workout) Stats {
	stats := Stats{TotalWorkouts: len(ws), ByKind: []KindStats{}}
	byKind := map[models.Kind]*KindStats{}

	for i := range ws {
		w := &ws[i]
		if stats.Earliest == nil || w.CreatedAt.Before(*stats.Earliest) {
			stats.Earliest = &w.CreatedAt
		}
		if stats.Latest == nil || w.CreatedAt.After(*stats.Latest) {
			stats.Latest = &w.CreatedAt
		}

		ks, ok := byKind[w.Kind]
		if !ok {
			ks = &KindStats{Kind: w.Kind}
			byKind[w.Kind] = ks
		}
		ks.Count++
		ks.TotalDistanceKm += w.DistanceKm
		ks.TotalDurationMin += w.DurationMin
	}

	for _, k := range []models.Kind{models.KindRunning, models.KindCycling} {
		ks, ok := byKind[k]
		if !ok {
			continue
		}
		switch k {
		case models.KindRunning:
			ks.AvgMetric, ks.MetricUnit = models.Pace(ks.TotalDistanceKm, ks.TotalDurationMin), "min/km"
		case models.KindCycling:
			ks.AvgMetric, ks.MetricUnit = models.Speed(ks.TotalDistanceKm, ks.TotalDurationMin), "km/h"
		}
		stats.ByKind = append(stats.ByKind, *ks)
	}
	return stats
}
