// Package observability exposes Prometheus metrics for the tracker.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	submittedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "tracker",
		Name:      "workouts_submitted_total",
		Help:      "Workouts accepted and persisted, by kind.",
	}, []string{"kind"})

	rejectedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "tracker",
		Name:      "workouts_rejected_total",
		Help:      "Submissions rejected by input validation.",
	})

	workoutsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "tracker",
		Name:      "workouts",
		Help:      "Workouts currently held in the store.",
	})

	savesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "saves_total",
		Help:      "Blob saves by outcome.",
	}, []string{"outcome"})

	restoredCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "persistence",
		Name:      "records_restored_total",
		Help:      "Persisted records read back at load, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(submittedCounter, rejectedCounter, workoutsGauge, savesCounter, restoredCounter)
}

// RecordSubmitted counts a persisted workout of the given kind.
func RecordSubmitted(kind string) {
	submittedCounter.WithLabelValues(kind).Inc()
}

// RecordRejected counts a submission that failed validation.
func RecordRejected() {
	rejectedCounter.Inc()
}

// SetWorkouts sets the store size gauge.
func SetWorkouts(n int) {
	workoutsGauge.Set(float64(n))
}

// RecordSave counts a save attempt.
func RecordSave(err error) {
	if err != nil {
		savesCounter.WithLabelValues("error").Inc()
		return
	}
	savesCounter.WithLabelValues("ok").Inc()
}

// RecordRestored counts records restored and skipped during a load.
func RecordRestored(restored, skipped int) {
	restoredCounter.WithLabelValues("restored").Add(float64(restored))
	restoredCounter.WithLabelValues("skipped").Add(float64(skipped))
}
