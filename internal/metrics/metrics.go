// Package metrics provides Prometheus instrumentation for the Trinity
// backend: queue depth, matching outcomes, and trio formation latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueueSize tracks the current number of active matching queue entries.
	QueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trinity_match_queue_size",
		Help: "Current number of active matching queue entries",
	})

	// MatchOutcomes counts matching requests by outcome:
	// "matched", "partial", "queued", or "degraded".
	MatchOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trinity_match_outcomes_total",
		Help: "Total matching requests by outcome",
	}, []string{"outcome"})

	// TriosFormed counts successfully committed trios.
	TriosFormed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trinity_trios_formed_total",
		Help: "Total number of trios formed",
	})

	// FormationDuration records the duration of the trio formation transaction.
	FormationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "trinity_trio_formation_seconds",
		Help:    "Duration of the trio formation transaction",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)

func init() {
	prometheus.MustRegister(
		QueueSize,
		MatchOutcomes,
		TriosFormed,
		FormationDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
