// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MatchQueries counts matching queries by strategy
	// (recommend, description_search).
	MatchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_match_queries_total",
		Help: "Number of matching queries served, by scoring strategy.",
	}, []string{"strategy"})

	// ScoringDuration tracks end-to-end matching query latency by strategy.
	ScoringDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "najdeno_scoring_duration_seconds",
		Help:    "Latency of matching queries, by scoring strategy.",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})

	// MatchTransitions counts match lifecycle writes by outcome
	// (created, confirmed, rejected).
	MatchTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_match_transitions_total",
		Help: "Number of match lifecycle transitions, by outcome.",
	}, []string{"outcome"})

	// VisionRequests counts calls to the image description provider.
	VisionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "najdeno_vision_requests_total",
		Help: "Number of image description provider calls, by result.",
	}, []string{"result"})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
