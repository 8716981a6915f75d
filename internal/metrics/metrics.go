// Package metrics provides Prometheus metrics for the recipe service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback outcomes
const (
	FallbackOK       = "ok"
	FallbackTimeout  = "timeout"
	FallbackError    = "error"
	FallbackDisabled = "disabled"
)

var (
	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipes",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipes",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FallbackTotal counts AI fallback attempts by outcome.
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "recipes",
			Name:      "search_fallback_total",
			Help:      "Total number of AI fallback attempts during search",
		},
		[]string{"outcome"},
	)

	// RecommendationSize observes how many recipes a recommendation returned.
	RecommendationSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "recipes",
			Name:      "recommendation_size",
			Help:      "Number of recipes returned per recommendation",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
		},
		[]string{"category", "meal"},
	)

	// RecipesLoaded reports the size of the recipe store.
	RecipesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "recipes",
			Name:      "store_recipes",
			Help:      "Number of recipes loaded at startup",
		},
	)
)

// RecordRequest records a finished HTTP request.
func RecordRequest(method, route, status string, seconds float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordFallback records the outcome of an AI fallback attempt.
func RecordFallback(outcome string) {
	FallbackTotal.WithLabelValues(outcome).Inc()
}

// RecordRecommendation records the size of a recommendation.
func RecordRecommendation(category, meal string, size int) {
	RecommendationSize.WithLabelValues(category, meal).Observe(float64(size))
}
