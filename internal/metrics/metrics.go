// Package metrics holds the Prometheus collectors exported on
// /api/metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	RecipeWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Recipe create, update and delete operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	RelationToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Favorite, shopping cart and subscription changes by outcome",
		},
		[]string{"relation", "action", "outcome"},
	)

	ImageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_operations_total",
			Help: "Image store writes and deletes by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of aggregated lines per downloaded shopping list",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// Outcome classifies err for the outcome label. Errors the caller could
// fix are reported as rejected.
func Outcome(err error, rejected func(error) bool) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case rejected != nil && rejected(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func RecordRecipeWrite(operation, outcome string) {
	RecipeWrites.WithLabelValues(operation, outcome).Inc()
}

func RecordRelationToggle(relation, action, outcome string) {
	RelationToggles.WithLabelValues(relation, action, outcome).Inc()
}

func RecordImageOperation(operation string, err error) {
	ImageOperations.WithLabelValues(operation, Outcome(err, nil)).Inc()
}
