package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "symptom_predictions_total",
			Help: "Total number of symptom predictions by predicted disease",
		},
		[]string{"disease"},
	)

	enrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of background enrichment attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics records request counts and latencies per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Use the route template so UUIDs don't explode cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

// RecordPrediction counts a classification by the predicted disease.
// The disease set is small and fixed, so cardinality stays bounded.
func RecordPrediction(disease string) {
	predictionsTotal.WithLabelValues(disease).Inc()
}

// RecordEnrichment counts a background enrichment attempt outcome
// ("success", "error", or "skipped").
func RecordEnrichment(outcome string) {
	enrichmentOutcomes.WithLabelValues(outcome).Inc()
}
