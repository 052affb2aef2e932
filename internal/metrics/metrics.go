// Package metrics defines the Prometheus collectors shared by the fetch,
// extraction and HTTP layers.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch and model request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degree_tracker_fetch_total",
			Help: "Catalog page fetches by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "degree_tracker_fetch_duration_seconds",
			Help:    "Duration of catalog page fetches",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"mode"},
	)

	RequirementsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degree_tracker_requirements_extracted_total",
			Help: "Requirements extracted by method",
		},
		[]string{"method"},
	)

	SourceFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "degree_tracker_source_failures_total",
			Help: "Requirement sources that failed during batch extraction",
		},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degree_tracker_llm_requests_total",
			Help: "Model requests for requirement extraction by outcome",
		},
		[]string{"outcome"},
	)

	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. It is safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			FetchTotal,
			FetchDuration,
			RequirementsExtracted,
			SourceFailures,
			LLMRequests,
			RequestCounter,
			RequestDuration,
		)
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
