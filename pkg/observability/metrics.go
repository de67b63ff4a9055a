// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the EchoSyntax backend.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// ExecutionBuckets covers a synchronous sandbox run, 50ms to 60s.
var ExecutionBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}

var (
	// RequestsTotal counts all HTTP requests by method, route, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echosyntax_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echosyntax_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// GenerationAttemptsTotal counts single candidate attempts by model and outcome
	// ("ok", "error", "malformed").
	GenerationAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echosyntax_generation_attempts_total",
			Help: "Candidate model attempts",
		},
		[]string{"model", "outcome"},
	)

	// GenerationLatency records the latency of a single candidate attempt.
	GenerationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echosyntax_generation_latency_seconds",
			Help:    "Candidate model latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// GenerationsTotal counts whole generation walks by final error kind
	// ("ok" on success).
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echosyntax_generations_total",
			Help: "Generation requests by outcome",
		},
		[]string{"outcome"},
	)

	// ExecutionsTotal counts execution submissions by runtime and outcome
	// ("ok", "program_error", or an error kind).
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "echosyntax_executions_total",
			Help: "Code executions",
		},
		[]string{"language", "outcome"},
	)

	// ExecutionLatency records the round trip to the execution service.
	ExecutionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "echosyntax_execution_latency_seconds",
			Help:    "Execution service latency",
			Buckets: ExecutionBuckets,
		},
		[]string{"language"},
	)

	// AuthRejectedTotal counts requests rejected by the authentication chain.
	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "echosyntax_auth_rejected_total",
			Help: "Authentication rejections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		GenerationAttemptsTotal,
		GenerationLatency,
		GenerationsTotal,
		ExecutionsTotal,
		ExecutionLatency,
		AuthRejectedTotal,
	)
}
