package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vertragscheck_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vertragscheck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vertragscheck_analyses_total",
			Help: "Total number of contract analyses by outcome.",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vertragscheck_llm_request_duration_seconds",
			Help:    "Latency of upstream model calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	QuotaRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vertragscheck_quota_rejections_total",
			Help: "Requests rejected because the daily quota was exhausted.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AnalysesTotal,
		LLMRequestDuration,
		QuotaRejectionsTotal,
	)
}
