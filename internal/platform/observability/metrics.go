package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summarizer_jobs_total",
		Help: "The total number of processed summary jobs by outcome",
	}, []string{"outcome"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "summarizer_backend_request_duration_seconds",
		Help:    "Duration of generation-backend calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	BatchItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summarizer_batch_items_total",
		Help: "The total number of batch items by final status",
	}, []string{"status"})

	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summarizer_quota_rejections_total",
		Help: "The total number of requests rejected by the daily user ceiling",
	})
)
