// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "team_registrations_total",
			Help: "Total number of team registration attempts",
		},
		[]string{"result"},
	)

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Total number of evaluation submissions",
		},
		[]string{"result"},
	)

	EvaluationTotalHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluation_total",
			Help:    "Distribution of normalized evaluation totals",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ArtifactUploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "artifact_upload_batch_duration_seconds",
			Help:    "Artifact upload batch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
