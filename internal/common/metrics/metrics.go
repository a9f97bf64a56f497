// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ScorerFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_scorer_fallbacks_total",
			Help: "Scores replaced by a fallback value, by scorer and reason",
		},
		[]string{"scorer", "reason"},
	)

	ScoreDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_score",
			Help:    "Distribution of emitted 0-100 scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"scorer"},
	)

	CohortCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cohort_cache_hits_total",
			Help: "Cohort statistics served from cache",
		},
	)

	CohortCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cohort_cache_misses_total",
			Help: "Cohort statistics lookups that went to the backing store",
		},
	)
)

// ObserveScore records a computed score for the given scorer.
func ObserveScore(scorer string, score int) {
	ScoreDistribution.WithLabelValues(scorer).Observe(float64(score))
}

// RecordFallback counts a fallback score.
func RecordFallback(scorer, reason string) {
	ScorerFallbacks.WithLabelValues(scorer, reason).Inc()
}
