package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics for the dashboard read path
var (
	summaryBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resident_summary_build_duration_seconds",
			Help:    "Time to recompute the full resident summary list",
			Buckets: prometheus.DefBuckets,
		},
	)

	summaryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resident_summary_cache_total",
			Help: "Summary cache lookups by result",
		},
		[]string{"result"},
	)
)
