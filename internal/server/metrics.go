package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Server-level job metrics, exposed on /metrics.
var (
	jobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anneal",
		Subsystem: "server",
		Name:      "jobs_started_total",
		Help:      "Number of annealing jobs started.",
	})

	jobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anneal",
		Subsystem: "server",
		Name:      "jobs_completed_total",
		Help:      "Number of annealing jobs that completed successfully.",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anneal",
		Subsystem: "server",
		Name:      "jobs_failed_total",
		Help:      "Number of annealing jobs that failed.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "anneal",
		Subsystem: "server",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of completed annealing runs.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)
