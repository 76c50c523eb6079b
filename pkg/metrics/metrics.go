package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking lifecycle metrics
	BookingsCreated   prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	TransitionsDenied prometheus.Counter

	// Eligibility metrics
	EligibilityGrants  *prometheus.CounterVec
	EligibilityRevokes *prometheus.CounterVec

	// Schedule projection metrics
	ScheduleBuilds       prometheus.Counter
	ScheduleBuildLatency prometheus.Histogram
	ScheduleCacheHits    prometheus.Counter

	// Backend refresh metrics
	RefreshRuns    prometheus.Counter
	RefreshFailed  prometheus.Counter
	RefreshLatency prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transitions_total",
			Help:      "Total number of booking status transitions by target status",
		}, []string{"status"}),
		TransitionsDenied: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_transitions_denied_total",
			Help:      "Total number of transitions refused by the active policy",
		}),
		EligibilityGrants: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "eligibility_grants_total",
			Help:      "Total number of eligibility grants by outcome (created, noop)",
		}, []string{"outcome"}),
		EligibilityRevokes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "eligibility_revokes_total",
			Help:      "Total number of eligibility revokes by outcome (removed, noop)",
		}, []string{"outcome"}),
		ScheduleBuilds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "schedule_builds_total",
			Help:      "Total number of day-view projections built",
		}),
		ScheduleBuildLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "schedule_build_duration_seconds",
			Help:      "Time taken to build a day-view projection",
			Buckets:   prometheus.DefBuckets,
		}),
		ScheduleCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "schedule_cache_hits_total",
			Help:      "Total number of schedule requests served from cache",
		}),
		RefreshRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_runs_total",
			Help:      "Total number of backend refresh cycles",
		}),
		RefreshFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_failed_total",
			Help:      "Total number of failed backend refresh cycles",
		}),
		RefreshLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "refresh_duration_seconds",
			Help:      "Time taken to refresh state from the backend",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
