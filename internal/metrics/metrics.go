package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring service health and performance
var (
	DonationTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donation_transitions_total",
			Help: "Total number of donation status transitions applied",
		},
		[]string{"status"},
	)

	DonationTransitionsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "donation_transitions_rejected_total",
			Help: "Total number of donation transition requests rejected",
		},
	)

	NotificationsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_emitted_total",
			Help: "Total number of notification deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	SweepRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_runs_total",
			Help: "Total number of completed expiry sweep runs",
		},
	)

	SweepSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_skipped_total",
			Help: "Total number of sweep triggers skipped because a run was in flight",
		},
	)

	SweepHolderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_holder_errors_total",
			Help: "Total number of holders that failed during a sweep run",
		},
	)

	SweepExpiringItemsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_expiring_items_total",
			Help: "Total number of expiring cabinet entries flagged by sweeps",
		},
	)

	SweepInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sweep_in_progress",
			Help: "Whether an expiry sweep is currently executing",
		},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_duration_seconds",
			Help:    "Duration of expiry sweep runs",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(DonationTransitionsTotal)
	prometheus.MustRegister(DonationTransitionsRejectedTotal)
	prometheus.MustRegister(NotificationsEmittedTotal)
	prometheus.MustRegister(SweepRunsTotal)
	prometheus.MustRegister(SweepSkippedTotal)
	prometheus.MustRegister(SweepHolderErrorsTotal)
	prometheus.MustRegister(SweepExpiringItemsTotal)
	prometheus.MustRegister(SweepInProgress)
	prometheus.MustRegister(SweepDuration)
}
