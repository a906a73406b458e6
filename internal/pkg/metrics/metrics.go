package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every fleetview collector and backs the /metrics endpoint.
var Registry = prometheus.NewRegistry()

var (
	// LoginAttempts counts login attempts.
	// result: success/invalid/error, source: remote/local/none.
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetview_login_attempts_total",
			Help: "Total number of dashboard login attempts.",
		},
		[]string{"result", "source"},
	)

	// AuthFallbacks counts remote login failures answered by the built-in accounts.
	AuthFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetview_auth_fallbacks_total",
			Help: "Total number of logins that fell back to built-in accounts after a remote failure.",
		},
	)

	// SessionRestores counts startup/watch restores by outcome: restored/empty/malformed.
	SessionRestores = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetview_session_restores_total",
			Help: "Total number of persisted session restore attempts.",
		},
		[]string{"outcome"},
	)

	// SessionActive is 1 while a session is held, 0 otherwise.
	SessionActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetview_session_active",
			Help: "Whether a dashboard session is currently authenticated (1) or not (0).",
		},
	)

	// FleetMutations counts vehicle changes by operation and result.
	FleetMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetview_fleet_mutations_total",
			Help: "Total number of vehicle create/update/delete operations.",
		},
		[]string{"operation", "result"},
	)

	Vehicles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetview_vehicles",
			Help: "Number of vehicles in the fleet.",
		},
	)

	// NotifyFailures counts fleet events that could not be published.
	NotifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetview_notify_failures_total",
			Help: "Total number of fleet events that failed to publish.",
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetview_http_request_duration_seconds",
			Help:    "Latency of dashboard API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		LoginAttempts,
		AuthFallbacks,
		SessionRestores,
		SessionActive,
		FleetMutations,
		Vehicles,
		NotifyFailures,
		HTTPRequestDuration,
	)
}
