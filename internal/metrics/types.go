package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Registrations       *prometheus.CounterVec
	Cancellations       prometheus.Counter
	Promotions          prometheus.Counter
	Releases            *prometheus.CounterVec
	Resets              *prometheus.CounterVec
	LockTransitions     *prometheus.CounterVec
	PersistenceFailures *prometheus.CounterVec
	NotifSent           prometheus.Counter
	NotifFailed         prometheus.Counter
	SpotsRemaining      prometheus.Gauge
	StartupTimeSeconds  prometheus.Gauge
}
