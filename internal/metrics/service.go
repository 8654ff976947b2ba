package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_registrations_total",
			Help: "Successful registrations by outcome.",
		}, []string{"outcome"}),
		Cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_cancellations_total",
			Help: "Self-service cancellations.",
		}),
		Promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_waitlist_promotions_total",
			Help: "Waitlist entries promoted onto the roster.",
		}),
		Releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_roster_releases_total",
			Help: "Roster releases by trigger.",
		}, []string{"trigger"}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_weekly_resets_total",
			Help: "Weekly resets by trigger.",
		}, []string{"trigger"}),
		LockTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_lock_transitions_total",
			Help: "Changes of the signup-code requirement by resulting state.",
		}, []string{"state"}),
		PersistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_persistence_failures_total",
			Help: "Best-effort persistence writes that failed.",
		}, []string{"op"}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		SpotsRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_spots_remaining",
			Help: "Remaining skater spots for the current week.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Registrations,
		s.Cancellations,
		s.Promotions,
		s.Releases,
		s.Resets,
		s.LockTransitions,
		s.PersistenceFailures,
		s.NotifSent,
		s.NotifFailed,
		s.SpotsRemaining,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRegistration(outcome string) {
	s.Registrations.WithLabelValues(outcome).Inc()
}

func (s *Service) IncCancellation() {
	s.Cancellations.Inc()
}

func (s *Service) IncPromotion() {
	s.Promotions.Inc()
}

func (s *Service) IncRelease(trigger string) {
	s.Releases.WithLabelValues(trigger).Inc()
}

func (s *Service) IncReset(trigger string) {
	s.Resets.WithLabelValues(trigger).Inc()
}

func (s *Service) IncLockTransition(state string) {
	s.LockTransitions.WithLabelValues(state).Inc()
}

func (s *Service) IncPersistenceFailure(op string) {
	s.PersistenceFailures.WithLabelValues(op).Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetSpotsRemaining(n int) {
	s.SpotsRemaining.Set(float64(n))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
