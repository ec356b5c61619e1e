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
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_games_created_total",
			Help: "The total number of games created.",
		}),
		GamesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_games_cancelled_total",
			Help: "The total number of games cancelled by their creator.",
		}),
		ApplicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_applications_submitted_total",
			Help: "The total number of join applications submitted.",
		}),
		ApplicationsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_applications_accepted_total",
			Help: "The total number of applications accepted by game creators.",
		}),
		ApplicationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_applications_rejected_total",
			Help: "The total number of applications rejected by game creators.",
		}),
		CapacityRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_capacity_rejections_total",
			Help: "The total number of accept attempts refused because the game was full.",
		}),
		DecisionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_decision_duration_seconds",
			Help:    "The duration of individual admission decisions.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesCreated,
		s.GamesCancelled,
		s.ApplicationsSubmitted,
		s.ApplicationsAccepted,
		s.ApplicationsRejected,
		s.CapacityRejections,
		s.DecisionDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesCreated() {
	s.GamesCreated.Inc()
}

func (s *Service) IncGamesCancelled() {
	s.GamesCancelled.Inc()
}

func (s *Service) IncApplicationsSubmitted() {
	s.ApplicationsSubmitted.Inc()
}

func (s *Service) IncApplicationsAccepted() {
	s.ApplicationsAccepted.Inc()
}

func (s *Service) IncApplicationsRejected() {
	s.ApplicationsRejected.Inc()
}

func (s *Service) IncCapacityRejections() {
	s.CapacityRejections.Inc()
}

func (s *Service) ObserveDecisionDuration(seconds float64) {
	s.DecisionDuration.Observe(seconds)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupTimeSeconds.Set(seconds)
}
