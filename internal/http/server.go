package http

import (
	"net/http"

	"github.com/mkrogh/courtside/internal/admission"
	"github.com/mkrogh/courtside/internal/application"
	"github.com/mkrogh/courtside/internal/config"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/dispatcher"
	"github.com/mkrogh/courtside/internal/game"
	"github.com/mkrogh/courtside/internal/metrics"
	"github.com/mkrogh/courtside/internal/profile"
	"github.com/mkrogh/courtside/internal/pubsub"
	"github.com/mkrogh/courtside/internal/wizard"
)

func NewServer(
	games game.Catalog,
	apps application.Ledger,
	profiles profile.Store,
	courts court.Catalog,
	controller *admission.Controller,
	disp *dispatcher.Dispatcher,
	wiz *wizard.Manager,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	ps pubsub.Client,
) *Server {
	server := &Server{
		Games:          games,
		Apps:           apps,
		Profiles:       profiles,
		Courts:         courts,
		Admission:      controller,
		Dispatcher:     disp,
		Wizard:         wiz,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         ps,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /games", Chain(s.CreateGameHandler(), paramsMiddleware))
	s.Router.Handle("GET /games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}", Chain(s.GetGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/cancel", Chain(s.CancelGameHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/applications", Chain(s.SubmitApplicationHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}/applications", Chain(s.ListApplicationsHandler(), paramsMiddleware))
	s.Router.Handle("POST /applications/{id}/decide", Chain(s.DecideApplicationHandler(), paramsMiddleware))

	s.Router.Handle("POST /wizard/start", Chain(s.WizardStartHandler(), paramsMiddleware))
	s.Router.Handle("POST /wizard/message", Chain(s.WizardMessageHandler(), paramsMiddleware))
	s.Router.Handle("POST /wizard/cancel", Chain(s.WizardCancelHandler(), paramsMiddleware))

	s.Router.Handle("GET /courts", Chain(s.ListCourtsHandler(), paramsMiddleware))
	s.Router.Handle("POST /courts", Chain(s.AddCourtHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.UpsertPlayerHandler(), paramsMiddleware))
	s.Router.Handle("POST /players/{id}/home-court", Chain(s.SetHomeCourtHandler(), paramsMiddleware))

	// Pub/Sub push subscriptions deliver committed events back here.
	s.Router.Handle("POST /events/application-submitted", Chain(s.ApplicationSubmittedEventHandler(), paramsMiddleware))
	s.Router.Handle("POST /events/application-decided", Chain(s.ApplicationDecidedEventHandler(), paramsMiddleware))
	s.Router.Handle("POST /events/game-cancelled", Chain(s.GameCancelledEventHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
