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

type Server struct {
	Games          game.Catalog
	Apps           application.Ledger
	Profiles       profile.Store
	Courts         court.Catalog
	Admission      *admission.Controller
	Dispatcher     *dispatcher.Dispatcher
	Wizard         *wizard.Manager
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.Client
}
