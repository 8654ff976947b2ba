package http

import (
	"net/http"

	"github.com/okosoff-test/hockeytest/internal/config"
	"github.com/okosoff-test/hockeytest/internal/http/handlers"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/session"
)

type Server struct {
	League         *league.Service
	Sessions       *session.Store
	MetricsHandler http.Handler
	Counters       handlers.CounterTotals
	Cfg            config.Config
	Router         *http.ServeMux
}
