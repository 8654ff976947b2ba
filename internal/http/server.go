package http

import (
	"net/http"

	"github.com/okosoff-test/hockeytest/internal/config"
	"github.com/okosoff-test/hockeytest/internal/http/handlers"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/session"
)

// NewServer wires the league API. counters may be nil when lifetime totals
// are not persisted.
func NewServer(svc *league.Service, sessions *session.Store, metricsHandler http.Handler, counters handlers.CounterTotals, cfg config.Config) *Server {
	server := &Server{
		League:         svc,
		Sessions:       sessions,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	admin := adminMiddleware(s.Sessions, s.Cfg.AdminPassword)
	public := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware))
	}
	private := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware, admin))
	}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	public("GET /health", handlers.HealthCheckHandler())

	public("GET /api/status", handlers.StatusHandler(s.League))
	public("GET /api/waitlist", handlers.WaitlistHandler(s.League))
	public("GET /api/roster", handlers.RosterHandler(s.League))
	public("GET /api/history", handlers.ListHistoryHandler(s.League))
	public("GET /api/history/{year}/{week}", handlers.HistoryWeekHandler(s.League))
	public("GET /api/debug-time", handlers.DebugTimeHandler(s.League))
	public("GET /api/force-check", handlers.ForceCheckHandler(s.League))
	public("POST /api/verify-code", handlers.VerifyCodeHandler(s.League))
	public("POST /api/register-init", handlers.RegisterInitHandler(s.League))
	public("POST /api/register-final", handlers.RegisterFinalHandler(s.League))
	public("POST /api/cancel-registration", handlers.CancelHandler(s.League))

	public("POST /api/admin/login", handlers.LoginHandler(s.Sessions, s.Cfg.AdminPassword))
	public("POST /api/admin/check-session", handlers.CheckSessionHandler(s.Sessions))
	private("POST /api/admin/logout", handlers.LogoutHandler(s.Sessions))
	private("GET /api/admin/players", handlers.AdminPlayersHandler(s.League))
	private("GET /api/admin/settings", handlers.SettingsHandler(s.League))
	private("POST /api/admin/update-details", handlers.UpdateDetailsHandler(s.League))
	private("POST /api/admin/update-code", handlers.UpdateCodeHandler(s.League))
	private("POST /api/admin/toggle-code", handlers.ToggleCodeHandler(s.League))
	private("POST /api/admin/reset-schedule", handlers.ResetScheduleHandler(s.League))
	private("POST /api/admin/add-player", handlers.AddPlayerHandler(s.League))
	private("POST /api/admin/remove-player", handlers.RemovePlayerHandler(s.League))
	private("POST /api/admin/promote-waitlist", handlers.PromoteWaitlistHandler(s.League))
	private("POST /api/admin/remove-waitlist", handlers.RemoveWaitlistHandler(s.League))
	private("POST /api/admin/update-spots", handlers.UpdateSpotsHandler(s.League))
	private("POST /api/admin/update-paid-amount", handlers.UpdatePaidAmountHandler(s.League))
	private("POST /api/admin/update-rating", handlers.UpdateRatingHandler(s.League))
	private("POST /api/admin/release-roster", handlers.ReleaseRosterHandler(s.League))
	private("POST /api/admin/manual-reset", handlers.ManualResetHandler(s.League))
	private("POST /api/admin/auto-release", handlers.AutoReleaseHandler(s.League))
	private("DELETE /api/admin/history/{year}/{week}", handlers.DeleteHistoryHandler(s.League))
	private("GET /api/admin/counters", handlers.CountersHandler(s.Counters))
	s.Router.Handle("GET /api/admin/export-payments", Chain(
		handlers.ExportPaymentsHandler(s.League, s.Cfg.Location()),
		paramsMiddleware, sessionOnlyMiddleware(s.Sessions),
	))

	s.Router.Handle("POST /slack/command/hockey", Chain(
		handlers.HockeyCommandHandler(s.League),
		paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret),
	))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
