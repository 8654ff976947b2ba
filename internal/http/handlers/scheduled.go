package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
)

// DebugTimeHandler reports the league clock and lock state.
func DebugTimeHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.DebugTime())
	}
}

// ForceCheckHandler runs the periodic tick now, the same work the scheduler
// does on every interval.
func ForceCheckHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Forcing periodic check")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"state":   svc.ForceCheck(r.Context()),
		})
	}
}

// AutoReleaseHandler runs the scheduled release check, for deployments that
// trigger it from an external cron instead of the in-process scheduler.
func AutoReleaseHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		released := svc.CheckAutoRelease(r.Context())
		writeJSON(w, http.StatusOK, map[string]bool{"released": released})
	}
}
