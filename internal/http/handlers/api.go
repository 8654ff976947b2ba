package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

func StatusHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status(r.Context()))
	}
}

func WaitlistHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.WaitlistView())
	}
}

func RosterHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.RosterView())
	}
}

func ListHistoryHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weeks, err := svc.History(r.Context())
		if err != nil {
			log.Error("Failed to list history", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load history"})
			return
		}
		if weeks == nil {
			weeks = []league.HistorySummary{}
		}
		writeJSON(w, http.StatusOK, weeks)
	}
}

func HistoryWeekHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, week, err := weekFromPath(r)
		if err != nil {
			writeError(w, err)
			return
		}
		rec, err := svc.HistoryWeek(r.Context(), year, week)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, league.PublicHistory(rec))
	}
}

// weekFromPath reads the {year} and {week} path values.
func weekFromPath(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return 0, 0, ledger.Validationf("Invalid year")
	}
	week, err := strconv.Atoi(r.PathValue("week"))
	if err != nil || week < 1 || week > 53 {
		return 0, 0, ledger.Validationf("Invalid week")
	}
	return year, week, nil
}
