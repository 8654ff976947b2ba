package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/session"
)

// Admin credential headers. The CSV export also accepts a sessionToken query
// parameter so it can be opened as a plain link.
const (
	SessionHeader  = "X-Session-Token"
	PasswordHeader = "X-Admin-Password"
)

// PasswordMatches compares a supplied admin password in constant time.
func PasswordMatches(supplied, password string) bool {
	return supplied != "" && subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) == 1
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"sessionToken,omitempty"`
}

func LoginHandler(sessions *session.Store, password string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decode(r.Context(), r, &req, "Password is required"); err != nil || !PasswordMatches(req.Password, password) {
			log.Warn("Admin login failed", "remote", r.RemoteAddr)
			writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false})
			return
		}
		log.Info("Admin logged in", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusOK, loginResponse{Success: true, SessionToken: sessions.Create()})
	}
}

type checkSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

func CheckSessionHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkSessionRequest
		if err := decode(r.Context(), r, &req, "Invalid request"); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"loggedIn": sessions.Valid(req.SessionToken)})
	}
}

func LogoutHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Revoke(r.Header.Get(SessionHeader))
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func AdminPlayersHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.AdminView())
	}
}

func SettingsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Settings(r.Context()))
	}
}

type detailsRequest struct {
	Location string `json:"location"`
	Time     string `json:"time"`
	Date     string `json:"date"`
}

type detailsResponse struct {
	Success bool               `json:"success"`
	Details league.GameDetails `json:"details"`
}

func UpdateDetailsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req detailsRequest
		if err := decode(r.Context(), r, &req, "Invalid request"); err != nil {
			writeError(w, err)
			return
		}
		details, err := svc.UpdateDetails(r.Context(), req.Location, req.Time, req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, detailsResponse{Success: true, Details: details})
	}
}

type codeRequest struct {
	NewCode string `json:"newCode" validate:"required,len=4,number"`
}

func UpdateCodeHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeRequest
		if err := decode(r.Context(), r, &req, "Code must be exactly 4 digits"); err != nil {
			writeError(w, err)
			return
		}
		if err := svc.UpdateSignupCode(r.Context(), req.NewCode); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "code": req.NewCode})
	}
}

type lockResponse struct {
	Success bool `json:"success"`
	league.LockState
}

func ToggleCodeHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, lockResponse{Success: true, LockState: svc.ToggleCode(r.Context())})
	}
}

func ResetScheduleHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, lockResponse{Success: true, LockState: svc.ResetSchedule(r.Context())})
	}
}

type addPlayerRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	PaymentMethod string `json:"paymentMethod"`
	Rating        int    `json:"rating" validate:"required"`
	IsGoalie      bool   `json:"isGoalie"`
	ToWaitlist    bool   `json:"toWaitlist"`
}

type addPlayerResponse struct {
	Success    bool `json:"success"`
	Player     any  `json:"player"`
	InWaitlist bool `json:"inWaitlist"`
}

func AddPlayerHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayerRequest
		if err := decode(r.Context(), r, &req, "First name, last name, phone, and rating required"); err != nil {
			writeError(w, err)
			return
		}
		if !ledger.ValidPhone(req.Phone) {
			writeError(w, ledger.Validationf("Invalid phone number format"))
			return
		}
		reg, err := svc.Admit(r.Context(), ledger.Candidate{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Phone:         req.Phone,
			PaymentMethod: req.PaymentMethod,
			Rating:        req.Rating,
			IsGoalie:      req.IsGoalie,
			RulesAgreed:   true,
		}, req.ToWaitlist)
		if err != nil {
			writeError(w, err)
			return
		}
		if reg.Entry != nil {
			writeJSON(w, http.StatusOK, addPlayerResponse{Success: true, Player: reg.Entry, InWaitlist: true})
			return
		}
		writeJSON(w, http.StatusOK, addPlayerResponse{Success: true, Player: reg.Player})
	}
}

type playerIDRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
}

type spotsResponse struct {
	Success bool           `json:"success"`
	Player  *ledger.Player `json:"player,omitempty"`
	Spots   int            `json:"spots"`
}

func RemovePlayerHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerIDRequest
		if err := decode(r.Context(), r, &req, "Invalid player ID"); err != nil {
			writeError(w, err)
			return
		}
		p, err := svc.RemovePlayer(r.Context(), req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, spotsResponse{Success: true, Player: &p, Spots: svc.Spots()})
	}
}

type waitlistIDRequest struct {
	WaitlistID string `json:"waitlistId" validate:"required"`
}

func PromoteWaitlistHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req waitlistIDRequest
		if err := decode(r.Context(), r, &req, "Player not found in waitlist"); err != nil {
			writeError(w, err)
			return
		}
		p, err := svc.Promote(r.Context(), req.WaitlistID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, spotsResponse{Success: true, Player: &p, Spots: svc.Spots()})
	}
}

func RemoveWaitlistHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req waitlistIDRequest
		if err := decode(r.Context(), r, &req, "Player not found in waitlist"); err != nil {
			writeError(w, err)
			return
		}
		if _, err := svc.RemoveWaitlistEntry(r.Context(), req.WaitlistID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

type spotsRequest struct {
	NewSpots *int `json:"newSpots" validate:"required,min=0,max=30"`
}

func UpdateSpotsHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req spotsRequest
		if err := decode(r.Context(), r, &req, "Invalid spot count (0-30 allowed)"); err != nil {
			writeError(w, err)
			return
		}
		if err := svc.SetSpots(r.Context(), *req.NewSpots); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, spotsResponse{Success: true, Spots: svc.Spots()})
	}
}

type paidAmountRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	// Amount is a number, a numeric string, or empty/null to mark unpaid.
	Amount any `json:"amount"`
}

type paidAmountResponse struct {
	Success   bool          `json:"success"`
	Player    ledger.Player `json:"player"`
	TotalPaid string        `json:"totalPaid"`
}

func parseAmount(v any) (*float64, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &a, nil
	case string:
		a = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(a), "$"))
		if a == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, ledger.Validationf("Invalid amount")
		}
		return &f, nil
	}
	return nil, ledger.Validationf("Invalid amount")
}

func UpdatePaidAmountHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paidAmountRequest
		if err := decode(r.Context(), r, &req, "Player not found"); err != nil {
			writeError(w, err)
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			writeError(w, err)
			return
		}
		p, err := svc.SetPaidAmount(r.Context(), req.PlayerID, amount)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paidAmountResponse{Success: true, Player: p, TotalPaid: svc.AdminView().TotalPaid})
	}
}

type ratingRequest struct {
	PlayerID  string `json:"playerId" validate:"required"`
	NewRating int    `json:"newRating" validate:"required,min=1,max=10"`
}

type ratingResponse struct {
	Success   bool `json:"success"`
	OldRating int  `json:"oldRating"`
	NewRating int  `json:"newRating"`
}

func UpdateRatingHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ratingRequest
		if err := decode(r.Context(), r, &req, "Rating must be a number between 1 and 10"); err != nil {
			writeError(w, err)
			return
		}
		oldRating, newRating, err := svc.SetRating(r.Context(), req.PlayerID, req.NewRating)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ratingResponse{Success: true, OldRating: oldRating, NewRating: newRating})
	}
}

type releaseResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	WhiteTeam      []ledger.Player `json:"whiteTeam"`
	DarkTeam       []ledger.Player `json:"darkTeam"`
	WhiteRating    string          `json:"whiteRating"`
	DarkRating     string          `json:"darkRating"`
	SignupLocked   bool            `json:"signupLocked"`
	RosterReleased bool            `json:"rosterReleased"`
}

func ReleaseRosterHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Release(r.Context(), IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, releaseResponse{
			Success:        true,
			Message:        "Roster released successfully. Signup is now locked.",
			WhiteTeam:      res.White,
			DarkTeam:       res.Dark,
			WhiteRating:    strconv.FormatFloat(res.WhiteAvg, 'f', 1, 64),
			DarkRating:     strconv.FormatFloat(res.DarkAvg, 'f', 1, 64),
			SignupLocked:   true,
			RosterReleased: true,
		})
	}
}

type resetResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	AutoAdded int    `json:"autoAdded"`
	Archived  bool   `json:"archived"`
}

func ManualResetHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev := svc.Reset(r.Context(), IsDryRunFromContext(r))
		writeJSON(w, http.StatusOK, resetResponse{
			Success:   true,
			Message:   "Manual reset completed",
			Code:      svc.AdminView().SignupCode,
			AutoAdded: ev.AutoAdded,
			Archived:  ev.Archived,
		})
	}
}

func DeleteHistoryHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, week, err := weekFromPath(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := svc.DeleteHistoryWeek(r.Context(), year, week); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "Week deleted from history"})
	}
}

// CounterTotals returns lifetime event counts.
type CounterTotals interface {
	Totals(ctx context.Context) (map[string]int, error)
}

func CountersHandler(totals CounterTotals) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if totals == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Counters are not available"})
			return
		}
		counts, err := totals.Totals(r.Context())
		if err != nil {
			log.Error("Failed to read counters", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read counters"})
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}
