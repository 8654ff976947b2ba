package handlers

import (
	"net/http"

	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type verifyCodeResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func VerifyCodeHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyCodeRequest
		if err := decode(r.Context(), r, &req, "Invalid request"); err != nil {
			writeError(w, err)
			return
		}
		valid, required := svc.VerifyCode(r.Context(), req.Code)
		switch {
		case !required:
			writeJSON(w, http.StatusOK, verifyCodeResponse{Valid: true, Message: "Signup is open to all"})
		case valid:
			writeJSON(w, http.StatusOK, verifyCodeResponse{Valid: true})
		default:
			writeJSON(w, http.StatusUnauthorized, verifyCodeResponse{Valid: false, Error: "Invalid code"})
		}
	}
}

type registerInitRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	Rating        int    `json:"rating" validate:"required"`
	SignupCode    string `json:"signupCode"`
}

type registerResponse struct {
	Success           bool              `json:"success"`
	InWaitlist        bool              `json:"inWaitlist"`
	WaitlistPosition  int               `json:"waitlistPosition,omitempty"`
	ProceedToRules    bool              `json:"proceedToRules,omitempty"`
	IsGoalie          bool              `json:"isGoalie"`
	TempData          *ledger.Candidate `json:"tempData,omitempty"`
	Message           string            `json:"message,omitempty"`
	PaymentDeadline   string            `json:"paymentDeadline,omitempty"`
	RosterReleaseTime string            `json:"rosterReleaseTime,omitempty"`
}

const waitlistedMessage = "Game is full. You have been added to the waitlist."

// RegisterInitHandler validates a signup and either waitlists it or hands the
// normalised details back for the rules step.
func RegisterInitHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerInitRequest
		if err := decode(r.Context(), r, &req, "All fields are required."); err != nil {
			writeError(w, err)
			return
		}
		reg, err := svc.RegisterInit(r.Context(), ledger.Candidate{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Phone:         req.Phone,
			PaymentMethod: req.PaymentMethod,
			Rating:        req.Rating,
		}, req.SignupCode)
		if err != nil {
			writeError(w, err)
			return
		}
		if reg.Outcome == ledger.OutcomeWaitlisted {
			writeJSON(w, http.StatusOK, registerResponse{
				Success:          true,
				InWaitlist:       true,
				WaitlistPosition: reg.WaitlistPosition,
				Message:          waitlistedMessage,
			})
			return
		}
		temp := reg.Candidate
		writeJSON(w, http.StatusOK, registerResponse{
			Success:        true,
			ProceedToRules: true,
			TempData:       &temp,
		})
	}
}

type registerFinalRequest struct {
	TempData    ledger.Candidate `json:"tempData"`
	RulesAgreed bool             `json:"rulesAgreed"`
	SignupCode  string           `json:"signupCode"`
}

// RegisterFinalHandler completes a signup once the rules are agreed. Capacity
// and the signup code are checked again since either may have changed.
func RegisterFinalHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerFinalRequest
		if err := decode(r.Context(), r, &req, "Registration data missing."); err != nil {
			writeError(w, err)
			return
		}
		if !req.RulesAgreed {
			writeError(w, ledger.Validationf("You must agree to the rules to register."))
			return
		}
		if req.TempData.FirstName == "" {
			writeError(w, ledger.Validationf("Registration data missing."))
			return
		}
		c := req.TempData
		c.RulesAgreed = true
		reg, err := svc.Register(r.Context(), c, req.SignupCode)
		if err != nil {
			writeError(w, err)
			return
		}
		if reg.Outcome == ledger.OutcomeWaitlisted {
			writeJSON(w, http.StatusOK, registerResponse{
				Success:          true,
				InWaitlist:       true,
				WaitlistPosition: reg.WaitlistPosition,
				Message:          waitlistedMessage,
			})
			return
		}
		writeJSON(w, http.StatusOK, registerResponse{
			Success:           true,
			Message:           "You're registered! E-Transfer payment must be received before stepping on the ice.",
			PaymentDeadline:   "Before stepping on the ice",
			RosterReleaseTime: "Teams released after admin generates roster",
		})
	}
}

type cancelRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type promotedName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type cancelResponse struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	PromotedPlayer *promotedName `json:"promotedPlayer"`
	SpotsAvailable int           `json:"spotsAvailable"`
}

func CancelHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cancelRequest
		if err := decode(r.Context(), r, &req, "Player ID and phone number are required."); err != nil {
			writeError(w, err)
			return
		}
		res, err := svc.Cancel(r.Context(), req.PlayerID, req.Phone)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := cancelResponse{
			Success:        true,
			Message:        "Registration cancelled successfully.",
			SpotsAvailable: svc.Spots(),
		}
		if res.Promoted != nil {
			resp.PromotedPlayer = &promotedName{FirstName: res.Promoted.FirstName, LastName: res.Promoted.LastName}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
