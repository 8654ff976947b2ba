package ledger

import "time"

// Team is a roster side.
type Team string

const (
	TeamNone  Team = ""
	TeamWhite Team = "White"
	TeamDark  Team = "Dark"
)

const (
	// DefaultCapacity is the number of skater spots per game.
	DefaultCapacity = 20
	// MaxSpots bounds the remaining-spots counter an administrator may set.
	MaxSpots = 30
	// DefaultMaxGoalies is the number of goalies a roster accepts.
	DefaultMaxGoalies = 2
	// DefaultRating is used when a stored rating cannot be read.
	DefaultRating = 5
)

// Player is a registered participant for the current week.
type Player struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"paymentMethod"`
	Paid          bool      `json:"paid"`
	PaidAmount    *float64  `json:"paidAmount"`
	Rating        int       `json:"rating"`
	IsGoalie      bool      `json:"isGoalie"`
	Team          Team      `json:"team"`
	RegisteredAt  time.Time `json:"registeredAt"`
	RulesAgreed   bool      `json:"rulesAgreed"`
}

// WaitlistEntry is a candidate queued while the roster is full.
type WaitlistEntry struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Phone         string    `json:"phone"`
	PaymentMethod string    `json:"paymentMethod"`
	Rating        int       `json:"rating"`
	IsGoalie      bool      `json:"isGoalie"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// Candidate is an unvalidated registration request.
type Candidate struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
	Rating        int    `json:"rating"`
	IsGoalie      bool   `json:"isGoalie"`
	RulesAgreed   bool   `json:"rulesAgreed"`
}

// Gate carries the signup-code requirement for a registration.
type Gate struct {
	Required     bool
	Code         string
	SuppliedCode string
}

// Outcome tags a successful registration.
type Outcome string

const (
	OutcomeRegistered   Outcome = "registered"
	OutcomeWaitlisted   Outcome = "waitlisted"
	OutcomePendingRules Outcome = "pending_rules"
)

// Registration is the result of Register. Exactly one of Player or Entry is set
// for the registered and waitlisted outcomes; a pending-rules result only
// carries the normalised candidate.
type Registration struct {
	Outcome          Outcome
	Player           *Player
	Entry            *WaitlistEntry
	Candidate        Candidate
	WaitlistPosition int
}

// Cancellation is the result of Cancel.
type Cancellation struct {
	Removed  Player
	Promoted *Player
}

// FullName returns "First Last".
func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// FullName returns "First Last".
func (w WaitlistEntry) FullName() string {
	return w.FirstName + " " + w.LastName
}

// AsPlayer turns a waitlist entry into an unpaid roster player.
func (w WaitlistEntry) AsPlayer(now time.Time) Player {
	rating := w.Rating
	if rating < 1 || rating > 10 {
		rating = DefaultRating
	}
	return Player{
		ID:            w.ID,
		FirstName:     w.FirstName,
		LastName:      w.LastName,
		Phone:         w.Phone,
		PaymentMethod: w.PaymentMethod,
		Rating:        rating,
		IsGoalie:      w.IsGoalie,
		RegisteredAt:  now,
		RulesAgreed:   true,
	}
}
