package ledger

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger holds the current week's roster and waitlist with capacity accounting.
// It is not safe for concurrent use; the league service serialises access.
type Ledger struct {
	players         []Player
	waitlist        []WaitlistEntry
	defaultCapacity int
	capacity        int
	spots           int
	maxGoalies      int
	newID           func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCapacity sets the number of skater spots.
func WithCapacity(n int) Option {
	return func(l *Ledger) {
		l.defaultCapacity = n
		l.capacity = n
	}
}

// WithMaxGoalies sets how many goalies the roster accepts.
func WithMaxGoalies(n int) Option {
	return func(l *Ledger) { l.maxGoalies = n }
}

// WithIDGenerator replaces the id source.
func WithIDGenerator(f func() string) Option {
	return func(l *Ledger) { l.newID = f }
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		defaultCapacity: DefaultCapacity,
		capacity:        DefaultCapacity,
		maxGoalies:      DefaultMaxGoalies,
		newID:           newID,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.reconcile()
	return l
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Load replaces the ledger contents with persisted state. Remaining spots are
// recomputed from the roster unless capacity is given.
func (l *Ledger) Load(players []Player, waitlist []WaitlistEntry, capacity *int) {
	l.players = slices.Clone(players)
	l.waitlist = slices.Clone(waitlist)
	l.capacity = l.defaultCapacity
	if capacity != nil {
		l.capacity = *capacity
	}
	l.reconcile()
}

// reconcile restores remaining = capacity - non-goalie count, bounded to [0, MaxSpots].
func (l *Ledger) reconcile() {
	spots := l.capacity - l.NonGoalieCount()
	l.spots = max(0, min(spots, MaxSpots))
}

// Spots returns the remaining skater spots.
func (l *Ledger) Spots() int { return l.spots }

// Capacity returns the current skater capacity.
func (l *Ledger) Capacity() int { return l.capacity }

// MaxGoalies returns the goalie limit.
func (l *Ledger) MaxGoalies() int { return l.maxGoalies }

// SetSpots overrides the remaining-spot counter. The capacity follows so the
// override survives later structural changes.
func (l *Ledger) SetSpots(n int) error {
	if n < 0 || n > MaxSpots {
		return validationf("Invalid spot count (0-%d allowed)", MaxSpots)
	}
	l.capacity = n + l.NonGoalieCount()
	l.reconcile()
	return nil
}

// Players returns a copy of the roster in canonical order.
func (l *Ledger) Players() []Player { return slices.Clone(l.players) }

// Waitlist returns a copy of the waitlist in FIFO order.
func (l *Ledger) Waitlist() []WaitlistEntry { return slices.Clone(l.waitlist) }

// Player looks up a roster player.
func (l *Ledger) Player(id string) (Player, bool) {
	i := l.playerIndex(id)
	if i < 0 {
		return Player{}, false
	}
	return l.players[i], true
}

// NonGoalieCount returns the number of skaters on the roster.
func (l *Ledger) NonGoalieCount() int {
	n := 0
	for _, p := range l.players {
		if !p.IsGoalie {
			n++
		}
	}
	return n
}

// GoalieCount returns the number of goalies on the roster.
func (l *Ledger) GoalieCount() int {
	return len(l.players) - l.NonGoalieCount()
}

// TotalPaid sums recorded payments.
func (l *Ledger) TotalPaid() float64 {
	total := 0.0
	for _, p := range l.players {
		if p.PaidAmount != nil {
			total += *p.PaidAmount
		}
	}
	return total
}

// IsDuplicate reports whether the name or phone is already on the roster or waitlist.
func (l *Ledger) IsDuplicate(first, last, phone string) bool {
	name := NameKey(first, last)
	digits := PhoneDigits(phone)
	for _, p := range l.players {
		if NameKey(p.FirstName, p.LastName) == name || PhoneDigits(p.Phone) == digits {
			return true
		}
	}
	for _, w := range l.waitlist {
		if NameKey(w.FirstName, w.LastName) == name || PhoneDigits(w.Phone) == digits {
			return true
		}
	}
	return false
}

func (l *Ledger) validate(c Candidate) (Candidate, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.PaymentMethod = strings.TrimSpace(c.PaymentMethod)
	if c.FirstName == "" || c.LastName == "" || strings.TrimSpace(c.Phone) == "" {
		return c, validationf("All fields are required.")
	}
	if l.IsDuplicate(c.FirstName, c.LastName, c.Phone) {
		return c, errDuplicate
	}
	if !ValidPhone(c.Phone) {
		return c, validationf("Please enter a valid 10-digit phone number.")
	}
	if !ValidRating(c.Rating) {
		return c, validationf("Rating must be a number between 1 and 10.")
	}
	c.Phone = FormatPhone(c.Phone)
	return c, nil
}

// Register runs a public registration. A full roster queues the candidate on
// the waitlist, which is a successful outcome. Otherwise the signup code is
// enforced, and a candidate who has not agreed to the rules gets a pending
// result without any mutation.
func (l *Ledger) Register(c Candidate, gate Gate, now time.Time) (Registration, error) {
	if strings.TrimSpace(c.PaymentMethod) == "" {
		return Registration{}, validationf("All fields are required.")
	}
	c.IsGoalie = false
	c, err := l.validate(c)
	if err != nil {
		return Registration{}, err
	}

	if l.spots <= 0 {
		entry := l.enqueue(c, now)
		return Registration{
			Outcome:          OutcomeWaitlisted,
			Entry:            &entry,
			Candidate:        c,
			WaitlistPosition: len(l.waitlist),
		}, nil
	}

	if gate.Required && gate.SuppliedCode != gate.Code {
		return Registration{}, Unauthorizedf("Invalid or missing signup code")
	}

	if !c.RulesAgreed {
		return Registration{Outcome: OutcomePendingRules, Candidate: c}, nil
	}

	p := Player{
		ID:            l.newID(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Phone:         c.Phone,
		PaymentMethod: c.PaymentMethod,
		Rating:        c.Rating,
		RegisteredAt:  now,
		RulesAgreed:   true,
	}
	l.players = append(l.players, p)
	l.reconcile()
	return Registration{Outcome: OutcomeRegistered, Player: &p, Candidate: c}, nil
}

func (l *Ledger) enqueue(c Candidate, now time.Time) WaitlistEntry {
	entry := WaitlistEntry{
		ID:            l.newID(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Phone:         c.Phone,
		PaymentMethod: c.PaymentMethod,
		Rating:        c.Rating,
		IsGoalie:      c.IsGoalie,
		JoinedAt:      now,
	}
	l.waitlist = append(l.waitlist, entry)
	return entry
}

// Admit adds a player on an administrator's behalf, bypassing the signup code and
// capacity. Goalies are still limited on the roster.
func (l *Ledger) Admit(c Candidate, toWaitlist bool, now time.Time) (Registration, error) {
	if c.PaymentMethod == "" {
		c.PaymentMethod = "Cash"
	}
	c, err := l.validate(c)
	if err != nil {
		return Registration{}, err
	}
	if toWaitlist {
		entry := l.enqueue(c, now)
		return Registration{
			Outcome:          OutcomeWaitlisted,
			Entry:            &entry,
			Candidate:        c,
			WaitlistPosition: len(l.waitlist),
		}, nil
	}
	if c.IsGoalie && l.GoalieCount() >= l.maxGoalies {
		return Registration{}, validationf("Goalie spots are full (maximum %d).", l.maxGoalies)
	}
	p := Player{
		ID:            l.newID(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Phone:         c.Phone,
		PaymentMethod: c.PaymentMethod,
		Rating:        c.Rating,
		IsGoalie:      c.IsGoalie,
		RegisteredAt:  now,
		RulesAgreed:   c.RulesAgreed,
	}
	if c.IsGoalie {
		zero := 0.0
		p.Paid = true
		p.PaidAmount = &zero
	}
	l.players = append(l.players, p)
	l.reconcile()
	return Registration{Outcome: OutcomeRegistered, Player: &p, Candidate: c}, nil
}

// Seed inserts a prepared player unless the name or phone is already present.
// It reports whether the player was added.
func (l *Ledger) Seed(p Player) (Player, bool) {
	if l.IsDuplicate(p.FirstName, p.LastName, p.Phone) {
		return Player{}, false
	}
	if p.ID == "" {
		p.ID = l.newID()
	}
	l.players = append(l.players, p)
	l.reconcile()
	return p, true
}

// Cancel removes a player who cancels themselves. The phone must match the
// registration. Goalies, exempt players and released rosters cannot cancel.
// When the waitlist is non-empty its head is promoted in the same step.
func (l *Ledger) Cancel(id, phone string, exempt func(Player) bool, released bool, now time.Time) (Cancellation, error) {
	i := l.playerIndex(id)
	if i < 0 {
		return Cancellation{}, notFoundf("Player not found.")
	}
	p := l.players[i]
	if PhoneDigits(phone) != PhoneDigits(p.Phone) {
		return Cancellation{}, Unauthorizedf("Phone number does not match registration.")
	}
	if p.IsGoalie {
		return Cancellation{}, notAllowedf("Goalies cannot cancel online. Please contact admin.")
	}
	if exempt != nil && exempt(p) {
		return Cancellation{}, notAllowedf("This player cannot cancel online. Please contact admin.")
	}
	if released {
		return Cancellation{}, notAllowedf("Cannot cancel after roster has been released.")
	}

	l.players = slices.Delete(l.players, i, i+1)
	res := Cancellation{Removed: p}
	if len(l.waitlist) > 0 {
		head := l.waitlist[0]
		l.waitlist = slices.Delete(l.waitlist, 0, 1)
		promoted := head.AsPlayer(now)
		l.players = append(l.players, promoted)
		res.Promoted = &promoted
	}
	l.reconcile()
	return res, nil
}

// Promote moves a waitlist entry onto the roster unconditionally.
func (l *Ledger) Promote(waitlistID string, now time.Time) (Player, error) {
	i := l.waitlistIndex(waitlistID)
	if i < 0 {
		return Player{}, notFoundf("Player not found in waitlist")
	}
	entry := l.waitlist[i]
	l.waitlist = slices.Delete(l.waitlist, i, i+1)
	p := entry.AsPlayer(now)
	l.players = append(l.players, p)
	l.reconcile()
	return p, nil
}

// RemovePlayer deletes a roster player unconditionally.
func (l *Ledger) RemovePlayer(id string) (Player, error) {
	i := l.playerIndex(id)
	if i < 0 {
		return Player{}, notFoundf("Player not found")
	}
	p := l.players[i]
	l.players = slices.Delete(l.players, i, i+1)
	l.reconcile()
	return p, nil
}

// RemoveWaitlistEntry deletes a waitlist entry unconditionally.
func (l *Ledger) RemoveWaitlistEntry(id string) (WaitlistEntry, error) {
	i := l.waitlistIndex(id)
	if i < 0 {
		return WaitlistEntry{}, notFoundf("Player not found in waitlist")
	}
	entry := l.waitlist[i]
	l.waitlist = slices.Delete(l.waitlist, i, i+1)
	return entry, nil
}

// SetRating changes a player's rating and returns the previous one.
func (l *Ledger) SetRating(id string, rating int) (int, Player, error) {
	if !ValidRating(rating) {
		return 0, Player{}, validationf("Rating must be a number between 1 and 10")
	}
	i := l.playerIndex(id)
	if i < 0 {
		return 0, Player{}, notFoundf("Player not found")
	}
	old := l.players[i].Rating
	l.players[i].Rating = rating
	return old, l.players[i], nil
}

// SetPaidAmount records a payment. A nil amount marks the player unpaid; any
// positive amount marks them paid.
func (l *Ledger) SetPaidAmount(id string, amount *float64) (Player, error) {
	if amount != nil && (math.IsNaN(*amount) || math.IsInf(*amount, 0)) {
		return Player{}, validationf("Invalid amount")
	}
	if amount != nil && *amount < 0 {
		return Player{}, validationf("Paid amount cannot be negative")
	}
	i := l.playerIndex(id)
	if i < 0 {
		return Player{}, notFoundf("Player not found")
	}
	l.players[i].PaidAmount = amount
	l.players[i].Paid = amount != nil && *amount > 0
	return l.players[i], nil
}

// Reorder replaces the roster order and team assignments with ordered, which must
// contain exactly the current players.
func (l *Ledger) Reorder(ordered []Player) {
	byID := make(map[string]Player, len(l.players))
	for _, p := range l.players {
		byID[p.ID] = p
	}
	next := make([]Player, 0, len(ordered))
	for _, o := range ordered {
		p, ok := byID[o.ID]
		if !ok {
			continue
		}
		p.Team = o.Team
		next = append(next, p)
		delete(byID, o.ID)
	}
	// anyone the caller did not know about keeps their place at the end
	for _, p := range l.players {
		if _, ok := byID[p.ID]; ok {
			next = append(next, p)
		}
	}
	l.players = next
}

// Clear empties the roster and waitlist and restores the default capacity.
func (l *Ledger) Clear() {
	l.players = nil
	l.waitlist = nil
	l.capacity = l.defaultCapacity
	l.reconcile()
}

func (l *Ledger) playerIndex(id string) int {
	return slices.IndexFunc(l.players, func(p Player) bool { return p.ID == id })
}

func (l *Ledger) waitlistIndex(id string) int {
	return slices.IndexFunc(l.waitlist, func(w WaitlistEntry) bool { return w.ID == id })
}
