package league

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

// VerifyCode checks a signup code after reconciling the lock. When no code is
// required every code is accepted.
func (s *Service) VerifyCode(ctx context.Context, code string) (valid bool, required bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.reconcileLock(ctx, s.clock.Now())
	if !res.RequireCode {
		return true, false
	}
	return code == s.state.SignupCode, true
}

// RegisterInit runs the first registration step. It validates the candidate and
// checks the code; a full roster waitlists the candidate right away. Any other
// success is pending until the rules are agreed.
func (s *Service) RegisterInit(ctx context.Context, c ledger.Candidate, code string) (ledger.Registration, error) {
	c.RulesAgreed = false
	return s.Register(ctx, c, code)
}

// Register runs a public registration after reconciling the lock.
func (s *Service) Register(ctx context.Context, c ledger.Candidate, code string) (ledger.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.reconcileLock(ctx, now)
	gate := ledger.Gate{
		Required:     s.state.RequireCode,
		Code:         s.state.SignupCode,
		SuppliedCode: code,
	}
	reg, err := s.ledger.Register(c, gate, now.Time)
	if err != nil {
		log.Debug("Registration rejected", "name", c.FirstName+" "+c.LastName, "error", err)
		return reg, err
	}

	switch reg.Outcome {
	case ledger.OutcomeRegistered:
		s.persist("insert_player", s.store.InsertPlayer(ctx, *reg.Player))
		s.spotsChanged(ctx)
		log.Info("Player registered", "id", reg.Player.ID, "name", reg.Player.FullName(), "spots", s.ledger.Spots())
	case ledger.OutcomeWaitlisted:
		s.persist("insert_waitlist", s.store.InsertWaitlist(ctx, *reg.Entry))
		log.Info("Player waitlisted", "id", reg.Entry.ID, "name", reg.Entry.FullName(), "position", reg.WaitlistPosition)
	default:
		return reg, nil
	}
	s.metrics.IncRegistration(string(reg.Outcome))
	return reg, nil
}

// Cancel removes a player at their own request and promotes the head of the waitlist.
func (s *Service) Cancel(ctx context.Context, playerID, phone string) (ledger.Cancellation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	res, err := s.ledger.Cancel(playerID, phone, s.isExempt, s.state.RosterReleased, now.Time)
	if err != nil {
		return res, err
	}
	s.persist("delete_player", s.store.DeletePlayer(ctx, res.Removed.ID))
	s.metrics.IncCancellation()
	if res.Promoted != nil {
		s.persist("delete_waitlist", s.store.DeleteWaitlist(ctx, res.Promoted.ID))
		s.persist("insert_player", s.store.InsertPlayer(ctx, *res.Promoted))
		s.metrics.IncPromotion()
	}
	s.spotsChanged(ctx)
	log.Info("Registration cancelled", "id", res.Removed.ID, "promoted", res.Promoted != nil, "spots", s.ledger.Spots())
	return res, nil
}

// Spots returns the remaining skater spots.
func (s *Service) Spots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Spots()
}

// Players returns the roster in canonical order.
func (s *Service) Players() []ledger.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Players()
}

// Waitlist returns the waitlist in FIFO order.
func (s *Service) Waitlist() []ledger.WaitlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Waitlist()
}
