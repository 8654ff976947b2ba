package league

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// Admit adds a player on an administrator's behalf.
func (s *Service) Admit(ctx context.Context, c ledger.Candidate, toWaitlist bool) (ledger.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.ledger.Admit(c, toWaitlist, s.clock.Now().Time)
	if err != nil {
		return reg, err
	}
	if reg.Entry != nil {
		s.persist("insert_waitlist", s.store.InsertWaitlist(ctx, *reg.Entry))
		log.Info("Admin added waitlist entry", "id", reg.Entry.ID, "name", reg.Entry.FullName())
		return reg, nil
	}
	s.persist("insert_player", s.store.InsertPlayer(ctx, *reg.Player))
	s.spotsChanged(ctx)
	log.Info("Admin added player", "id", reg.Player.ID, "name", reg.Player.FullName(), "goalie", reg.Player.IsGoalie)
	return reg, nil
}

// Promote moves a waitlist entry onto the roster.
func (s *Service) Promote(ctx context.Context, waitlistID string) (ledger.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.Promote(waitlistID, s.clock.Now().Time)
	if err != nil {
		return p, err
	}
	s.persist("delete_waitlist", s.store.DeleteWaitlist(ctx, waitlistID))
	s.persist("insert_player", s.store.InsertPlayer(ctx, p))
	s.metrics.IncPromotion()
	s.spotsChanged(ctx)
	log.Info("Waitlist entry promoted", "id", p.ID, "name", p.FullName())
	return p, nil
}

// RemovePlayer deletes a roster player.
func (s *Service) RemovePlayer(ctx context.Context, id string) (ledger.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.RemovePlayer(id)
	if err != nil {
		return p, err
	}
	s.persist("delete_player", s.store.DeletePlayer(ctx, id))
	s.spotsChanged(ctx)
	log.Info("Player removed", "id", id, "name", p.FullName())
	return p, nil
}

// RemoveWaitlistEntry deletes a waitlist entry.
func (s *Service) RemoveWaitlistEntry(ctx context.Context, id string) (ledger.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.ledger.RemoveWaitlistEntry(id)
	if err != nil {
		return w, err
	}
	s.persist("delete_waitlist", s.store.DeleteWaitlist(ctx, id))
	log.Info("Waitlist entry removed", "id", id, "name", w.FullName())
	return w, nil
}

// SetSpots overrides the remaining spot count.
func (s *Service) SetSpots(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.SetSpots(n); err != nil {
		return err
	}
	s.spotsChanged(ctx)
	return nil
}

// SetRating updates a player's rating and returns the old and new values.
func (s *Service) SetRating(ctx context.Context, id string, rating int) (oldRating, newRating int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, p, err := s.ledger.SetRating(id, rating)
	if err != nil {
		return 0, 0, err
	}
	s.persist("update_player", s.store.UpdatePlayer(ctx, p))
	return old, p.Rating, nil
}

// SetPaidAmount records a payment; nil clears it.
func (s *Service) SetPaidAmount(ctx context.Context, id string, amount *float64) (ledger.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ledger.SetPaidAmount(id, amount)
	if err != nil {
		return p, err
	}
	s.persist("update_player", s.store.UpdatePlayer(ctx, p))
	return p, nil
}

// GameDetails is the displayed game information.
type GameDetails struct {
	Location      string `json:"location"`
	Time          string `json:"time"`
	Date          string `json:"date"`
	FormattedDate string `json:"formattedDate"`
}

// UpdateDetails changes the non-empty fields among location, time and date.
func (s *Service) UpdateDetails(ctx context.Context, location, gameTime, date string) (GameDetails, error) {
	location = strings.TrimSpace(location)
	gameTime = strings.TrimSpace(gameTime)
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return GameDetails{}, ledger.Validationf("Date must be formatted as YYYY-MM-DD")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if location != "" {
		s.state.Location = location
	}
	if gameTime != "" {
		s.state.GameTime = gameTime
	}
	if date != "" {
		s.state.GameDate = date
	}
	s.saveSettings(ctx, KeyLocation, KeyGameTime, KeyGameDate)
	return s.details(), nil
}

func (s *Service) details() GameDetails {
	return GameDetails{
		Location:      s.state.Location,
		Time:          s.state.GameTime,
		Date:          s.state.GameDate,
		FormattedDate: FormatGameDate(s.state.GameDate),
	}
}

// UpdateSignupCode replaces the signup code.
func (s *Service) UpdateSignupCode(ctx context.Context, code string) error {
	if !ledger.ValidSignupCode(code) {
		return ledger.Validationf("Code must be exactly 4 digits")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SignupCode = code
	s.saveSettings(ctx, KeySignupCode)
	log.Info("Signup code updated")
	return nil
}

// LockState is the lock portion of the state shown to administrators.
type LockState struct {
	RequireCode         bool                   `json:"requireCode"`
	ManualOverride      bool                   `json:"manualOverride"`
	ManualOverrideState schedule.OverrideState `json:"manualOverrideState"`
	Code                string                 `json:"code"`
}

// ToggleCode flips the code requirement and pins it with a manual override.
func (s *Service) ToggleCode(ctx context.Context) LockState {
	s.mu.Lock()
	defer s.mu.Unlock()

	require := !s.state.RequireCode
	s.state.RequireCode = require
	s.state.ManualOverride = true
	s.state.OverrideState = schedule.OverrideOpen
	if require {
		s.state.OverrideState = schedule.OverrideLocked
	}
	s.metrics.IncLockTransition(lockLabel(require))
	s.saveSettings(ctx, KeyRequireCode, KeyManualOverride, KeyOverrideState)
	log.Info("Signup code requirement toggled", "requireCode", require)
	return s.lockState()
}

// ResetSchedule drops any manual override and lets the schedule decide again.
func (s *Service) ResetSchedule(ctx context.Context) LockState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ManualOverride = false
	s.state.OverrideState = schedule.OverrideNone
	s.saveSettings(ctx, KeyManualOverride, KeyOverrideState)
	s.reconcileLock(ctx, s.clock.Now())
	return s.lockState()
}

func (s *Service) lockState() LockState {
	return LockState{
		RequireCode:         s.state.RequireCode,
		ManualOverride:      s.state.ManualOverride,
		ManualOverrideState: s.state.OverrideState,
		Code:                s.state.SignupCode,
	}
}

// History lists archived weeks, newest first.
func (s *Service) History(ctx context.Context) ([]HistorySummary, error) {
	return s.store.ListHistory(ctx)
}

// HistoryWeek returns one archived week.
func (s *Service) HistoryWeek(ctx context.Context, year, week int) (HistoryRecord, error) {
	return s.store.GetHistory(ctx, year, week)
}

// DeleteHistoryWeek removes an archived week.
func (s *Service) DeleteHistoryWeek(ctx context.Context, year, week int) error {
	if err := s.store.DeleteHistory(ctx, year, week); err != nil {
		return err
	}
	log.Info("History week deleted", "year", year, "week", week)
	return nil
}
