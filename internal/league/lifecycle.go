package league

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/balancer"
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/notifier"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// ReleaseResult is returned to the administrator who released the roster.
type ReleaseResult struct {
	White    []ledger.Player `json:"whiteTeam"`
	Dark     []ledger.Player `json:"darkTeam"`
	WhiteAvg float64         `json:"whiteRating"`
	DarkAvg  float64         `json:"darkRating"`
	Week     clock.WeekKey   `json:"week"`
}

// Release balances the roster and publishes it.
func (s *Service) Release(ctx context.Context, dryRun bool) (ReleaseResult, error) {
	s.mu.Lock()
	if len(s.ledger.Players()) == 0 {
		s.mu.Unlock()
		return ReleaseResult{}, ledger.Validationf("No players registered yet")
	}
	ev := s.release(ctx, s.clock.Now(), TriggerAdmin)
	s.mu.Unlock()

	s.notifyRelease(ctx, ev, dryRun)
	return ReleaseResult{
		White:    ev.White,
		Dark:     ev.Dark,
		WhiteAvg: ev.WhiteAvg,
		DarkAvg:  ev.DarkAvg,
		Week:     ev.Week,
	}, nil
}

// Reset starts a new week immediately.
func (s *Service) Reset(ctx context.Context, dryRun bool) notifier.WeekReset {
	s.mu.Lock()
	ev := s.reset(ctx, s.clock.Now(), TriggerAdmin)
	s.mu.Unlock()

	s.notifyReset(ctx, ev, dryRun)
	return ev
}

// release runs the balancer, pins the lock and archives the week. Callers hold s.mu.
func (s *Service) release(ctx context.Context, now clock.Civil, trigger string) notifier.RosterReleased {
	teams := balancer.Balance(s.ledger.Players())
	s.ledger.Reorder(teams.Ordered)

	week := now.Week()
	releasedAt := now.Time
	s.state.RosterReleased = true
	s.state.RequireCode = true
	s.state.ManualOverride = true
	s.state.OverrideState = schedule.OverrideLocked
	s.state.Week = WeekData{
		Week:        week.Week,
		Year:        week.Year,
		ReleaseDate: &releasedAt,
		White:       teams.White,
		Dark:        teams.Dark,
	}

	for _, p := range s.ledger.Players() {
		s.persist("update_player", s.store.UpdatePlayer(ctx, p))
	}
	s.archive(ctx)
	s.saveSettings(ctx)
	s.metrics.IncRelease(trigger)

	log.Info("Roster released",
		"trigger", trigger,
		"week", week.Week,
		"year", week.Year,
		"white", len(teams.White),
		"dark", len(teams.Dark),
		"whiteAvg", teams.WhiteAvg,
		"darkAvg", teams.DarkAvg)

	return notifier.RosterReleased{
		Week:     week,
		Trigger:  trigger,
		White:    teams.White,
		Dark:     teams.Dark,
		WhiteAvg: roundTenth(teams.WhiteAvg),
		DarkAvg:  roundTenth(teams.DarkAvg),
		Location: s.state.Location,
		GameTime: s.state.GameTime,
		GameDate: s.state.GameDate,
	}
}

// archive writes the pending release to history once. A failed write leaves
// the week pending so the next reset retries it.
func (s *Service) archive(ctx context.Context) bool {
	w := s.state.Week
	if !w.Pending() {
		return false
	}
	rec := HistoryRecord{
		Year:        w.Year,
		Week:        w.Week,
		ReleaseDate: *w.ReleaseDate,
		Location:    s.state.Location,
		GameTime:    s.state.GameTime,
		GameDate:    s.state.GameDate,
		White:       w.White,
		Dark:        w.Dark,
		WhiteAvg:    roundTenth(teamAverage(w.White)),
		DarkAvg:     roundTenth(teamAverage(w.Dark)),
	}
	if err := s.store.SaveHistory(ctx, rec); err != nil {
		s.persist("save_history", err)
		return false
	}
	s.state.Week.Archived = true
	log.Info("Week archived", "week", w.Week, "year", w.Year)
	return true
}

// checkWeeklyReset runs the scheduled reset at most once per ISO week.
func (s *Service) checkWeeklyReset(ctx context.Context, now clock.Civil) *notifier.WeekReset {
	at := s.cfg.Reset
	if now.Weekday != at.Weekday || now.Hour != at.Hour {
		return nil
	}
	if s.state.LastReset == now.Week() {
		return nil
	}
	ev := s.reset(ctx, now, TriggerSchedule)
	return &ev
}

// reset archives any pending release, clears the ledger and re-arms the lock
// for a new week. Callers hold s.mu.
func (s *Service) reset(ctx context.Context, now clock.Civil, trigger string) notifier.WeekReset {
	archived := s.archive(ctx)

	s.ledger.Clear()
	s.persist("delete_players", s.store.DeleteAllPlayers(ctx))
	s.persist("delete_waitlist", s.store.DeleteAllWaitlist(ctx))

	week := now.Week()
	s.state.RosterReleased = false
	s.state.LastReset = week
	s.state.GameDate = NextGameDate(now, s.cfg.GameDay, s.cfg.CutoffHour)
	s.state.Week = WeekData{Week: week.Week, Year: week.Year}
	s.state.ManualOverride = false
	s.state.OverrideState = schedule.OverrideNone
	s.state.RequireCode = true

	added := s.seedAutoPlayers(ctx, now)
	s.saveSettings(ctx)
	s.metrics.IncReset(trigger)
	s.metrics.SetSpotsRemaining(s.ledger.Spots())

	log.Info("Weekly reset",
		"trigger", trigger,
		"week", week.Week,
		"year", week.Year,
		"archived", archived,
		"autoAdded", added,
		"gameDate", s.state.GameDate)

	return notifier.WeekReset{
		Week:      week,
		Trigger:   trigger,
		Archived:  archived,
		AutoAdded: added,
		Location:  s.state.Location,
		GameTime:  s.state.GameTime,
		GameDate:  s.state.GameDate,
	}
}

// seedAutoPlayers adds the league's standing players that are not already registered.
func (s *Service) seedAutoPlayers(ctx context.Context, now clock.Civil) int {
	added := 0
	for _, auto := range s.cfg.AutoPlayers {
		p := auto
		p.ID = ""
		p.Team = ledger.TeamNone
		p.Phone = ledger.FormatPhone(p.Phone)
		p.RegisteredAt = now.Time
		p.RulesAgreed = true
		if p.PaidAmount != nil {
			amount := *p.PaidAmount
			p.PaidAmount = &amount
		}
		seeded, ok := s.ledger.Seed(p)
		if !ok {
			log.Debug("Auto player already registered, skipping", "name", p.FullName())
			continue
		}
		s.persist("insert_player", s.store.InsertPlayer(ctx, seeded))
		added++
	}
	return added
}

// NextGameDate returns the next game day as YYYY-MM-DD. On game day itself the
// date rolls to the following week once the cutoff hour is reached.
func NextGameDate(now clock.Civil, gameDay time.Weekday, cutoffHour int) string {
	days := (int(gameDay) - int(now.Weekday) + 7) % 7
	if days == 0 && now.Hour >= cutoffHour {
		days = 7
	}
	return now.Time.AddDate(0, 0, days).Format(time.DateOnly)
}

// FormatGameDate renders a YYYY-MM-DD date as "Friday, October 23, 2026".
func FormatGameDate(date string) string {
	if date == "" {
		return "TBD"
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func teamAverage(team []ledger.Player) float64 {
	sum := 0
	for _, p := range team {
		sum += max(p.Rating, 0)
	}
	return balancer.Average(sum, len(team))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
