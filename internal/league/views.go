package league

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okosoff-test/hockeytest/internal/balancer"
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// PublicPlayer is a roster entry with contact, payment and rating removed.
type PublicPlayer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsGoalie  bool   `json:"isGoalie"`
	CanCancel bool   `json:"canCancel"`
}

// Status is the public signup page state.
type Status struct {
	PlayerSpotsRemaining int                    `json:"playerSpotsRemaining"`
	GoalieCount          int                    `json:"goalieCount"`
	GoalieSpotsAvailable int                    `json:"goalieSpotsAvailable"`
	MaxGoalies           int                    `json:"maxGoalies"`
	TotalPlayers         int                    `json:"totalPlayers"`
	IsFull               bool                   `json:"isFull"`
	WaitlistCount        int                    `json:"waitlistCount"`
	RequireCode          bool                   `json:"requireCode"`
	IsLockedWindow       bool                   `json:"isLockedWindow"`
	ManualOverride       bool                   `json:"manualOverride"`
	ManualOverrideState  schedule.OverrideState `json:"manualOverrideState"`
	GameDetails
	RosterReleased    bool           `json:"rosterReleased"`
	RosterReleaseTime *time.Time     `json:"rosterReleaseTime"`
	CurrentWeek       int            `json:"currentWeek"`
	CurrentYear       int            `json:"currentYear"`
	Rules             []string       `json:"rules"`
	Players           []PublicPlayer `json:"players"`
}

// Status reconciles the lock and returns the public signup state.
func (s *Service) Status(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	lock := s.reconcileLock(ctx, now)
	week := now.Week()
	players := s.ledger.Players()

	public := make([]PublicPlayer, 0, len(players))
	for _, p := range players {
		public = append(public, PublicPlayer{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			IsGoalie:  p.IsGoalie,
			CanCancel: !p.IsGoalie && !s.isExempt(p),
		})
	}
	goalies := s.ledger.GoalieCount()

	return Status{
		PlayerSpotsRemaining: s.ledger.Spots(),
		GoalieCount:          goalies,
		GoalieSpotsAvailable: max(s.ledger.MaxGoalies()-goalies, 0),
		MaxGoalies:           s.ledger.MaxGoalies(),
		TotalPlayers:         len(players),
		IsFull:               s.ledger.Spots() == 0,
		WaitlistCount:        len(s.ledger.Waitlist()),
		RequireCode:          lock.RequireCode,
		IsLockedWindow:       lock.LockedWindow,
		ManualOverride:       lock.ManualOverride,
		ManualOverrideState:  lock.OverrideState,
		GameDetails:          s.details(),
		RosterReleased:       s.state.RosterReleased,
		RosterReleaseTime:    s.state.Week.ReleaseDate,
		CurrentWeek:          week.Week,
		CurrentYear:          week.Year,
		Rules:                s.cfg.Rules,
		Players:              public,
	}
}

// WaitlistLine is a public waitlist entry.
type WaitlistLine struct {
	Position int    `json:"position"`
	FullName string `json:"fullName"`
	IsGoalie bool   `json:"isGoalie"`
}

// WaitlistView is the public waitlist.
type WaitlistView struct {
	Waitlist      []WaitlistLine `json:"waitlist"`
	TotalWaitlist int            `json:"totalWaitlist"`
	GameDetails
}

// WaitlistView returns the public waitlist.
func (s *Service) WaitlistView() WaitlistView {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.ledger.Waitlist()
	lines := make([]WaitlistLine, 0, len(entries))
	for i, w := range entries {
		lines = append(lines, WaitlistLine{Position: i + 1, FullName: w.FullName(), IsGoalie: w.IsGoalie})
	}
	return WaitlistView{Waitlist: lines, TotalWaitlist: len(entries), GameDetails: s.details()}
}

// RosterLine is a public team entry.
type RosterLine struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsGoalie  bool   `json:"isGoalie"`
}

// RosterView is the public released roster.
type RosterView struct {
	Released    bool         `json:"released"`
	Message     string       `json:"message,omitempty"`
	ReleaseTime string       `json:"releaseTime,omitempty"`
	WhiteTeam   []RosterLine `json:"whiteTeam,omitempty"`
	DarkTeam    []RosterLine `json:"darkTeam,omitempty"`
	WhiteRating string       `json:"whiteRating,omitempty"`
	DarkRating  string       `json:"darkRating,omitempty"`
	*GameDetails
	WeekNumber int `json:"weekNumber,omitempty"`
	Year       int `json:"year,omitempty"`
}

// RosterView returns the released teams, or a notice when the roster is not out yet.
func (s *Service) RosterView() RosterView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.RosterReleased {
		return RosterView{
			Released:    false,
			Message:     "Roster has not been released yet",
			ReleaseTime: fmt.Sprintf("Teams released every %s", describeInstant(s.cfg.Release)),
		}
	}

	var white, dark []ledger.Player
	for _, p := range s.ledger.Players() {
		switch p.Team {
		case ledger.TeamWhite:
			white = append(white, p)
		case ledger.TeamDark:
			dark = append(dark, p)
		}
	}
	details := s.details()
	return RosterView{
		Released:    true,
		WhiteTeam:   rosterLines(white),
		DarkTeam:    rosterLines(dark),
		WhiteRating: fmt.Sprintf("%.1f", teamAverage(white)),
		DarkRating:  fmt.Sprintf("%.1f", teamAverage(dark)),
		GameDetails: &details,
		WeekNumber:  s.state.Week.Week,
		Year:        s.state.Week.Year,
	}
}

func rosterLines(team []ledger.Player) []RosterLine {
	team = slices.Clone(team)
	slices.SortStableFunc(team, balancer.ByDisplay)
	lines := make([]RosterLine, 0, len(team))
	for _, p := range team {
		lines = append(lines, RosterLine{FirstName: p.FirstName, LastName: p.LastName, IsGoalie: p.IsGoalie})
	}
	return lines
}

func describeInstant(i schedule.Instant) string {
	t := time.Date(2000, 1, 1, i.Hour, i.Minute, 0, 0, time.UTC)
	return fmt.Sprintf("%s at %s", i.Weekday, t.Format("3:04 PM"))
}

// HistoryView is an archived week with player details removed.
type HistoryView struct {
	Year        int          `json:"year"`
	Week        int          `json:"weekNumber"`
	ReleaseDate time.Time    `json:"releaseDate"`
	Location    string       `json:"gameLocation"`
	GameTime    string       `json:"gameTime"`
	GameDate    string       `json:"gameDate"`
	WhiteTeam   []RosterLine `json:"whiteTeam"`
	DarkTeam    []RosterLine `json:"darkTeam"`
	WhiteAvg    string       `json:"whiteTeamAvg"`
	DarkAvg     string       `json:"darkTeamAvg"`
}

// PublicHistory strips an archived week for public display.
func PublicHistory(rec HistoryRecord) HistoryView {
	return HistoryView{
		Year:        rec.Year,
		Week:        rec.Week,
		ReleaseDate: rec.ReleaseDate,
		Location:    rec.Location,
		GameTime:    rec.GameTime,
		GameDate:    rec.GameDate,
		WhiteTeam:   rosterLines(rec.White),
		DarkTeam:    rosterLines(rec.Dark),
		WhiteAvg:    fmt.Sprintf("%.1f", rec.WhiteAvg),
		DarkAvg:     fmt.Sprintf("%.1f", rec.DarkAvg),
	}
}

// AdminView is the full roster with payment and rating data.
type AdminView struct {
	PlayerSpots    int                    `json:"playerSpots"`
	PlayerCount    int                    `json:"playerCount"`
	GoalieCount    int                    `json:"goalieCount"`
	MaxGoalies     int                    `json:"maxGoalies"`
	TotalPlayers   int                    `json:"totalPlayers"`
	TotalPaid      string                 `json:"totalPaid"`
	PaidCount      int                    `json:"paidCount"`
	UnpaidCount    int                    `json:"unpaidCount"`
	Players        []ledger.Player        `json:"players"`
	Waitlist       []ledger.WaitlistEntry `json:"waitlist"`
	RosterReleased bool                   `json:"rosterReleased"`
	WeekData       WeekData               `json:"currentWeekData"`
	SignupCode     string                 `json:"playerSignupCode"`
	RequireCode    bool                   `json:"requirePlayerCode"`
	GameDetails
}

// AdminView returns the full state for administrators. Goalies and
// cancel-exempt players are left out of the paid and unpaid counts.
func (s *Service) AdminView() AdminView {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := s.ledger.Players()
	paid, unpaid := 0, 0
	for _, p := range players {
		if p.IsGoalie || s.isExempt(p) {
			continue
		}
		if p.Paid {
			paid++
		} else {
			unpaid++
		}
	}
	return AdminView{
		PlayerSpots:    s.ledger.Spots(),
		PlayerCount:    s.ledger.NonGoalieCount(),
		GoalieCount:    s.ledger.GoalieCount(),
		MaxGoalies:     s.ledger.MaxGoalies(),
		TotalPlayers:   len(players),
		TotalPaid:      fmt.Sprintf("%.2f", s.ledger.TotalPaid()),
		PaidCount:      paid,
		UnpaidCount:    unpaid,
		Players:        players,
		Waitlist:       s.ledger.Waitlist(),
		RosterReleased: s.state.RosterReleased,
		WeekData:       s.state.Week,
		SignupCode:     s.state.SignupCode,
		RequireCode:    s.state.RequireCode,
		GameDetails:    s.details(),
	}
}

// Settings is the administrator settings panel.
type Settings struct {
	LockState
	IsLockedWindow bool `json:"isLockedWindow"`
	RosterReleased bool `json:"rosterReleased"`
	GameDetails
}

// Settings reconciles the lock and returns the settings panel.
func (s *Service) Settings(ctx context.Context) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.reconcileLock(ctx, s.clock.Now())
	return Settings{
		LockState:      s.lockState(),
		IsLockedWindow: res.LockedWindow,
		RosterReleased: s.state.RosterReleased,
		GameDetails:    s.details(),
	}
}

// DebugTime describes how the service currently sees the clock.
type DebugTime struct {
	ServerTime     time.Time     `json:"serverTime"`
	LocalTime      string        `json:"localTime"`
	TimeZone       string        `json:"timeZone"`
	Weekday        string        `json:"weekday"`
	Hour           int           `json:"hour"`
	Minute         int           `json:"minute"`
	Week           clock.WeekKey `json:"week"`
	IsLockedWindow bool          `json:"isLockedWindow"`
	RequireCode    bool          `json:"requireCode"`
	RosterReleased bool          `json:"rosterReleased"`
	LastReset      clock.WeekKey `json:"lastResetWeek"`
	NextGameDate   string        `json:"nextGameDate"`
}

// DebugTime reports the clock and lock state without changing anything.
func (s *Service) DebugTime() DebugTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debugTime(s.clock.Now())
}

func (s *Service) debugTime(now clock.Civil) DebugTime {
	return DebugTime{
		ServerTime:     now.Time.UTC(),
		LocalTime:      now.Time.Format(time.DateTime),
		TimeZone:       s.clock.Location().String(),
		Weekday:        now.Weekday.String(),
		Hour:           now.Hour,
		Minute:         now.Minute,
		Week:           now.Week(),
		IsLockedWindow: s.sched.IsLockedWindow(now),
		RequireCode:    s.state.RequireCode,
		RosterReleased: s.state.RosterReleased,
		LastReset:      s.state.LastReset,
		NextGameDate:   NextGameDate(now, s.cfg.GameDay, s.cfg.CutoffHour),
	}
}

// ForceCheck runs the periodic lock and reset checks immediately.
func (s *Service) ForceCheck(ctx context.Context) DebugTime {
	s.Tick(ctx)
	return s.DebugTime()
}
