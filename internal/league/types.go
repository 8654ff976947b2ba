package league

import (
	"time"

	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// Release triggers.
const (
	TriggerAdmin    = "admin"
	TriggerSchedule = "schedule"
)

// Setting keys. Values are stored JSON encoded.
const (
	KeyPlayerSpots     = "playerSpots"
	KeyCapacity        = "capacity"
	KeySignupCode      = "playerSignupCode"
	KeyRequireCode     = "requirePlayerCode"
	KeyManualOverride  = "manualOverride"
	KeyOverrideState   = "manualOverrideState"
	KeyRosterReleased  = "rosterReleased"
	KeyLastReset       = "lastResetWeek"
	KeyLastAutoRelease = "lastAutoRelease"
	KeyWeekData        = "currentWeekData"
	KeyLocation        = "gameLocation"
	KeyGameTime        = "gameTime"
	KeyGameDate        = "gameDate"
)

// WeekData is the current week's release snapshot.
type WeekData struct {
	Week        int             `json:"weekNumber"`
	Year        int             `json:"year"`
	ReleaseDate *time.Time      `json:"releaseDate"`
	White       []ledger.Player `json:"whiteTeam"`
	Dark        []ledger.Player `json:"darkTeam"`
	// Archived is set once the snapshot has a history record.
	Archived bool `json:"archived"`
}

// Pending reports whether the snapshot holds a release not yet written to history.
func (w WeekData) Pending() bool {
	return w.ReleaseDate != nil && !w.Archived && w.Week != 0 && len(w.White)+len(w.Dark) > 0
}

// State is the league's process-wide state outside the ledger.
type State struct {
	SignupCode      string
	RequireCode     bool
	ManualOverride  bool
	OverrideState   schedule.OverrideState
	RosterReleased  bool
	LastReset       clock.WeekKey
	LastAutoRelease clock.WeekKey
	Week            WeekData
	Location        string
	GameTime        string
	// GameDate is YYYY-MM-DD or empty.
	GameDate string
}

// HistoryRecord is an archived week.
type HistoryRecord struct {
	Year        int             `json:"year"`
	Week        int             `json:"weekNumber"`
	ReleaseDate time.Time       `json:"releaseDate"`
	Location    string          `json:"gameLocation"`
	GameTime    string          `json:"gameTime"`
	GameDate    string          `json:"gameDate"`
	White       []ledger.Player `json:"whiteTeam"`
	Dark        []ledger.Player `json:"darkTeam"`
	WhiteAvg    float64         `json:"whiteTeamAvg"`
	DarkAvg     float64         `json:"darkTeamAvg"`
}

// HistorySummary is a row of the history list.
type HistorySummary struct {
	Year    int       `json:"year"`
	Week    int       `json:"weekNumber"`
	Created time.Time `json:"created"`
}

// Snapshot is everything the store holds.
type Snapshot struct {
	Players  []ledger.Player
	Waitlist []ledger.WaitlistEntry
	// Settings maps keys to JSON-encoded values.
	Settings map[string][]byte
}
