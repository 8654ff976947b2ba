package config

import (
	"time"

	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string
	DBName        string
	DatabaseURL   string
	DBAuthToken   string
	SnapshotFile  string
	AdminPassword string
	TimeZone      string
	TickInterval  time.Duration
	LogLevel      string
	Slack         SlackConfig
	ProjectID     string
	League        League
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// League is the per-deployment data: schedule, defaults and seeded players.
type League struct {
	Profile     string
	Name        string
	Locked      schedule.Window
	PostRelease schedule.Window
	Release     schedule.Instant
	Reset       schedule.Instant
	GameDay     time.Weekday
	// CutoffHour is the hour on game day from which the next game rolls to the following week.
	CutoffHour   int
	Location     string
	GameTime     string
	SignupCode   string
	Capacity     int
	MaxGoalies   int
	AutoPlayers  []ledger.Player
	CancelExempt []string
	Rules        []string
}
