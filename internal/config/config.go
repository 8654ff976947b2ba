package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	_ "time/tzdata"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	password, ok := lookup("ADMIN_PASSWORD")
	if !ok || password == "" {
		return Config{}, fmt.Errorf("required environment variable ADMIN_PASSWORD is not set")
	}

	tick, err := time.ParseDuration(getEnv("TICK_INTERVAL", "30s"))
	if err != nil || tick <= 0 {
		return Config{}, fmt.Errorf("invalid TICK_INTERVAL %q", getEnv("TICK_INTERVAL", ""))
	}

	profile := getEnv("LEAGUE_PROFILE", ProfileFriday)
	league, ok := Profiles()[profile]
	if !ok {
		return Config{}, fmt.Errorf("unknown LEAGUE_PROFILE %q", profile)
	}
	if code, ok := lookup("SIGNUP_CODE"); ok && code != "" {
		if !ledger.ValidSignupCode(code) {
			return Config{}, fmt.Errorf("SIGNUP_CODE must be exactly 4 digits")
		}
		league.SignupCode = code
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBName:        getEnv("DB_NAME", "league.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBAuthToken:   getEnv("DB_AUTH_TOKEN", ""),
		SnapshotFile:  getEnv("SNAPSHOT_FILE", "data.json"),
		AdminPassword: password,
		TimeZone:      getEnv("TIMEZONE", "America/New_York"),
		TickInterval:  tick,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
		League:    league,
	}
	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.TimeZone, err)
	}
	return cfg, nil
}

// Location returns the configured time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
