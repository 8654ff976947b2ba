package config

import (
	"time"

	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

const (
	ProfileFriday = "friday"
	ProfileSunday = "sunday"
)

var gameRules = []string{
	"No contact. You may tie up a player along the boards.",
	"Keep negative comments to yourself.",
	"Pass the puck!",
	"Don't stickhandle around everyone every shift.",
	"Shift off often.",
	"No slashing. Hurt someone and you are done for the night; repeat infractions mean a ban.",
	"Skate hard, and shift off when you're out of breath.",
	"Tone down the aggression. It's pickup hockey.",
	"Don't take slap shots you can't control. Hit a goalie in the head and you lose slap shots.",
	"Have fun, and don't forget the handshake when the game ends!",
}

func free() *float64 {
	zero := 0.0
	return &zero
}

// Profiles returns the known league deployments keyed by profile name.
func Profiles() map[string]League {
	return map[string]League{
		ProfileFriday: {
			Profile: ProfileFriday,
			Name:    "Friday Hockey",
			Locked: schedule.Window{
				Start: schedule.Point{Weekday: time.Friday, Hour: 17},
				End:   schedule.Point{Weekday: time.Monday, Hour: 18},
			},
			Release:    schedule.Instant{Weekday: time.Friday, Hour: 17},
			Reset:      schedule.Instant{Weekday: time.Saturday},
			GameDay:    time.Friday,
			CutoffHour: 21,
			Location:   "Capri Recreation Complex",
			GameTime:   "Friday 9:30 PM",
			SignupCode: "9855",
			Capacity:   ledger.DefaultCapacity,
			MaxGoalies: ledger.DefaultMaxGoalies,
			AutoPlayers: []ledger.Player{
				{FirstName: "Phan", LastName: "Ly", Phone: "(519) 555-0101", Rating: 7, PaymentMethod: "FREE", Paid: true, PaidAmount: free(), RulesAgreed: true},
				{FirstName: "Craig", LastName: "Scolak", Phone: "(519) 555-0102", Rating: 9, IsGoalie: true, PaymentMethod: "N/A", RulesAgreed: true},
				{FirstName: "Hao", LastName: "Chau", Phone: "(519) 555-0103", Rating: 8, IsGoalie: true, PaymentMethod: "N/A", RulesAgreed: true},
			},
			CancelExempt: []string{"Phan Ly"},
			Rules:        gameRules,
		},
		ProfileSunday: {
			Profile: ProfileSunday,
			Name:    "Sunday Hockey",
			Locked: schedule.Window{
				Start: schedule.Point{Weekday: time.Sunday, Hour: 17},
				End:   schedule.Point{Weekday: time.Wednesday, Hour: 17},
			},
			Release:    schedule.Instant{Weekday: time.Sunday, Hour: 17},
			Reset:      schedule.Instant{Weekday: time.Monday},
			GameDay:    time.Sunday,
			CutoffHour: 21,
			Location:   "Forest Glade Arena",
			GameTime:   "Sunday 9:00 PM",
			SignupCode: "9855",
			Capacity:   ledger.DefaultCapacity,
			MaxGoalies: ledger.DefaultMaxGoalies,
			AutoPlayers: []ledger.Player{
				{FirstName: "Phan", LastName: "Ly", Phone: "(519) 555-0101", Rating: 7, PaymentMethod: "FREE", Paid: true, PaidAmount: free(), RulesAgreed: true},
				{FirstName: "Hao", LastName: "Chau", Phone: "(519) 555-0103", Rating: 8, IsGoalie: true, PaymentMethod: "N/A", RulesAgreed: true},
			},
			CancelExempt: []string{"Phan Ly"},
			Rules:        gameRules,
		},
	}
}
