package notifier

import (
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/ledger"
)

// RosterReleased describes a published roster.
type RosterReleased struct {
	Week     clock.WeekKey   `json:"week" msgpack:"week"`
	Trigger  string          `json:"trigger" msgpack:"trigger"`
	White    []ledger.Player `json:"whiteTeam" msgpack:"whiteTeam"`
	Dark     []ledger.Player `json:"darkTeam" msgpack:"darkTeam"`
	WhiteAvg float64         `json:"whiteAvg" msgpack:"whiteAvg"`
	DarkAvg  float64         `json:"darkAvg" msgpack:"darkAvg"`
	Location string          `json:"location" msgpack:"location"`
	GameTime string          `json:"time" msgpack:"time"`
	GameDate string          `json:"date" msgpack:"date"`
}

// WeekReset describes the start of a new signup week.
type WeekReset struct {
	Week      clock.WeekKey `json:"week" msgpack:"week"`
	Trigger   string        `json:"trigger" msgpack:"trigger"`
	Archived  bool          `json:"archived" msgpack:"archived"`
	AutoAdded int           `json:"autoAdded" msgpack:"autoAdded"`
	Location  string        `json:"location" msgpack:"location"`
	GameTime  string        `json:"time" msgpack:"time"`
	GameDate  string        `json:"date" msgpack:"date"`
}
