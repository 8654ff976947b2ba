package balancer

import "github.com/okosoff-test/hockeytest/internal/ledger"

// Result is a balanced split of a roster.
type Result struct {
	White []ledger.Player `json:"whiteTeam"`
	Dark  []ledger.Player `json:"darkTeam"`
	// Ordered is the canonical post-release roster order: White then Dark.
	Ordered     []ledger.Player `json:"-"`
	WhiteRating int             `json:"whiteRating"`
	DarkRating  int             `json:"darkRating"`
	WhiteAvg    float64         `json:"whiteAvg"`
	DarkAvg     float64         `json:"darkAvg"`
}
