package balancer

import (
	"cmp"
	"slices"

	"github.com/okosoff-test/hockeytest/internal/ledger"
	"golang.org/x/text/cases"
)

var fold = cases.Fold()

func sortKey(p ledger.Player) string {
	return fold.String(p.FirstName + " " + p.LastName)
}

func byName(a, b ledger.Player) int {
	return cmp.Compare(sortKey(a), sortKey(b))
}

// ByDisplay puts goalies first, then orders by case-folded full name.
func ByDisplay(a, b ledger.Player) int {
	if a.IsGoalie != b.IsGoalie {
		if a.IsGoalie {
			return -1
		}
		return 1
	}
	return byName(a, b)
}

// Balance splits players into White and Dark. The output depends only on the
// input: goalies and skaters are each sorted by case-folded full name, the first
// two goalies are split across the teams (a lone goalie goes to White), and the
// remaining players alternate, always topping up the smaller team once the gap
// exceeds one. The input slice is not modified.
func Balance(players []ledger.Player) Result {
	var goalies, skaters []ledger.Player
	for _, p := range players {
		if p.IsGoalie {
			goalies = append(goalies, p)
		} else {
			skaters = append(skaters, p)
		}
	}
	slices.SortStableFunc(goalies, byName)
	slices.SortStableFunc(skaters, byName)

	var res Result
	assign := func(p ledger.Player, team ledger.Team) {
		p.Team = team
		if team == ledger.TeamWhite {
			res.White = append(res.White, p)
			res.WhiteRating += rating(p)
		} else {
			res.Dark = append(res.Dark, p)
			res.DarkRating += rating(p)
		}
	}

	rest := skaters
	switch {
	case len(goalies) >= 2:
		assign(goalies[0], ledger.TeamWhite)
		assign(goalies[1], ledger.TeamDark)
		// extra goalies skate
		rest = append(slices.Clone(goalies[2:]), skaters...)
	case len(goalies) == 1:
		assign(goalies[0], ledger.TeamWhite)
	}

	whiteTurn := len(res.White) <= len(res.Dark)
	for _, p := range rest {
		if whiteTurn {
			assign(p, ledger.TeamWhite)
		} else {
			assign(p, ledger.TeamDark)
		}
		whiteTurn = !whiteTurn
		if diff := len(res.White) - len(res.Dark); diff > 1 || diff < -1 {
			whiteTurn = len(res.White) < len(res.Dark)
		}
	}

	slices.SortStableFunc(res.White, ByDisplay)
	slices.SortStableFunc(res.Dark, ByDisplay)
	res.Ordered = append(slices.Clone(res.White), res.Dark...)
	res.WhiteAvg = Average(res.WhiteRating, len(res.White))
	res.DarkAvg = Average(res.DarkRating, len(res.Dark))
	return res
}

// Canonical returns the post-release roster order for players that already
// carry team assignments: White, then Dark, each in display order. Players
// without a team follow in their input order.
func Canonical(players []ledger.Player) []ledger.Player {
	var white, dark, rest []ledger.Player
	for _, p := range players {
		switch p.Team {
		case ledger.TeamWhite:
			white = append(white, p)
		case ledger.TeamDark:
			dark = append(dark, p)
		default:
			rest = append(rest, p)
		}
	}
	slices.SortStableFunc(white, ByDisplay)
	slices.SortStableFunc(dark, ByDisplay)
	out := make([]ledger.Player, 0, len(players))
	out = append(out, white...)
	out = append(out, dark...)
	return append(out, rest...)
}

// Average returns sum/n, or 0 for an empty team.
func Average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func rating(p ledger.Player) int {
	return max(p.Rating, 0)
}
