package balancer_test

import (
	"testing"

	"github.com/okosoff-test/hockeytest/internal/balancer"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id, first, last string, rating int, goalie bool) ledger.Player {
	return ledger.Player{ID: id, FirstName: first, LastName: last, Rating: rating, IsGoalie: goalie}
}

func ids(ps []ledger.Player) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestBalance_Empty(t *testing.T) {
	res := balancer.Balance(nil)
	assert.Empty(t, res.White)
	assert.Empty(t, res.Dark)
	assert.Empty(t, res.Ordered)
	assert.Zero(t, res.WhiteAvg)
	assert.Zero(t, res.DarkAvg)
}

func TestBalance_SingleGoalie(t *testing.T) {
	res := balancer.Balance([]ledger.Player{player("g", "Gil", "Goal", 8, true)})
	require.Len(t, res.White, 1)
	assert.Empty(t, res.Dark)
	assert.Equal(t, ledger.TeamWhite, res.White[0].Team)
	assert.Equal(t, 8.0, res.WhiteAvg)
	assert.Zero(t, res.DarkAvg)
}

func TestBalance_TwoGoaliesFourSkaters(t *testing.T) {
	in := []ledger.Player{
		player("s3", "S3", "Skater", 4, false),
		player("g2", "G2", "Goalie", 7, true),
		player("s1", "S1", "Skater", 6, false),
		player("s4", "S4", "Skater", 3, false),
		player("g1", "G1", "Goalie", 9, true),
		player("s2", "S2", "Skater", 5, false),
	}
	res := balancer.Balance(in)

	assert.Equal(t, []string{"g1", "s1", "s3"}, ids(res.White))
	assert.Equal(t, []string{"g2", "s2", "s4"}, ids(res.Dark))
	assert.Equal(t, 19, res.WhiteRating)
	assert.Equal(t, 15, res.DarkRating)
	assert.InDelta(t, 19.0/3, res.WhiteAvg, 1e-9)
	assert.InDelta(t, 5.0, res.DarkAvg, 1e-9)

	seen := map[string]int{}
	for _, p := range res.Ordered {
		seen[p.ID]++
	}
	assert.Len(t, seen, len(in))
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
	assert.Equal(t, append(ids(res.White), ids(res.Dark)...), ids(res.Ordered))
	assert.Equal(t, "s3", in[0].ID, "input order is untouched")
	assert.Equal(t, ledger.TeamNone, in[0].Team)
}

func TestBalance_Deterministic(t *testing.T) {
	in := []ledger.Player{
		player("a", "amy", "Zed", 5, false),
		player("b", "Bob", "Young", 7, false),
		player("c", "Cal", "Xu", 2, false),
		player("d", "Dee", "Wu", 9, true),
		player("e", "Eve", "Vo", 6, false),
	}
	first := balancer.Balance(in)
	second := balancer.Balance(in)
	assert.Equal(t, first, second)
}

func TestBalance_CaseInsensitiveOrder(t *testing.T) {
	in := []ledger.Player{
		player("b", "bob", "b", 5, false),
		player("a", "Al", "A", 5, false),
	}
	res := balancer.Balance(in)
	assert.Equal(t, []string{"a"}, ids(res.White))
	assert.Equal(t, []string{"b"}, ids(res.Dark))
}

func TestBalance_SizesStayWithinOne(t *testing.T) {
	for goalies := 0; goalies <= 3; goalies++ {
		for skaters := 0; skaters <= 9; skaters++ {
			var in []ledger.Player
			for i := 0; i < goalies; i++ {
				in = append(in, player(string(rune('G'+i))+"g", "Goalie", string(rune('A'+i)), 7, true))
			}
			for i := 0; i < skaters; i++ {
				in = append(in, player(string(rune('a'+i)), "Skater", string(rune('A'+i)), 5, false))
			}
			res := balancer.Balance(in)
			diff := len(res.White) - len(res.Dark)
			assert.LessOrEqual(t, diff, 1, "goalies=%d skaters=%d", goalies, skaters)
			assert.GreaterOrEqual(t, diff, -1, "goalies=%d skaters=%d", goalies, skaters)
			assert.Len(t, res.Ordered, goalies+skaters)
		}
	}
}

func TestBalance_SurplusGoaliesAreKept(t *testing.T) {
	in := []ledger.Player{
		player("g1", "A", "Goalie", 8, true),
		player("g2", "B", "Goalie", 8, true),
		player("g3", "C", "Goalie", 8, true),
		player("s1", "D", "Skater", 5, false),
	}
	res := balancer.Balance(in)
	assert.Equal(t, []string{"g1", "g3"}, ids(res.White))
	assert.Equal(t, []string{"g2", "s1"}, ids(res.Dark))
}

func TestBalance_DisplayOrderGoaliesFirst(t *testing.T) {
	in := []ledger.Player{
		player("g1", "Zack", "Goalie", 8, true),
		player("s1", "Adam", "Skater", 5, false),
		player("s2", "Beth", "Skater", 5, false),
	}
	res := balancer.Balance(in)
	require.NotEmpty(t, res.White)
	assert.True(t, res.White[0].IsGoalie)
	assert.Equal(t, []string{"g1", "s2"}, ids(res.White))
	assert.Equal(t, []string{"s1"}, ids(res.Dark))
}

func TestCanonical(t *testing.T) {
	white := func(p ledger.Player) ledger.Player { p.Team = ledger.TeamWhite; return p }
	dark := func(p ledger.Player) ledger.Player { p.Team = ledger.TeamDark; return p }
	in := []ledger.Player{
		player("late", "Late", "Add", 4, false),
		dark(player("d1", "Cole", "Skater", 5, false)),
		white(player("w1", "Bea", "Skater", 5, false)),
		dark(player("dg", "Zed", "Goalie", 7, true)),
		white(player("w2", "abe", "Skater", 6, false)),
	}
	assert.Equal(t, []string{"w2", "w1", "dg", "d1", "late"}, ids(balancer.Canonical(in)))

	res := balancer.Balance(in)
	assert.Equal(t, ids(res.Ordered), ids(balancer.Canonical(res.Ordered)), "balanced output is already canonical")
}

func TestByDisplay(t *testing.T) {
	g := player("g", "Zed", "Goalie", 7, true)
	a := player("a", "abe", "Skater", 6, false)
	b := player("b", "Bea", "Skater", 5, false)
	assert.Negative(t, balancer.ByDisplay(g, a))
	assert.Negative(t, balancer.ByDisplay(a, b), "names compare case-folded")
	assert.Zero(t, balancer.ByDisplay(a, a))
}

func TestAverage(t *testing.T) {
	assert.Zero(t, balancer.Average(10, 0))
	assert.Equal(t, 2.5, balancer.Average(5, 2))
}
