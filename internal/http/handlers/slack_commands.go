package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/league"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

func section(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

// HockeyCommandHandler answers the /hockey slash command. The text selects
// the view: status (default), roster or waitlist.
func HockeyCommandHandler(svc *league.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		sub := strings.ToLower(strings.TrimSpace(cmd.Text))
		log.Info("Received hockey command", "user", cmd.UserName, "text", sub)

		var blocks []slack.Block
		switch sub {
		case "", "status":
			blocks = statusBlocks(svc.Status(r.Context()))
		case "roster":
			blocks = rosterBlocks(svc.RosterView())
		case "waitlist":
			blocks = waitlistBlocks(svc.WaitlistView())
		default:
			blocks = []slack.Block{section(fmt.Sprintf("Unknown option `%s`. Try `status`, `roster` or `waitlist`.", sub))}
		}
		respondWithSlackMsg(w, slack.NewBlockMessage(blocks...))
	}
}

func statusBlocks(st league.Status) []slack.Block {
	signup := "open to all"
	if st.RequireCode {
		signup = "code required"
	}
	lines := []string{
		fmt.Sprintf("*%s* • %s • %s", st.FormattedDate, st.Time, st.Location),
		fmt.Sprintf("Spots left: *%d* • Goalies: %d/%d • Waitlist: %d", st.PlayerSpotsRemaining, st.GoalieCount, st.MaxGoalies, st.WaitlistCount),
		fmt.Sprintf("Signup is %s", signup),
	}
	if st.RosterReleased {
		lines = append(lines, "Teams are out, use `/hockey roster`")
	}
	return []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("🏒 Week %d signup", st.CurrentWeek), false, false)),
		section(strings.Join(lines, "\n")),
	}
}

func rosterBlocks(rv league.RosterView) []slack.Block {
	if !rv.Released {
		return []slack.Block{section(fmt.Sprintf("%s. %s.", rv.Message, rv.ReleaseTime))}
	}
	team := func(label, avg string, lines []league.RosterLine) *slack.TextBlockObject {
		var b strings.Builder
		fmt.Fprintf(&b, "*%s (avg %s)*", label, avg)
		for _, p := range lines {
			fmt.Fprintf(&b, "\n• %s %s", p.FirstName, p.LastName)
			if p.IsGoalie {
				b.WriteString(" (G)")
			}
		}
		return slack.NewTextBlockObject(slack.MarkdownType, b.String(), false, false)
	}
	return []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("🏒 Teams for week %d", rv.WeekNumber), false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			team("⚪ White", rv.WhiteRating, rv.WhiteTeam),
			team("⚫ Dark", rv.DarkRating, rv.DarkTeam),
		}, nil),
	}
}

func waitlistBlocks(wv league.WaitlistView) []slack.Block {
	if wv.TotalWaitlist == 0 {
		return []slack.Block{section("The waitlist is empty.")}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*Waitlist (%d)*", wv.TotalWaitlist)
	for _, l := range wv.Waitlist {
		fmt.Fprintf(&b, "\n%d. %s", l.Position, l.FullName)
	}
	return []slack.Block{section(b.String())}
}
