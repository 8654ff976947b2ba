package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/metrics"
	"github.com/okosoff-test/hockeytest/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts league announcements to a Slack channel.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := sonic.ConfigStd.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) NotifyRosterReleased(ctx context.Context, event notifier.RosterReleased, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatRosterReleased(event), dryRun)
	return err
}

func (s *Notifier) NotifyWeekReset(ctx context.Context, event notifier.WeekReset, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatWeekReset(event), dryRun)
	return err
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func teamText(name string, avg float64, team []ledger.Player) string {
	lines := []string{fmt.Sprintf("%s (avg %.1f)", name, avg)}
	for _, p := range team {
		line := "• " + p.FullName()
		if p.IsGoalie {
			line += " (G)"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func gameLine(location, gameTime, date string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{location, gameTime, date} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

// formatRosterReleased lays out both teams side by side.
func formatRosterReleased(ev notifier.RosterReleased) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("🏒 Teams for week %d are out!", ev.Week.Week))),
	}
	if line := gameLine(ev.Location, ev.GameTime, ev.GameDate); line != "" {
		blocks = append(blocks, slack.NewSectionBlock(plain(line), nil, nil))
	}
	fields := []*slack.TextBlockObject{
		plain(teamText("⚪ White", ev.WhiteAvg, ev.White)),
		plain(teamText("⚫ Dark", ev.DarkAvg, ev.Dark)),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	blocks = append(blocks, slack.NewContextBlock("", plain(fmt.Sprintf("Released by %s", ev.Trigger))))
	return slack.NewBlockMessage(blocks...)
}

func formatWeekReset(ev notifier.WeekReset) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("📝 Signup for week %d is open", ev.Week.Week))),
	}
	if line := gameLine(ev.Location, ev.GameTime, ev.GameDate); line != "" {
		blocks = append(blocks, slack.NewSectionBlock(plain(line), nil, nil))
	}
	footer := fmt.Sprintf("%d standing players added", ev.AutoAdded)
	if ev.Archived {
		footer += " • last week archived"
	}
	blocks = append(blocks, slack.NewContextBlock("", plain(footer)))
	return slack.NewBlockMessage(blocks...)
}
