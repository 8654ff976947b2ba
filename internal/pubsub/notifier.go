package pubsub

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/metrics"
	"github.com/okosoff-test/hockeytest/internal/notifier"
)

var _ notifier.Notifier = (*Notifier)(nil)

// Notifier publishes league events so other services can react to them.
type Notifier struct {
	client  PubSubClient
	metrics metrics.Metrics
}

// NewNotifier creates a Notifier publishing through client.
func NewNotifier(client PubSubClient, m metrics.Metrics) *Notifier {
	return &Notifier{client: client, metrics: m}
}

func (n *Notifier) NotifyRosterReleased(ctx context.Context, event notifier.RosterReleased, dryRun bool) error {
	return n.publish(ctx, EventRosterReleased, event, dryRun)
}

func (n *Notifier) NotifyWeekReset(ctx context.Context, event notifier.WeekReset, dryRun bool) error {
	return n.publish(ctx, EventWeekReset, event, dryRun)
}

func (n *Notifier) publish(ctx context.Context, topic EventType, event any, dryRun bool) error {
	if dryRun {
		log.Info("Dry run: skipping event publish", "topic", topic)
		return nil
	}
	if err := n.client.SendMessage(ctx, topic, event); err != nil {
		n.metrics.IncNotifFailed()
		return err
	}
	n.metrics.IncNotifSent()
	return nil
}
