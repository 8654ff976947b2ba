package notifier

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	NotifyRosterReleased(ctx context.Context, event RosterReleased, dryRun bool) error
	NotifyWeekReset(ctx context.Context, event WeekReset, dryRun bool) error
}

// Multi fans an event out to several notifiers concurrently.
type Multi []Notifier

var _ Notifier = Multi(nil)

func (m Multi) NotifyRosterReleased(ctx context.Context, event RosterReleased, dryRun bool) error {
	return m.each(func(n Notifier) error {
		return n.NotifyRosterReleased(ctx, event, dryRun)
	})
}

func (m Multi) NotifyWeekReset(ctx context.Context, event WeekReset, dryRun bool) error {
	return m.each(func(n Notifier) error {
		return n.NotifyWeekReset(ctx, event, dryRun)
	})
}

// each waits for every notifier and joins their errors.
func (m Multi) each(send func(Notifier) error) error {
	p := pool.New().WithErrors()
	for _, n := range m {
		p.Go(func() error { return send(n) })
	}
	return p.Wait()
}

// Nop discards every event.
type Nop struct{}

func (Nop) NotifyRosterReleased(context.Context, RosterReleased, bool) error { return nil }
func (Nop) NotifyWeekReset(context.Context, WeekReset, bool) error           { return nil }
