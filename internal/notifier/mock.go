package notifier

import (
	"context"
	"sync"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	NotifyRosterReleasedFunc func(event RosterReleased, dryRun bool) error
	NotifyWeekResetFunc      func(event WeekReset, dryRun bool) error

	// Call records
	RosterReleasedCalls []RosterReleasedCall
	WeekResetCalls      []WeekResetCall
}

type RosterReleasedCall struct {
	Event  RosterReleased
	DryRun bool
}

type WeekResetCall struct {
	Event  WeekReset
	DryRun bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RosterReleasedCalls = nil
	m.WeekResetCalls = nil
}

func (m *Mock) NotifyRosterReleased(ctx context.Context, event RosterReleased, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RosterReleasedCalls = append(m.RosterReleasedCalls, RosterReleasedCall{Event: event, DryRun: dryRun})
	if m.NotifyRosterReleasedFunc != nil {
		return m.NotifyRosterReleasedFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) NotifyWeekReset(ctx context.Context, event WeekReset, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WeekResetCalls = append(m.WeekResetCalls, WeekResetCall{Event: event, DryRun: dryRun})
	if m.NotifyWeekResetFunc != nil {
		return m.NotifyWeekResetFunc(event, dryRun)
	}
	return nil
}

// Releases returns a snapshot of the roster-released calls.
func (m *Mock) Releases() []RosterReleasedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RosterReleasedCall(nil), m.RosterReleasedCalls...)
}

// Resets returns a snapshot of the week-reset calls.
func (m *Mock) Resets() []WeekResetCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WeekResetCall(nil), m.WeekResetCalls...)
}
