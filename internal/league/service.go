package league

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/okosoff-test/hockeytest/internal/balancer"
	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/okosoff-test/hockeytest/internal/config"
	"github.com/okosoff-test/hockeytest/internal/ledger"
	"github.com/okosoff-test/hockeytest/internal/metrics"
	"github.com/okosoff-test/hockeytest/internal/notifier"
	"github.com/okosoff-test/hockeytest/internal/schedule"
)

// Service owns the league state. Every operation runs under one mutex so a
// request or tick completes its mutation before the next one starts.
// Notifications are sent after the lock is released.
type Service struct {
	mu       sync.Mutex
	cfg      config.League
	clock    *clock.Clock
	sched    schedule.Scheduler
	ledger   *ledger.Ledger
	state    State
	store    Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	exempt   map[string]bool
}

// New creates a Service with default state for the league. Call Load to
// restore persisted state.
func New(cfg config.League, clk *clock.Clock, store Store, n notifier.Notifier, m metrics.Metrics, opts ...ledger.Option) *Service {
	var ledgerOpts []ledger.Option
	if cfg.Capacity > 0 {
		ledgerOpts = append(ledgerOpts, ledger.WithCapacity(cfg.Capacity))
	}
	if cfg.MaxGoalies > 0 {
		ledgerOpts = append(ledgerOpts, ledger.WithMaxGoalies(cfg.MaxGoalies))
	}
	if n == nil {
		n = notifier.Nop{}
	}

	exempt := make(map[string]bool, len(cfg.CancelExempt))
	for _, name := range cfg.CancelExempt {
		exempt[ledger.NameKey(name, "")] = true
	}

	return &Service{
		cfg:      cfg,
		clock:    clk,
		sched:    schedule.New(cfg.Locked, cfg.PostRelease),
		ledger:   ledger.New(append(ledgerOpts, opts...)...),
		store:    store,
		notifier: n,
		metrics:  m,
		exempt:   exempt,
		state: State{
			SignupCode:  cfg.SignupCode,
			RequireCode: true,
			Location:    cfg.Location,
			GameTime:    cfg.GameTime,
		},
	}
}

// Load restores state from the store and reconciles the lock.
func (s *Service) Load(ctx context.Context) error {
	snap, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load league state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.restore(snap)
	now := s.clock.Now()
	if s.state.GameDate == "" {
		s.state.GameDate = NextGameDate(now, s.cfg.GameDay, s.cfg.CutoffHour)
	}
	s.reconcileLock(ctx, now)
	s.metrics.SetSpotsRemaining(s.ledger.Spots())
	log.Info("League state loaded",
		"players", len(snap.Players),
		"waitlist", len(snap.Waitlist),
		"spots", s.ledger.Spots(),
		"released", s.state.RosterReleased,
		"gameDate", s.state.GameDate)
	return nil
}

func (s *Service) restore(snap Snapshot) {
	st := &s.state
	decode(snap.Settings, KeySignupCode, &st.SignupCode)
	decode(snap.Settings, KeyRequireCode, &st.RequireCode)
	decode(snap.Settings, KeyManualOverride, &st.ManualOverride)
	decode(snap.Settings, KeyOverrideState, &st.OverrideState)
	decode(snap.Settings, KeyRosterReleased, &st.RosterReleased)
	decode(snap.Settings, KeyLastReset, &st.LastReset)
	decode(snap.Settings, KeyLastAutoRelease, &st.LastAutoRelease)
	decode(snap.Settings, KeyWeekData, &st.Week)
	decode(snap.Settings, KeyLocation, &st.Location)
	decode(snap.Settings, KeyGameTime, &st.GameTime)
	decode(snap.Settings, KeyGameDate, &st.GameDate)

	var capacity *int
	var c, spots int
	switch {
	case decode(snap.Settings, KeyCapacity, &c):
		capacity = &c
	case decode(snap.Settings, KeyPlayerSpots, &spots):
		for _, p := range snap.Players {
			if !p.IsGoalie {
				spots++
			}
		}
		capacity = &spots
	}
	players := snap.Players
	if st.RosterReleased {
		players = balancer.Canonical(players)
	}
	s.ledger.Load(players, snap.Waitlist, capacity)
}

func decode(settings map[string][]byte, key string, v any) bool {
	raw, ok := settings[key]
	if !ok || len(raw) == 0 {
		return false
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		log.Warn("Ignoring unreadable setting", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Service) settings() map[string]any {
	return map[string]any{
		KeyPlayerSpots:     s.ledger.Spots(),
		KeyCapacity:        s.ledger.Capacity(),
		KeySignupCode:      s.state.SignupCode,
		KeyRequireCode:     s.state.RequireCode,
		KeyManualOverride:  s.state.ManualOverride,
		KeyOverrideState:   s.state.OverrideState,
		KeyRosterReleased:  s.state.RosterReleased,
		KeyLastReset:       s.state.LastReset,
		KeyLastAutoRelease: s.state.LastAutoRelease,
		KeyWeekData:        s.state.Week,
		KeyLocation:        s.state.Location,
		KeyGameTime:        s.state.GameTime,
		KeyGameDate:        s.state.GameDate,
	}
}

// saveSettings writes the named settings, or all of them when none are named.
func (s *Service) saveSettings(ctx context.Context, keys ...string) {
	all := s.settings()
	if len(keys) == 0 {
		keys = slices.Sorted(maps.Keys(all))
	}
	for _, key := range keys {
		s.persist("save_setting", s.store.SaveSetting(ctx, key, all[key]))
	}
}

// persist records a failed best-effort write. The in-memory state stays authoritative.
func (s *Service) persist(op string, err error) {
	if err == nil {
		return
	}
	s.metrics.IncPersistenceFailure(op)
	log.Warn("Persistence write failed", "op", op, "error", err)
}

func (s *Service) spotsChanged(ctx context.Context) {
	s.metrics.SetSpotsRemaining(s.ledger.Spots())
	s.saveSettings(ctx, KeyPlayerSpots, KeyCapacity)
}

func (s *Service) lockInput(now clock.Civil) schedule.Input {
	return schedule.Input{
		Now:            now,
		RosterReleased: s.state.RosterReleased,
		ManualOverride: s.state.ManualOverride,
		OverrideState:  s.state.OverrideState,
		RequireCode:    s.state.RequireCode,
	}
}

// reconcileLock applies the scheduler's verdict and persists only real changes.
func (s *Service) reconcileLock(ctx context.Context, now clock.Civil) schedule.Result {
	in := s.lockInput(now)
	res := s.sched.Evaluate(in)
	if !res.Changed(in) {
		return res
	}
	if res.RequireCode != in.RequireCode {
		s.metrics.IncLockTransition(lockLabel(res.RequireCode))
		log.Info("Signup lock changed",
			"requireCode", res.RequireCode,
			"lockedWindow", res.LockedWindow,
			"override", res.OverrideState)
	}
	s.state.RequireCode = res.RequireCode
	s.state.ManualOverride = res.ManualOverride
	s.state.OverrideState = res.OverrideState
	s.saveSettings(ctx, KeyRequireCode, KeyManualOverride, KeyOverrideState)
	return res
}

func lockLabel(requireCode bool) string {
	if requireCode {
		return "locked"
	}
	return "open"
}

func (s *Service) isExempt(p ledger.Player) bool {
	return s.exempt[ledger.NameKey(p.FirstName, p.LastName)]
}

// LockStatus reconciles and returns the current lock state.
func (s *Service) LockStatus(ctx context.Context) schedule.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLock(ctx, s.clock.Now())
}

// Tick is the periodic job: reconcile the lock, run a due weekly reset and
// flush every setting.
func (s *Service) Tick(ctx context.Context) {
	s.mu.Lock()
	now := s.clock.Now()
	s.reconcileLock(ctx, now)
	reset := s.checkWeeklyReset(ctx, now)
	s.saveSettings(ctx)
	s.mu.Unlock()

	if reset != nil {
		s.notifyReset(ctx, *reset, false)
	}
}

// CheckAutoRelease releases the roster when the scheduled release minute has come.
func (s *Service) CheckAutoRelease(ctx context.Context) bool {
	s.mu.Lock()
	now := s.clock.Now()
	if !s.autoReleaseDue(now) {
		s.mu.Unlock()
		return false
	}
	s.state.LastAutoRelease = now.Week()
	ev := s.release(ctx, now, TriggerSchedule)
	s.mu.Unlock()

	s.notifyRelease(ctx, ev, false)
	return true
}

func (s *Service) autoReleaseDue(now clock.Civil) bool {
	return s.cfg.Release.Matches(now) &&
		!s.state.RosterReleased &&
		len(s.ledger.Players()) > 0 &&
		s.state.LastAutoRelease != now.Week()
}

func (s *Service) notifyRelease(ctx context.Context, ev notifier.RosterReleased, dryRun bool) {
	if err := s.notifier.NotifyRosterReleased(ctx, ev, dryRun); err != nil {
		log.Error("Failed to send roster notification", "error", err, "week", ev.Week.Week)
	}
}

func (s *Service) notifyReset(ctx context.Context, ev notifier.WeekReset, dryRun bool) {
	if err := s.notifier.NotifyWeekReset(ctx, ev, dryRun); err != nil {
		log.Error("Failed to send reset notification", "error", err, "week", ev.Week.Week)
	}
}
