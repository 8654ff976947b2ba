package schedule

import "github.com/okosoff-test/hockeytest/internal/clock"

const hoursPerWeek = 7 * 24

// Scheduler resolves whether signup requires the code at a given moment.
type Scheduler struct {
	Locked      Window
	PostRelease Window
}

// New creates a Scheduler. A zero post-release window falls back to the locked window.
func New(locked, postRelease Window) Scheduler {
	if postRelease == (Window{}) {
		postRelease = locked
	}
	return Scheduler{Locked: locked, PostRelease: postRelease}
}

// Contains reports whether t falls inside the window. Boundaries have hour
// granularity; the end hour is exclusive.
func (w Window) Contains(t clock.Civil) bool {
	start := int(w.Start.Weekday)*24 + w.Start.Hour
	end := int(w.End.Weekday)*24 + w.End.Hour
	now := t.HourOfWeek()
	if start == end {
		return false
	}
	if start < end {
		return now >= start && now < end
	}
	// wraps past Saturday midnight
	return now >= start || now < end%hoursPerWeek
}

// Matches reports whether t is exactly at the instant's minute.
func (i Instant) Matches(t clock.Civil) bool {
	return t.Weekday == i.Weekday && t.Hour == i.Hour && t.Minute == i.Minute
}

// IsLockedWindow reports whether t is inside the natural locked window.
func (s Scheduler) IsLockedWindow(t clock.Civil) bool {
	return s.Locked.Contains(t)
}

// Evaluate resolves the lock state. The first matching rule wins:
//  1. a released roster inside the post-release window stays locked unless an
//     override explicitly reopened signup;
//  2. an active manual override is followed verbatim;
//  3. otherwise the natural window decides.
//
// The returned override fields are the values that should be stored.
func (s Scheduler) Evaluate(in Input) Result {
	natural := s.Locked.Contains(in.Now)
	res := Result{
		LockedWindow:   natural,
		ManualOverride: in.ManualOverride,
		OverrideState:  in.OverrideState,
		RosterReleased: in.RosterReleased,
	}
	overrideActive := in.ManualOverride && in.OverrideState != OverrideNone

	if in.RosterReleased && s.PostRelease.Contains(in.Now) {
		res.LockedWindow = true
		if overrideActive && in.OverrideState == OverrideOpen {
			res.RequireCode = false
			return res
		}
		res.RequireCode = true
		if !in.RequireCode {
			// a stale reopen is dropped when the lock is re-imposed
			res.ManualOverride = false
			res.OverrideState = OverrideNone
		}
		return res
	}

	if overrideActive {
		res.RequireCode = in.OverrideState == OverrideLocked
		return res
	}

	res.RequireCode = natural
	return res
}

// Changed reports whether applying r would modify the stored state in.
func (r Result) Changed(in Input) bool {
	return r.RequireCode != in.RequireCode ||
		r.ManualOverride != in.ManualOverride ||
		r.OverrideState != in.OverrideState
}
