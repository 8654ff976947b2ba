package schedule

import (
	"fmt"
	"time"

	"github.com/okosoff-test/hockeytest/internal/clock"
)

// OverrideState is the lock state an administrator pinned. The empty value means no pin.
type OverrideState string

const (
	OverrideNone   OverrideState = ""
	OverrideLocked OverrideState = "locked"
	OverrideOpen   OverrideState = "open"
)

// Point is an hour boundary within the week.
type Point struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
}

// Window is a recurring weekly span [Start, End). It may wrap around the end of the week.
type Window struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Instant is a weekday and minute at which a weekly job fires.
type Instant struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Minute  int          `json:"minute"`
}

// Input is the state the evaluator reconciles against.
type Input struct {
	Now            clock.Civil
	RosterReleased bool
	ManualOverride bool
	OverrideState  OverrideState
	RequireCode    bool
}

// Result is the resolved lock state.
type Result struct {
	RequireCode    bool          `json:"requirePlayerCode"`
	LockedWindow   bool          `json:"isLockedWindow"`
	ManualOverride bool          `json:"manualOverride"`
	OverrideState  OverrideState `json:"manualOverrideState"`
	RosterReleased bool          `json:"rosterReleased"`
}

func (p Point) String() string {
	return fmt.Sprintf("%s %02d:00", p.Weekday, p.Hour)
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s", w.Start, w.End)
}

func (i Instant) String() string {
	return fmt.Sprintf("%s %02d:%02d", i.Weekday, i.Hour, i.Minute)
}
