package schedule

import (
	"testing"
	"time"

	"github.com/okosoff-test/hockeytest/internal/clock"
	"github.com/stretchr/testify/assert"
)

var (
	fridayWindow = Window{
		Start: Point{Weekday: time.Friday, Hour: 17},
		End:   Point{Weekday: time.Monday, Hour: 18},
	}
	sundayWindow = Window{
		Start: Point{Weekday: time.Sunday, Hour: 17},
		End:   Point{Weekday: time.Wednesday, Hour: 17},
	}
)

// at builds a civil time in the week of 2026-10-18 (a Sunday).
func at(day time.Weekday, hour, minute int) clock.Civil {
	base := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	return clock.At(base.AddDate(0, 0, int(day)).Add(time.Duration(hour)*time.Hour+time.Duration(minute)*time.Minute), time.UTC)
}

func TestWindowContains_Wrapping(t *testing.T) {
	tests := []struct {
		name string
		now  clock.Civil
		want bool
	}{
		{"friday before start", at(time.Friday, 16, 59), false},
		{"friday at start", at(time.Friday, 17, 0), true},
		{"saturday", at(time.Saturday, 3, 0), true},
		{"sunday", at(time.Sunday, 23, 0), true},
		{"monday before end", at(time.Monday, 17, 59), true},
		{"monday end hour is exclusive", at(time.Monday, 18, 0), false},
		{"wednesday", at(time.Wednesday, 12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fridayWindow.Contains(tt.now))
		})
	}
}

func TestWindowContains_NonWrapping(t *testing.T) {
	tests := []struct {
		name string
		now  clock.Civil
		want bool
	}{
		{"saturday", at(time.Saturday, 20, 0), false},
		{"sunday before start", at(time.Sunday, 16, 0), false},
		{"sunday at start", at(time.Sunday, 17, 0), true},
		{"tuesday", at(time.Tuesday, 9, 0), true},
		{"wednesday before end", at(time.Wednesday, 16, 30), true},
		{"wednesday at end", at(time.Wednesday, 17, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sundayWindow.Contains(tt.now))
		})
	}
}

func TestInstantMatches(t *testing.T) {
	release := Instant{Weekday: time.Friday, Hour: 17, Minute: 0}
	assert.True(t, release.Matches(at(time.Friday, 17, 0)))
	assert.False(t, release.Matches(at(time.Friday, 17, 1)))
	assert.False(t, release.Matches(at(time.Thursday, 17, 0)))
}

func TestEvaluate(t *testing.T) {
	s := New(fridayWindow, Window{})
	locked := at(time.Saturday, 12, 0)
	open := at(time.Wednesday, 12, 0)

	tests := []struct {
		name string
		in   Input
		want Result
	}{
		{
			name: "natural window locks",
			in:   Input{Now: locked},
			want: Result{RequireCode: true, LockedWindow: true},
		},
		{
			name: "natural window opens",
			in:   Input{Now: open, RequireCode: true},
			want: Result{RequireCode: false, LockedWindow: false},
		},
		{
			name: "open override wins inside locked window",
			in:   Input{Now: locked, ManualOverride: true, OverrideState: OverrideOpen, RequireCode: true},
			want: Result{RequireCode: false, LockedWindow: true, ManualOverride: true, OverrideState: OverrideOpen},
		},
		{
			name: "locked override wins outside locked window",
			in:   Input{Now: open, ManualOverride: true, OverrideState: OverrideLocked},
			want: Result{RequireCode: true, LockedWindow: false, ManualOverride: true, OverrideState: OverrideLocked},
		},
		{
			name: "override flag without a state is ignored",
			in:   Input{Now: open, ManualOverride: true, RequireCode: true},
			want: Result{RequireCode: false, ManualOverride: true},
		},
		{
			name: "released roster stays locked after release",
			in:   Input{Now: locked, RosterReleased: true, ManualOverride: true, OverrideState: OverrideLocked, RequireCode: true},
			want: Result{RequireCode: true, LockedWindow: true, ManualOverride: true, OverrideState: OverrideLocked, RosterReleased: true},
		},
		{
			name: "released roster reopened by admin",
			in:   Input{Now: locked, RosterReleased: true, ManualOverride: true, OverrideState: OverrideOpen},
			want: Result{RequireCode: false, LockedWindow: true, ManualOverride: true, OverrideState: OverrideOpen, RosterReleased: true},
		},
		{
			name: "released roster re-locks and drops stale override",
			in:   Input{Now: locked, RosterReleased: true, ManualOverride: true, OverrideState: OverrideLocked, RequireCode: false},
			want: Result{RequireCode: true, LockedWindow: true, RosterReleased: true},
		},
		{
			name: "released roster outside the window follows the override",
			in:   Input{Now: open, RosterReleased: true, ManualOverride: true, OverrideState: OverrideLocked, RequireCode: true},
			want: Result{RequireCode: true, ManualOverride: true, OverrideState: OverrideLocked, RosterReleased: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Evaluate(tt.in))
		})
	}
}

func TestResultChanged(t *testing.T) {
	s := New(fridayWindow, fridayWindow)
	in := Input{Now: at(time.Saturday, 1, 0), RequireCode: true}
	assert.False(t, s.Evaluate(in).Changed(in), "already locked state needs no write")

	in.RequireCode = false
	assert.True(t, s.Evaluate(in).Changed(in))
}
